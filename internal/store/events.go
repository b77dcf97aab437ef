package store

// EventKind 标识触发通知的变更类型。
type EventKind string

const (
	EventLogin            EventKind = "login"
	EventLogout           EventKind = "logout"
	EventGroupCreated     EventKind = "group_created"
	EventGroupJoined      EventKind = "group_joined"
	EventMessagePosted    EventKind = "message_posted"
	EventMessageModerated EventKind = "message_moderated"
	EventMessageLiked     EventKind = "message_liked"
	EventMessageAnalyzed  EventKind = "message_analyzed"
	EventSeeded           EventKind = "seeded"
)

// subscriberBuffer 是每个订阅者通道的缓冲大小
const subscriberBuffer = 16

// Event 在每次成功变更后发送给订阅者，携带变更后的快照。
type Event struct {
	Kind     EventKind `json:"kind"`
	Snapshot State     `json:"snapshot"`
}

// Subscribe 注册一个订阅者。返回的 cancel 函数会注销订阅并关闭通道。
// 订阅者处理不过来时事件会被丢弃，Store 不会因此阻塞。
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	cancel := func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// publishLocked 必须在持有 s.mu 时调用，保证事件顺序与变更顺序一致
func (s *Store) publishLocked(kind EventKind) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if len(s.subs) == 0 {
		return
	}
	ev := Event{Kind: kind, Snapshot: s.snapshotLocked()}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
