// Package store 保存一次会话内的全部应用状态，并且是唯一负责维护领域不变量的地方。
//
// 所有变更都在写锁内完成，并且以整体替换集合的方式进行：已经交出去的快照
// 不会被后续变更修改。状态只存在于内存中，进程退出即丢失。
package store

import (
	"crypto/rand"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"
	"unicode/utf16"

	"ngl-chats/internal/domain"
)

// CurrentUserID 是登录用户的固定 ID。
const CurrentUserID = "u1"

// 登录用户可选的头像颜色，按用户名长度取模选择
var avatarColors = []string{"bg-slate-800", "bg-zinc-700", "bg-neutral-600"}

const (
	joinCodeLetters  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	joinCodeLength   = 6
	joinCodeAttempts = 10
	// 256 以下 len(joinCodeLetters) 的最大倍数
	joinCodeByteLimit = 256 - 256%len(joinCodeLetters)
	emailDomain       = "college.edu"
)

// State 是 Store 在某一时刻的只读快照。
type State struct {
	CurrentUser *domain.User         `json:"current_user"`
	Groups      []domain.Group       `json:"groups"` // 最新的在前
	Memberships []domain.GroupMember `json:"memberships"`
	Messages    []domain.Message     `json:"messages"` // 最新的在前
	Contacts    []domain.User        `json:"contacts"`
}

// JoinResult 是 JoinGroup 的结果类型。
type JoinResult string

const (
	JoinJoined        JoinResult = "joined"
	JoinAlreadyMember JoinResult = "already_member"
	JoinInvalidCode   JoinResult = "invalid_code"
)

// JoinOutcome 描述一次加入群组的结果。Result 为 JoinInvalidCode 时 Group 为零值。
type JoinOutcome struct {
	Result JoinResult
	Group  domain.Group
}

// Store 是进程内唯一的状态容器。通过 New 创建后以指针传递给各个服务。
type Store struct {
	mu     sync.RWMutex
	state  State
	lastID int64

	now    func() time.Time
	random io.Reader

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// Option 配置 Store。
type Option func(*Store)

// WithClock 替换时间来源 (主要用于测试)。
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRandom 替换生成加入码使用的随机源。
func WithRandom(r io.Reader) Option {
	return func(s *Store) { s.random = r }
}

// New 创建一个空的 Store。
func New(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		random: rand.Reader,
		subs:   make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login 合成当前用户并替换已有的当前用户。不会失败。
func (s *Store) Login(username string) domain.User {
	user := domain.User{
		ID:          CurrentUserID,
		Username:    username,
		Email:       fmt.Sprintf("%s@%s", username, emailDomain),
		AvatarColor: avatarColors[utf16Len(username)%len(avatarColors)],
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.state.CurrentUser = &u
	s.publishLocked(EventLogin)
	return user
}

// Logout 无条件清除当前用户，其他状态保持不变。
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentUser = nil
	s.publishLocked(EventLogout)
}

// CurrentUser 返回当前用户，未登录时 ok 为 false。
func (s *Store) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentUser == nil {
		return domain.User{}, false
	}
	return *s.state.CurrentUser, true
}

// CreateGroup 创建群组，并在同一个临界区内为创建者插入 ADMIN 记录、为每个受邀者插入 MEMBER 记录。
// 受邀者会去重，创建者本人会被跳过。未登录时 panic。
func (s *Store) CreateGroup(name, description string, initialMemberIDs []string) (domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createGroupLocked(s.mustUserLocked(), name, description, initialMemberIDs)
}

// TryCreateGroup 与 CreateGroup 相同，但未登录时返回 ErrNoCurrentUser。
// 登录检查和写入在同一个临界区内完成，并发登出不会触发 panic。
func (s *Store) TryCreateGroup(name, description string, initialMemberIDs []string) (domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.userLocked()
	if !ok {
		return domain.Group{}, ErrNoCurrentUser
	}
	return s.createGroupLocked(user, name, description, initialMemberIDs)
}

func (s *Store) createGroupLocked(user domain.User, name, description string, initialMemberIDs []string) (domain.Group, error) {
	code, err := s.uniqueJoinCodeLocked()
	if err != nil {
		return domain.Group{}, err
	}

	invitees := make([]string, 0, len(initialMemberIDs))
	for _, id := range initialMemberIDs {
		if id == "" || id == user.ID || slices.Contains(invitees, id) {
			continue
		}
		invitees = append(invitees, id)
	}

	group := domain.Group{
		ID:          s.nextIDLocked("g"),
		Name:        name,
		Description: description,
		CreatorID:   user.ID,
		JoinCode:    code,
		MemberCount: 1 + len(invitees),
	}

	rows := make([]domain.GroupMember, 0, len(invitees)+1)
	rows = append(rows, domain.GroupMember{UserID: user.ID, GroupID: group.ID, Role: domain.RoleAdmin})
	for _, id := range invitees {
		rows = append(rows, domain.GroupMember{UserID: id, GroupID: group.ID, Role: domain.RoleMember})
	}

	s.state.Groups = append([]domain.Group{group}, s.state.Groups...)
	s.state.Memberships = append(slices.Clone(s.state.Memberships), rows...)
	s.publishLocked(EventGroupCreated)
	return group, nil
}

// JoinGroup 按加入码 (区分大小写，第一个匹配) 加入群组。
// 已是成员时不做任何修改；加入码无效时返回 ErrInvalidJoinCode。未登录时 panic。
func (s *Store) JoinGroup(code string) (JoinOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joinGroupLocked(s.mustUserLocked(), code)
}

// TryJoinGroup 与 JoinGroup 相同，但未登录时返回 ErrNoCurrentUser。
func (s *Store) TryJoinGroup(code string) (JoinOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.userLocked()
	if !ok {
		return JoinOutcome{}, ErrNoCurrentUser
	}
	return s.joinGroupLocked(user, code)
}

func (s *Store) joinGroupLocked(user domain.User, code string) (JoinOutcome, error) {
	idx := slices.IndexFunc(s.state.Groups, func(g domain.Group) bool { return g.JoinCode == code })
	if idx < 0 {
		return JoinOutcome{Result: JoinInvalidCode}, ErrInvalidJoinCode
	}
	group := s.state.Groups[idx]

	if _, ok := s.membershipLocked(user.ID, group.ID); ok {
		return JoinOutcome{Result: JoinAlreadyMember, Group: group}, nil
	}

	group.MemberCount++
	groups := slices.Clone(s.state.Groups)
	groups[idx] = group
	s.state.Groups = groups
	s.state.Memberships = append(slices.Clone(s.state.Memberships),
		domain.GroupMember{UserID: user.ID, GroupID: group.ID, Role: domain.RoleMember})
	s.publishLocked(EventGroupJoined)
	return JoinOutcome{Result: JoinJoined, Group: group}, nil
}

// PostMessage 以当前用户身份发布一条待审核消息，插入到列表头部。
// 内容校验由调用方负责。未登录时 panic。
func (s *Store) PostMessage(groupID, content string) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.postMessageLocked(s.mustUserLocked(), groupID, content)
}

// TryPostMessage 与 PostMessage 相同，但未登录时返回 ErrNoCurrentUser，
// 群组不存在时返回 ErrGroupNotFound。两项检查都与写入在同一个临界区内。
func (s *Store) TryPostMessage(groupID, content string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.userLocked()
	if !ok {
		return domain.Message{}, ErrNoCurrentUser
	}
	if !slices.ContainsFunc(s.state.Groups, func(g domain.Group) bool { return g.ID == groupID }) {
		return domain.Message{}, ErrGroupNotFound
	}
	return s.postMessageLocked(user, groupID, content), nil
}

func (s *Store) postMessageLocked(user domain.User, groupID, content string) domain.Message {
	msg := domain.Message{
		ID:        s.nextIDLocked("m"),
		GroupID:   groupID,
		SenderID:  user.ID,
		Content:   content,
		Status:    domain.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	s.state.Messages = append([]domain.Message{msg}, s.state.Messages...)
	s.publishLocked(EventMessagePosted)
	return msg
}

// UpdateMessageStatus 把待审核消息设为 APPROVED 或 REJECTED。
// Store 本身不做权限检查。
func (s *Store) UpdateMessageStatus(id string, status domain.MessageStatus) (domain.Message, error) {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return domain.Message{}, ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateMessageLocked(id, EventMessageModerated, func(m *domain.Message) error {
		if !domain.CanTransition(m.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, status)
		}
		m.Status = status
		return nil
	})
}

// LikeMessage 给消息点赞数加一。没有取消点赞。
func (s *Store) LikeMessage(id string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateMessageLocked(id, EventMessageLiked, func(m *domain.Message) error {
		m.Likes++
		return nil
	})
}

// SetMessageAnalysis 记录 AI 安全检查的结果标签，不改变审核状态。
func (s *Store) SetMessageAnalysis(id, label string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateMessageLocked(id, EventMessageAnalyzed, func(m *domain.Message) error {
		m.AIAnalysis = label
		return nil
	})
}

// Reputation 返回当前用户的声望，未登录时返回 0。
func (s *Store) Reputation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentUser == nil {
		return 0
	}
	return domain.Reputation(s.state.CurrentUser.ID, s.state.Messages)
}

// Snapshot 返回当前状态的副本。
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Group 按 ID 查找群组。
func (s *Store) Group(id string) (domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.state.Groups {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.Group{}, ErrGroupNotFound
}

// Message 按 ID 查找消息。
func (s *Store) Message(id string) (domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.state.Messages {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Message{}, ErrMessageNotFound
}

// Membership 返回用户在群组中的成员记录。
func (s *Store) Membership(userID, groupID string) (domain.GroupMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membershipLocked(userID, groupID)
}

// Contacts 返回可以邀请进群的联系人列表。
func (s *Store) Contacts() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Contacts)
}

// --- 私有辅助函数 (调用方必须持有锁) ---

func (s *Store) userLocked() (domain.User, bool) {
	if s.state.CurrentUser == nil {
		return domain.User{}, false
	}
	return *s.state.CurrentUser, true
}

func (s *Store) mustUserLocked() domain.User {
	user, ok := s.userLocked()
	if !ok {
		panic(ErrNoCurrentUser)
	}
	return user
}

func (s *Store) membershipLocked(userID, groupID string) (domain.GroupMember, bool) {
	for _, m := range s.state.Memberships {
		if m.UserID == userID && m.GroupID == groupID {
			return m, true
		}
	}
	return domain.GroupMember{}, false
}

// updateMessageLocked 以复制后替换的方式修改一条消息。fn 返回错误时不做任何修改。
func (s *Store) updateMessageLocked(id string, kind EventKind, fn func(*domain.Message) error) (domain.Message, error) {
	idx := slices.IndexFunc(s.state.Messages, func(m domain.Message) bool { return m.ID == id })
	if idx < 0 {
		return domain.Message{}, ErrMessageNotFound
	}
	msg := s.state.Messages[idx]
	if err := fn(&msg); err != nil {
		return domain.Message{}, err
	}
	messages := slices.Clone(s.state.Messages)
	messages[idx] = msg
	s.state.Messages = messages
	s.publishLocked(kind)
	return msg, nil
}

// nextIDLocked 生成基于时间的 ID，保证严格递增
func (s *Store) nextIDLocked(prefix string) string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return prefix + strconv.FormatInt(id, 10)
}

// uniqueJoinCodeLocked 生成在现有群组中唯一的大写加入码
func (s *Store) uniqueJoinCodeLocked() (string, error) {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := s.randomJoinCodeLocked()
		if err != nil {
			return "", err
		}
		taken := slices.ContainsFunc(s.state.Groups, func(g domain.Group) bool { return g.JoinCode == code })
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("store: no unique join code after %d attempts", joinCodeAttempts)
}

// randomJoinCodeLocked 用拒绝采样把随机字节映射到 joinCodeLetters，
// 丢弃 >= joinCodeByteLimit 的字节，使每个字符等概率。
func (s *Store) randomJoinCodeLocked() (string, error) {
	code := make([]byte, 0, joinCodeLength)
	buf := make([]byte, joinCodeLength)
	for len(code) < joinCodeLength {
		if _, err := io.ReadFull(s.random, buf); err != nil {
			return "", fmt.Errorf("store: generate join code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= joinCodeByteLimit {
				continue
			}
			code = append(code, joinCodeLetters[int(b)%len(joinCodeLetters)])
			if len(code) == joinCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// utf16Len 按 UTF-16 码元计数，非 BMP 字符 (如 emoji) 计为 2
func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func (s *Store) snapshotLocked() State {
	snap := State{
		Groups:      slices.Clone(s.state.Groups),
		Memberships: slices.Clone(s.state.Memberships),
		Messages:    slices.Clone(s.state.Messages),
		Contacts:    slices.Clone(s.state.Contacts),
	}
	if s.state.CurrentUser != nil {
		u := *s.state.CurrentUser
		snap.CurrentUser = &u
	}
	return snap
}
