package hub

import (
	"encoding/json"
	"sync"
	"time"

	"ngl-chats/internal/store"
	"ngl-chats/internal/view"

	"github.com/sirupsen/logrus"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// KindSnapshot 是客户端连接后收到的第一条消息的类型
const KindSnapshot store.EventKind = "snapshot"

// Update 是推送给客户端的消息：变更类型加上裁剪后的会话快照
type Update struct {
	Kind     store.EventKind      `json:"kind"`
	Snapshot view.SessionSnapshot `json:"snapshot"`
}

func newUpdate(kind store.EventKind, snap store.State) Update {
	return Update{Kind: kind, Snapshot: view.BuildSessionSnapshot(snap)}
}

// HubMessage 定义了在 Hub 内部通道传递的消息类型
type HubMessage struct {
	Type   string // "register", "unregister"
	Client *Client
}

// Hub 维护已连接的客户端，并把 Store 的每次变更推送给它们。
type Hub struct {
	messageChan chan HubMessage

	clients   map[*Client]bool
	clientsMu sync.RWMutex

	store *store.Store
	done  chan struct{}
	once  sync.Once
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(st *store.Store) *Hub {
	if st == nil {
		panic("Store cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 64),
		clients:     make(map[*Client]bool),
		store:       st,
		done:        make(chan struct{}),
	}
}

// Run 启动 Hub 的主事件处理循环，直到 Stop 被调用。
// 它应该在一个单独的 goroutine 中运行。
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	events, cancel := h.store.Subscribe()
	defer cancel()
	log.Info("Hub is running...")

	for {
		select {
		case msg := <-h.messageChan:
			switch msg.Type {
			case "register":
				h.registerClient(msg.Client)
			case "unregister":
				h.unregisterClient(msg.Client)
			default:
				log.Warnf("Hub: Received unknown message type: %s", msg.Type)
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(ev)
		case <-h.done:
			h.closeAll()
			log.Info("Hub is shutting down...")
			return
		}
	}
}

// Stop 停止 Run 循环并关闭所有客户端。可重复调用。
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// QueueMessage 非阻塞地把消息放入 Hub 的处理通道，通道已满时返回 false。
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		return false
	}
}

// ClientCount 返回当前连接数。
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// registerClient 处理客户端注册逻辑，并立即发送一次当前快照
func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	h.clientsMu.Lock()
	h.clients[client] = true
	h.clientsMu.Unlock()
	logrus.WithField("clients", h.ClientCount()).Info("Client registered to Hub")

	h.sendTo(client, newUpdate(KindSnapshot, h.store.Snapshot()))
}

// unregisterClient 处理客户端注销逻辑
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		return
	}
	h.clientsMu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.clientsMu.Unlock()
	logrus.WithField("clients", h.ClientCount()).Info("Client unregistered from Hub")
}

func (h *Hub) broadcast(ev store.Event) {
	data, err := json.Marshal(newUpdate(ev.Kind, ev.Snapshot))
	if err != nil {
		logrus.WithError(err).Error("Hub: Failed to marshal store event")
		return
	}
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// 客户端太慢，丢弃这条消息；下一次变更会带上完整快照
			logrus.WithField("event", ev.Kind).Warn("Client send buffer full, dropping event")
		}
	}
}

func (h *Hub) sendTo(client *Client, update Update) {
	data, err := json.Marshal(update)
	if err != nil {
		logrus.WithError(err).Error("Hub: Failed to marshal snapshot")
		return
	}
	select {
	case client.send <- data:
	default:
		logrus.Warn("Client send buffer full, dropping initial snapshot")
	}
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}
