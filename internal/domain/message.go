package domain

import "time"

// MessageStatus 是消息的审核状态。
type MessageStatus string

const (
	StatusPending  MessageStatus = "PENDING"
	StatusApproved MessageStatus = "APPROVED"
	StatusRejected MessageStatus = "REJECTED"
)

// Valid 判断状态是否为已知值。
func (s MessageStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal 表示该状态之后不允许再变更。
func (s MessageStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition 只允许 PENDING -> APPROVED 和 PENDING -> REJECTED。
func CanTransition(from, to MessageStatus) bool {
	return from == StatusPending && to.IsTerminal()
}

// Message 表示发到群组里的一条匿名消息。
type Message struct {
	ID         string        `json:"id"`
	GroupID    string        `json:"group_id"`
	SenderID   string        `json:"sender_id"` // 仅用于 "我的帖子"，其他人看到的是匿名
	Content    string        `json:"content"`
	Status     MessageStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	Likes      int           `json:"likes"` // 只增不减
	AIAnalysis string        `json:"ai_analysis,omitempty"`
}
