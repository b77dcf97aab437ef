// Package view 从 Store 快照计算各个页面需要的数据。这里的函数都是纯函数。
package view

import (
	"errors"
	"time"

	"ngl-chats/internal/domain"
	"ngl-chats/internal/store"
)

// ErrGroupNotFound 表示详情页请求的群组不存在
var ErrGroupNotFound = errors.New("view: group not found")

// GroupCard 是群组列表中的一项。
type GroupCard struct {
	domain.Group
	IsAdmin bool `json:"is_admin"`
}

// GroupList 是群组列表页的数据。
type GroupList struct {
	MyGroups        []GroupCard    `json:"my_groups"`
	SuggestedGroups []domain.Group `json:"suggested_groups"` // 带加入码，客户端可用来预填加入表单
}

// FeedItem 是群组动态中的一条消息，不包含发送者。
type FeedItem struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
	Mine      bool      `json:"mine"`
}

// PendingItem 是管理员审核列表中的一条消息。
type PendingItem struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	AIAnalysis string    `json:"ai_analysis,omitempty"`
}

// GroupDetail 是群组详情页的数据。Pending 只对管理员填充。
type GroupDetail struct {
	Group   domain.Group  `json:"group"`
	IsAdmin bool          `json:"is_admin"`
	Feed    []FeedItem    `json:"feed"`
	Pending []PendingItem `json:"pending"`
}

// Profile 是个人主页的数据。
type Profile struct {
	User       domain.User      `json:"user"`
	Reputation int              `json:"reputation"`
	MyPosts    []domain.Message `json:"my_posts"`
	GroupCount int              `json:"group_count"`
}

func currentUserID(snap store.State) string {
	if snap.CurrentUser == nil {
		return ""
	}
	return snap.CurrentUser.ID
}

func roleOf(snap store.State, userID, groupID string) (domain.Role, bool) {
	if userID == "" {
		return "", false
	}
	for _, m := range snap.Memberships {
		if m.UserID == userID && m.GroupID == groupID {
			return m.Role, true
		}
	}
	return "", false
}

// BuildGroupList 把群组分为已加入和推荐两组，保持 Store 中的顺序。
func BuildGroupList(snap store.State) GroupList {
	uid := currentUserID(snap)
	list := GroupList{MyGroups: []GroupCard{}, SuggestedGroups: []domain.Group{}}
	for _, g := range snap.Groups {
		role, ok := roleOf(snap, uid, g.ID)
		if ok {
			list.MyGroups = append(list.MyGroups, GroupCard{Group: g, IsAdmin: role == domain.RoleAdmin})
		} else {
			list.SuggestedGroups = append(list.SuggestedGroups, g)
		}
	}
	return list
}

// BuildGroupDetail 构建群组详情。
func BuildGroupDetail(snap store.State, groupID string) (GroupDetail, error) {
	var detail GroupDetail
	found := false
	for _, g := range snap.Groups {
		if g.ID == groupID {
			detail.Group, found = g, true
			break
		}
	}
	if !found {
		return GroupDetail{}, ErrGroupNotFound
	}

	uid := currentUserID(snap)
	role, _ := roleOf(snap, uid, groupID)
	detail.IsAdmin = role == domain.RoleAdmin
	detail.Feed = []FeedItem{}
	detail.Pending = []PendingItem{}

	for _, m := range snap.Messages {
		if m.GroupID != groupID {
			continue
		}
		switch m.Status {
		case domain.StatusApproved:
			detail.Feed = append(detail.Feed, FeedItem{
				ID:        m.ID,
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
				Likes:     m.Likes,
				Mine:      uid != "" && m.SenderID == uid,
			})
		case domain.StatusPending:
			if detail.IsAdmin {
				detail.Pending = append(detail.Pending, PendingItem{
					ID:         m.ID,
					Content:    m.Content,
					CreatedAt:  m.CreatedAt,
					AIAnalysis: m.AIAnalysis,
				})
			}
		}
	}
	return detail, nil
}

// BuildProfile 构建个人主页。未登录时 ok 为 false。
func BuildProfile(snap store.State) (Profile, bool) {
	if snap.CurrentUser == nil {
		return Profile{}, false
	}
	uid := snap.CurrentUser.ID
	p := Profile{
		User:       *snap.CurrentUser,
		Reputation: domain.Reputation(uid, snap.Messages),
		MyPosts:    []domain.Message{},
	}
	for _, m := range snap.Messages {
		if m.SenderID == uid {
			p.MyPosts = append(p.MyPosts, m)
		}
	}
	for _, m := range snap.Memberships {
		if m.UserID == uid {
			p.GroupCount++
		}
	}
	return p, true
}

// MessageItem 是推送给客户端的一条消息。不包含发送者，只标记是否为自己所发。
type MessageItem struct {
	ID         string               `json:"id"`
	GroupID    string               `json:"group_id"`
	Content    string               `json:"content"`
	Status     domain.MessageStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	Likes      int                  `json:"likes"`
	AIAnalysis string               `json:"ai_analysis,omitempty"`
	Mine       bool                 `json:"mine"`
}

// SessionSnapshot 是通过 WebSocket 推送的会话状态。
// 只包含当前用户能看到的数据：其他人的成员记录和消息发送者都不会出现。
type SessionSnapshot struct {
	CurrentUser *domain.User  `json:"current_user"`
	Groups      GroupList     `json:"groups"`
	Messages    []MessageItem `json:"messages"` // 最新的在前
	Reputation  int           `json:"reputation"`
}

// BuildSessionSnapshot 从完整快照中裁剪出当前用户可见的部分。
// 可见的消息：所有已通过的消息、自己发的消息、自己担任管理员的群组中的待审核消息。
// 未登录时不包含任何消息。
func BuildSessionSnapshot(snap store.State) SessionSnapshot {
	out := SessionSnapshot{
		Groups:   BuildGroupList(snap),
		Messages: []MessageItem{},
	}
	if snap.CurrentUser == nil {
		return out
	}
	u := *snap.CurrentUser
	out.CurrentUser = &u
	out.Reputation = domain.Reputation(u.ID, snap.Messages)

	for _, m := range snap.Messages {
		mine := m.SenderID == u.ID
		visible := mine || m.Status == domain.StatusApproved
		if !visible && m.Status == domain.StatusPending {
			role, ok := roleOf(snap, u.ID, m.GroupID)
			visible = ok && role == domain.RoleAdmin
		}
		if !visible {
			continue
		}
		out.Messages = append(out.Messages, MessageItem{
			ID:         m.ID,
			GroupID:    m.GroupID,
			Content:    m.Content,
			Status:     m.Status,
			CreatedAt:  m.CreatedAt,
			Likes:      m.Likes,
			AIAnalysis: m.AIAnalysis,
			Mine:       mine,
		})
	}
	return out
}
