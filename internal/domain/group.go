package domain

// Role 是成员在某个群组中的角色。
type Role string

const (
	RoleAdmin  Role = "ADMIN" // 可以审核消息
	RoleMember Role = "MEMBER"
)

// Valid 判断角色是否为已知值。
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Group 表示一个匿名群组。
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatorID   string `json:"creator_id"`
	JoinCode    string `json:"join_code"`    // 用于自助加入群组的短码，创建时随机生成
	MemberCount int    `json:"member_count"` // 缓存的计数器，不从成员记录重新计算
}

// GroupMember 是 (UserID, GroupID) 唯一的成员关系记录。
type GroupMember struct {
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`
	Role    Role   `json:"role"`
}
