// Package domain 定义了应用程序的核心数据结构。
package domain

// User 表示一个使用匿名群组的用户。
// 当前用户在登录时由 Store 合成，不对应任何后端账号。
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AvatarColor string `json:"avatar_color,omitempty"` // 头像颜色 (仅用于展示)
}
