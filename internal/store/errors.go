package store

import "errors"

// Store 返回的错误
var (
	// ErrNoCurrentUser 表示在未登录时调用了需要当前用户的操作。
	// 这是调用方的编程错误，Store 会以它 panic。
	ErrNoCurrentUser = errors.New("store: no user is logged in")
	// ErrInvalidJoinCode 表示没有群组使用该加入码
	ErrInvalidJoinCode = errors.New("store: invalid join code")
	// ErrGroupNotFound 表示请求的群组不存在
	ErrGroupNotFound = errors.New("store: group not found")
	// ErrMessageNotFound 表示请求的消息不存在
	ErrMessageNotFound = errors.New("store: message not found")
	// ErrInvalidStatus 表示目标状态不是 APPROVED 或 REJECTED
	ErrInvalidStatus = errors.New("store: status must be APPROVED or REJECTED")
	// ErrInvalidTransition 表示消息已处于终态
	ErrInvalidTransition = errors.New("store: message status is terminal")
)
