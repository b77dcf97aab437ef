package service

import (
	"context"
	"strings"

	"ngl-chats/internal/domain"
	"ngl-chats/internal/store"

	"github.com/sirupsen/logrus"
)

// SessionService 负责登录和登出。没有密码，也不校验任何后端账号。
type SessionService struct {
	store *store.Store
}

// NewSessionService 创建 SessionService 实例。
func NewSessionService(st *store.Store) *SessionService {
	if st == nil {
		panic("Store cannot be nil for SessionService")
	}
	return &SessionService{store: st}
}

// Login 以给定用户名登录。空白用户名返回 ErrInvalidInput。
func (s *SessionService) Login(ctx context.Context, username string) (domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return domain.User{}, ErrInvalidInput
	}
	user := s.store.Login(username)
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": username}).Info("User logged in")
	return user, nil
}

// Logout 清除当前用户。
func (s *SessionService) Logout(ctx context.Context) {
	s.store.Logout()
	logrus.Info("User logged out")
}

// Current 返回当前用户。
func (s *SessionService) Current(ctx context.Context) (domain.User, error) {
	user, ok := s.store.CurrentUser()
	if !ok {
		return domain.User{}, ErrNotLoggedIn
	}
	return user, nil
}
