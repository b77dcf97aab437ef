package service

import (
	"errors"

	"ngl-chats/internal/store"
	"ngl-chats/internal/view"
)

var (
	ErrNotLoggedIn        = errors.New("no user is logged in")
	ErrInvalidInput       = errors.New("invalid input")
	ErrGroupNotFound      = errors.New("group not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidJoinCode    = errors.New("invalid join code")
	ErrForbidden          = errors.New("only group admins can moderate messages")
	ErrInvalidTransition  = errors.New("message has already been moderated")
	ErrMessageNotApproved = errors.New("only approved messages can be liked")
	ErrQueueUnavailable   = errors.New("analysis queue unavailable")
	ErrInternalServer     = errors.New("internal server error")
)

// mapStoreError 将 Store 层的错误映射到服务层定义的错误。
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrInvalidJoinCode):
		return ErrInvalidJoinCode
	case errors.Is(err, store.ErrGroupNotFound), errors.Is(err, view.ErrGroupNotFound):
		return ErrGroupNotFound
	case errors.Is(err, store.ErrMessageNotFound):
		return ErrMessageNotFound
	case errors.Is(err, store.ErrInvalidTransition):
		return ErrInvalidTransition
	case errors.Is(err, store.ErrInvalidStatus):
		return ErrInvalidInput
	case errors.Is(err, store.ErrNoCurrentUser):
		return ErrNotLoggedIn
	}
	return ErrInternalServer
}

// requireUser 在调用 Store 的变更方法前检查登录状态，避免触发 Store 的 panic
func requireUser(st *store.Store) (string, error) {
	user, ok := st.CurrentUser()
	if !ok {
		return "", ErrNotLoggedIn
	}
	return user.ID, nil
}
