package service

import (
	"context"
	"errors"
	"strings"

	"ngl-chats/internal/domain"
	"ngl-chats/internal/store"

	"github.com/sirupsen/logrus"
)

// GroupService 负责群组创建与加入相关的业务逻辑。
type GroupService struct {
	store *store.Store
}

// NewGroupService 创建 GroupService 实例。
func NewGroupService(st *store.Store) *GroupService {
	if st == nil {
		panic("Store cannot be nil for GroupService")
	}
	return &GroupService{store: st}
}

// CreateGroup 以当前用户为管理员创建群组，并把 memberIDs 作为初始成员加入。
func (s *GroupService) CreateGroup(ctx context.Context, name, description string, memberIDs []string) (domain.Group, error) {
	userID, err := requireUser(s.store)
	if err != nil {
		return domain.Group{}, err
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "invitees": len(memberIDs)})

	name = strings.TrimSpace(name)
	if name == "" {
		logCtx.Warn("CreateGroup: empty group name")
		return domain.Group{}, ErrInvalidInput
	}

	// 登录状态可能在 requireUser 之后被并发登出改变，由 Store 在锁内再次检查
	group, err := s.store.TryCreateGroup(name, strings.TrimSpace(description), memberIDs)
	if err != nil {
		if errors.Is(err, store.ErrNoCurrentUser) {
			logCtx.Warn("CreateGroup: user logged out concurrently")
			return domain.Group{}, ErrNotLoggedIn
		}
		logCtx.WithError(err).Error("Failed to create group")
		return domain.Group{}, ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{
		"group_id":     group.ID,
		"join_code":    group.JoinCode,
		"member_count": group.MemberCount,
	}).Info("Group created successfully")
	return group, nil
}

// JoinGroup 处理当前用户通过加入码加入群组。
// 已经是成员时返回 JoinAlreadyMember 且不报错。
func (s *GroupService) JoinGroup(ctx context.Context, code string) (store.JoinOutcome, error) {
	userID, err := requireUser(s.store)
	if err != nil {
		return store.JoinOutcome{}, err
	}
	// 加入码只由数字和大写字母组成，这里对输入做规范化
	code = strings.ToUpper(strings.TrimSpace(code))
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "join_code": code})

	outcome, err := s.store.TryJoinGroup(code)
	if err != nil {
		if errors.Is(err, store.ErrInvalidJoinCode) {
			logCtx.Warn("Failed to join group: invalid join code")
		} else if errors.Is(err, store.ErrNoCurrentUser) {
			logCtx.Warn("JoinGroup: user logged out concurrently")
		} else {
			logCtx.WithError(err).Error("Failed to join group")
		}
		return outcome, mapStoreError(err)
	}

	logCtx.WithFields(logrus.Fields{"group_id": outcome.Group.ID, "result": outcome.Result}).Info("Join group handled")
	return outcome, nil
}

// Contacts 返回创建群组时可以邀请的联系人。
func (s *GroupService) Contacts(ctx context.Context) []domain.User {
	return s.store.Contacts()
}
