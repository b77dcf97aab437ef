package service

import (
	"context"
	"strings"

	"ngl-chats/internal/domain"
	"ngl-chats/internal/store"

	"github.com/sirupsen/logrus"
)

// MessageService 负责发帖、审核和点赞。
type MessageService struct {
	store *store.Store
}

// NewMessageService 创建 MessageService 实例。
func NewMessageService(st *store.Store) *MessageService {
	if st == nil {
		panic("Store cannot be nil for MessageService")
	}
	return &MessageService{store: st}
}

// Post 以当前用户身份向群组发布一条待审核消息。
func (s *MessageService) Post(ctx context.Context, groupID, content string) (domain.Message, error) {
	userID, err := requireUser(s.store)
	if err != nil {
		return domain.Message{}, err
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "group_id": groupID})

	if strings.TrimSpace(content) == "" {
		return domain.Message{}, ErrInvalidInput
	}

	msg, err := s.store.TryPostMessage(groupID, content)
	if err != nil {
		logCtx.WithError(err).Warn("Post: rejected by store")
		return domain.Message{}, mapStoreError(err)
	}
	logCtx.WithField("message_id", msg.ID).Info("Message posted, awaiting moderation")
	return msg, nil
}

// Moderate 把待审核消息设为 APPROVED 或 REJECTED。只有消息所在群组的管理员可以调用。
func (s *MessageService) Moderate(ctx context.Context, messageID string, status domain.MessageStatus) (domain.Message, error) {
	logCtx := logrus.WithFields(logrus.Fields{"message_id": messageID, "status": status})

	if _, err := requireGroupAdmin(s.store, messageID); err != nil {
		logCtx.WithError(err).Warn("Moderate: permission check failed")
		return domain.Message{}, err
	}

	msg, err := s.store.UpdateMessageStatus(messageID, status)
	if err != nil {
		logCtx.WithError(err).Warn("Moderate: status update rejected")
		return domain.Message{}, mapStoreError(err)
	}
	logCtx.WithField("group_id", msg.GroupID).Info("Message moderated")
	return msg, nil
}

// Like 给已通过的消息点赞。
func (s *MessageService) Like(ctx context.Context, messageID string) (domain.Message, error) {
	if _, err := requireUser(s.store); err != nil {
		return domain.Message{}, err
	}
	msg, err := s.store.Message(messageID)
	if err != nil {
		return domain.Message{}, mapStoreError(err)
	}
	if msg.Status != domain.StatusApproved {
		return domain.Message{}, ErrMessageNotApproved
	}

	msg, err = s.store.LikeMessage(messageID)
	if err != nil {
		return domain.Message{}, mapStoreError(err)
	}
	logrus.WithFields(logrus.Fields{"message_id": messageID, "likes": msg.Likes}).Debug("Message liked")
	return msg, nil
}

// requireGroupAdmin 检查当前用户是否为消息所在群组的管理员，返回该消息。
func requireGroupAdmin(st *store.Store, messageID string) (domain.Message, error) {
	userID, err := requireUser(st)
	if err != nil {
		return domain.Message{}, err
	}
	msg, err := st.Message(messageID)
	if err != nil {
		return domain.Message{}, mapStoreError(err)
	}
	member, ok := st.Membership(userID, msg.GroupID)
	if !ok || member.Role != domain.RoleAdmin {
		return domain.Message{}, ErrForbidden
	}
	return msg, nil
}
