package service_test

import (
	"context"
	"testing"

	"ngl-chats/internal/domain"
	"ngl-chats/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Post(t *testing.T) {
	st := seededStore(t, true)
	svc := service.NewMessageService(st)
	ctx := context.Background()

	msg, err := svc.Post(ctx, "g1", "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, msg.Status)
	assert.Equal(t, msg, st.Snapshot().Messages[0])

	_, err = svc.Post(ctx, "g1", " \n ")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.Post(ctx, "g404", "hello")
	assert.ErrorIs(t, err, service.ErrGroupNotFound)
}

func TestMessageService_Moderate_AdminOnly(t *testing.T) {
	st := seededStore(t, true)
	svc := service.NewMessageService(st)
	ctx := context.Background()

	// u1 在 g1 中只是普通成员，m2 属于 g1
	_, err := svc.Moderate(ctx, "m2", domain.StatusApproved)
	assert.ErrorIs(t, err, service.ErrForbidden)
	m2, _ := st.Message("m2")
	assert.Equal(t, domain.StatusPending, m2.Status)

	// u1 是 g2 的管理员
	msg, err := svc.Post(ctx, "g2", "office hours?")
	require.NoError(t, err)
	approved, err := svc.Moderate(ctx, msg.ID, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)

	_, err = svc.Moderate(ctx, msg.ID, domain.StatusRejected)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	_, err = svc.Moderate(ctx, "missing", domain.StatusApproved)
	assert.ErrorIs(t, err, service.ErrMessageNotFound)
}

func TestMessageService_Moderate_InvalidStatus(t *testing.T) {
	st := seededStore(t, true)
	svc := service.NewMessageService(st)
	msg, _ := svc.Post(context.Background(), "g2", "x")

	_, err := svc.Moderate(context.Background(), msg.ID, domain.StatusPending)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestMessageService_Like(t *testing.T) {
	st := seededStore(t, true)
	svc := service.NewMessageService(st)
	ctx := context.Background()

	liked, err := svc.Like(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 13, liked.Likes)

	_, err = svc.Like(ctx, "m2")
	assert.ErrorIs(t, err, service.ErrMessageNotApproved)
	_, err = svc.Like(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrMessageNotFound)
}

func TestMessageService_ReputationScenario(t *testing.T) {
	st := seededStore(t, true)
	svc := service.NewMessageService(st)
	ctx := context.Background()
	assert.Equal(t, 100, st.Reputation())

	msg, err := svc.Post(ctx, "g2", "hello")
	require.NoError(t, err)
	assert.Equal(t, 100, st.Reputation())

	_, err = svc.Moderate(ctx, msg.ID, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 110, st.Reputation())

	for i := 0; i < 3; i++ {
		_, err = svc.Like(ctx, msg.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 116, st.Reputation())
}
