package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusApproved))
	assert.True(t, CanTransition(StatusPending, StatusRejected))

	assert.False(t, CanTransition(StatusPending, StatusPending))
	assert.False(t, CanTransition(StatusApproved, StatusRejected))
	assert.False(t, CanTransition(StatusRejected, StatusApproved))
	assert.False(t, CanTransition(StatusApproved, StatusPending))
	assert.False(t, CanTransition(StatusPending, MessageStatus("DELETED")))
}

func TestMessageStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, MessageStatus("approved").Valid(), "状态区分大小写")
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("OWNER").Valid())
}

func TestReputation(t *testing.T) {
	messages := []Message{
		{SenderID: "u1", Status: StatusApproved, Likes: 3}, // +16
		{SenderID: "u1", Status: StatusRejected},           // -5
		{SenderID: "u1", Status: StatusPending, Likes: 9},  // 0
		{SenderID: "u2", Status: StatusApproved, Likes: 100},
	}

	assert.Equal(t, 111, Reputation("u1", messages))
	assert.Equal(t, 310, Reputation("u2", messages))
	assert.Equal(t, 100, Reputation("u3", messages))
	assert.Equal(t, 100, Reputation("u1", nil))
}
