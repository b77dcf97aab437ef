package store_test

import (
	"testing"
	"time"

	"ngl-chats/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Subscribe_ReceivesSnapshots(t *testing.T) {
	s := newStore(t)
	events, cancel := s.Subscribe()
	defer cancel()

	s.Login("ana")
	msg := s.PostMessage("g1", "hello")

	ev := <-events
	assert.Equal(t, store.EventLogin, ev.Kind)
	require.NotNil(t, ev.Snapshot.CurrentUser)
	assert.Equal(t, "ana", ev.Snapshot.CurrentUser.Username)

	ev = <-events
	assert.Equal(t, store.EventMessagePosted, ev.Kind)
	require.Len(t, ev.Snapshot.Messages, 1)
	assert.Equal(t, msg.ID, ev.Snapshot.Messages[0].ID)
}

func TestStore_Subscribe_FailedMutationPublishesNothing(t *testing.T) {
	s := newStore(t)
	s.Login("ana")
	events, cancel := s.Subscribe()
	defer cancel()

	_, err := s.LikeMessage("missing")
	require.Error(t, err)
	_, err = s.JoinGroup("NOPE")
	require.Error(t, err)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %s", ev.Kind)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestStore_Subscribe_SlowSubscriberDoesNotBlock(t *testing.T) {
	s := newStore(t)
	_, cancel := s.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Login("ana")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("store blocked on a subscriber that never reads")
	}
}

func TestStore_Subscribe_CancelClosesChannel(t *testing.T) {
	s := newStore(t)
	events, cancel := s.Subscribe()

	cancel()
	cancel() // 重复调用是安全的

	_, ok := <-events
	assert.False(t, ok)
	s.Login("ana") // 注销后不再投递
}
