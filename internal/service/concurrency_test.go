package service_test

import (
	"context"
	"sync"
	"testing"

	"ngl-chats/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 一个 goroutine 反复登录/登出，同时调用会写入 Store 的服务方法。
// 每次调用要么成功，要么返回 ErrNotLoggedIn，不能 panic。
func TestServices_ConcurrentLogout_NeverPanics(t *testing.T) {
	st := seededStore(t, true)
	groups := service.NewGroupService(st)
	messages := service.NewMessageService(st)
	ctx := context.Background()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				st.Login("ana")
				st.Logout()
			}
		}
	}()

	calls := []func() error{
		func() error {
			_, err := groups.CreateGroup(ctx, "late night crew", "", []string{"u2"})
			return err
		},
		func() error {
			_, err := groups.JoinGroup(ctx, "VIBES")
			return err
		},
		func() error {
			_, err := messages.Post(ctx, "g1", "anyone awake?")
			return err
		},
	}

	for i := 0; i < 2000; i++ {
		call := calls[i%len(calls)]
		var err error
		require.NotPanics(t, func() { err = call() })
		if err != nil {
			assert.ErrorIs(t, err, service.ErrNotLoggedIn)
		}
	}
	close(stop)
	wg.Wait()
}
