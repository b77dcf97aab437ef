package service_test

import (
	"testing"
	"time"

	"ngl-chats/internal/store"
)

var testNow = time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)

// seededStore 返回装入演示数据的 Store，login 为 true 时以 "ana" 登录
func seededStore(t *testing.T, login bool) *store.Store {
	t.Helper()
	st := store.New()
	st.Seed(testNow)
	if login {
		st.Login("ana")
	}
	return st
}
