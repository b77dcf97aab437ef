package websocket_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	wsHandler "ngl-chats/internal/handler/websocket"
	"ngl-chats/internal/hub"
	"ngl-chats/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readUpdate(t *testing.T, conn *websocket.Conn) (hub.Update, string) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var up hub.Update
	require.NoError(t, json.Unmarshal(data, &up))
	return up, string(data)
}

func TestWebSocket_PushesSnapshotsOnMutation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := store.New()
	h := hub.NewHub(st)
	go h.Run()
	defer h.Stop()

	router := gin.New()
	router.GET("/ws/session", wsHandler.NewWebSocketHandler(h, "").HandleConnection)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	up, _ := readUpdate(t, conn)
	assert.Equal(t, hub.KindSnapshot, up.Kind)
	assert.Nil(t, up.Snapshot.CurrentUser)

	st.Login("ana")
	up, _ = readUpdate(t, conn)
	assert.Equal(t, store.EventLogin, up.Kind)
	require.NotNil(t, up.Snapshot.CurrentUser)
	assert.Equal(t, "ana", up.Snapshot.CurrentUser.Username)

	st.PostMessage("g1", "hello")
	up, _ = readUpdate(t, conn)
	assert.Equal(t, store.EventMessagePosted, up.Kind)
	require.Len(t, up.Snapshot.Messages, 1)
	assert.True(t, up.Snapshot.Messages[0].Mine)
}

func TestWebSocket_HidesSendersAndMemberships(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := store.New()
	st.Seed(time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC))
	st.Login("ana")
	h := hub.NewHub(st)
	go h.Run()
	defer h.Stop()

	router := gin.New()
	router.GET("/ws/session", wsHandler.NewWebSocketHandler(h, "").HandleConnection)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	up, raw := readUpdate(t, conn)
	assert.Equal(t, hub.KindSnapshot, up.Kind)
	assert.NotEmpty(t, up.Snapshot.Messages)
	assert.NotContains(t, raw, "sender_id")
	assert.NotContains(t, raw, "memberships")
}

func TestWebSocket_RejectsForeignOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := hub.NewHub(store.New())
	go h.Run()
	defer h.Stop()

	router := gin.New()
	router.GET("/ws/session", wsHandler.NewWebSocketHandler(h, "http://localhost:3000").HandleConnection)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session"
	header := map[string][]string{"Origin": {"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}
