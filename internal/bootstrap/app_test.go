package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ngl-chats/internal/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Config{
		ServerPort:      "0",
		LogLevel:        "error",
		AppEnv:          "test",
		KeyPrefix:       "ngl:",
		RateLimitMax:    100,
		RateLimitWindow: time.Second,
		AITimeout:       time.Second,
		CORSOrigin:      "http://localhost:3000",
		SeedDemoData:    true,
	})
	require.NoError(t, err)
	t.Cleanup(app.Shutdown)
	return app
}

func serve(app *App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.HttpServer.Handler.ServeHTTP(w, req)
	return w
}

func TestNewApp_WithoutRedis(t *testing.T) {
	app := newTestApp(t)

	assert.Nil(t, app.RedisClient)
	assert.Nil(t, app.AsynqClient)
	assert.Nil(t, app.AsynqServer)
	assert.Equal(t, ":0", app.HttpServer.Addr)
	assert.Len(t, app.Store.Snapshot().Groups, 3)
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	_, err := NewApp(&Config{
		LogLevel:        "error",
		RedisAddr:       "127.0.0.1:1",
		RateLimitMax:    1,
		RateLimitWindow: time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis")
}

func TestRouter_Basics(t *testing.T) {
	app := newTestApp(t)

	w := serve(app, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = serve(app, http.MethodGet, "/somewhere/else", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = serve(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(app, http.MethodOptions, "/api/groups", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(app, http.MethodGet, "/api/views/groups", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_EndToEndFlow(t *testing.T) {
	app := newTestApp(t)

	w := serve(app, http.MethodPost, "/api/session", `{"username":"ana"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(app, http.MethodPost, "/api/groups/g2/messages", `{"content":"anyone up for pizza"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var msg struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))

	// 没有 Redis 时安全检查在进程内执行；没有 API key 时得到失败标签
	w = serve(app, http.MethodPost, "/api/messages/"+msg.ID+"/safety/async", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Eventually(t, func() bool {
		m, err := app.Store.Message(msg.ID)
		return err == nil && m.AIAnalysis == ai.LabelAnalysisFailed
	}, 2*time.Second, 10*time.Millisecond)

	w = serve(app, http.MethodPost, "/api/messages/"+msg.ID+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(app, http.MethodPost, "/api/assist/polish", `{"content":"keep me as is"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content":"keep me as is"}`, w.Body.String())

	w = serve(app, http.MethodGet, "/api/views/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Reputation int `json:"reputation"`
		GroupCount int `json:"group_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, 110, profile.Reputation)
	assert.Equal(t, 2, profile.GroupCount)

	w = serve(app, http.MethodDelete, "/api/session", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = serve(app, http.MethodPost, "/api/groups/g2/messages", `{"content":"still here?"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
