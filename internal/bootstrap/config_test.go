package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"SERVER_PORT", "LOG_LEVEL", "APP_ENV", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"REDIS_KEY_PREFIX", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "GEMINI_API_KEY", "API_KEY",
	"GEMINI_MODEL", "AI_TIMEOUT", "CORS_ALLOWED_ORIGIN", "SEED_DEMO_DATA",
}

// clearEnv 把所有配置项设为空字符串，等同于未设置
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "ngl:", cfg.KeyPrefix)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, 15*time.Second, cfg.AITimeout)
	assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
	assert.True(t, cfg.SeedDemoData)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("AI_TIMEOUT", "3s")
	t.Setenv("SEED_DEMO_DATA", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 3*time.Second, cfg.AITimeout)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_APIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)

	t.Setenv("GEMINI_API_KEY", "primary-key")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.GeminiAPIKey)
}

func TestLoadConfig_InvalidLogLevelFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "chatty")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"REDIS_DB":          "zero",
		"RATE_LIMIT_MAX":    "0",
		"RATE_LIMIT_WINDOW": "soon",
		"AI_TIMEOUT":        "-1s",
		"SEED_DEMO_DATA":    "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
