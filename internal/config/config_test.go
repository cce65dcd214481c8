package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerLogLevel, cfg.Server.LogLevel)
	assert.Equal(t, DefaultGeminiModel, cfg.Gemini.Model)
	assert.Equal(t, DefaultGeminiBaseURL, cfg.Gemini.BaseURL)
	assert.Equal(t, DefaultAssistantMaxStreamIterations, cfg.Assistant.MaxStreamIterations)
	assert.Equal(t, DefaultAssistantName, cfg.Assistant.AssistantName)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, DefaultRateLimitMaxRequests, cfg.RateLimit.MaxRequests)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("KOUAKOU_SERVER_PORT", "9999")
	t.Setenv("KOUAKOU_GEMINI_MODEL", "gemini-override")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "gemini-override", cfg.Gemini.Model)
}

// Keys with underscores of their own must stay reachable: only the leading
// section separator becomes a dot.
func TestLoadEnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("KOUAKOU_SERVER_LOG_LEVEL", "debug")
	t.Setenv("KOUAKOU_RATELIMIT_MAX_REQUESTS", "7")
	t.Setenv("KOUAKOU_ASSISTANT_MAX_MESSAGE_RUNES", "1200")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 7, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 1200, cfg.Assistant.MaxMessageRunes)
}

func TestLoadInjectsGeminiAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "standard-env-key")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "standard-env-key", cfg.Gemini.APIKey)
}

func TestDurationOrDefault(t *testing.T) {
	d, err := DurationOrDefault("45s", "10s")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	d, err = DurationOrDefault("", "10s")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	_, err = DurationOrDefault("not a duration", "10s")
	assert.Error(t, err)

	_, err = DurationOrDefault("", "")
	assert.Error(t, err)
}
