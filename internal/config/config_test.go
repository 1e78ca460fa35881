package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PEXELS_API_KEY", "")
	t.Setenv("GENAI_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.WebAddr)
	assert.Equal(t, ProviderGemini, cfg.GenAIProvider)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 25*time.Second, cfg.ChatTimeout)
	assert.Equal(t, "en-US", cfg.SpeechLanguage)
	assert.Empty(t, cfg.GeminiAPIKey, "missing keys do not fail loading")
	assert.Empty(t, cfg.PexelsAPIKey)
}

func TestLoadOverridesAndClamps(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "  g-key ")
	t.Setenv("PEXELS_API_KEY", "p-key")
	t.Setenv("GENAI_PROVIDER", "OpenAI")
	t.Setenv("CHAT_TIMEOUT_SECONDS", "-3")
	t.Setenv("MAX_CONCURRENT", "0")
	t.Setenv("MAX_HISTORY_MESSAGES", "nope")
	t.Setenv("PREFER_IPV4", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.GeminiAPIKey)
	assert.Equal(t, "p-key", cfg.PexelsAPIKey)
	assert.Equal(t, ProviderOpenAI, cfg.GenAIProvider)
	assert.Equal(t, 25*time.Second, cfg.ChatTimeout)
	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, 20, cfg.MaxHistoryMessages)
	assert.False(t, cfg.PreferIPv4)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("GENAI_PROVIDER", "llama")
	_, err := Load()
	require.Error(t, err)
}

func TestRequireTelegram(t *testing.T) {
	assert.Error(t, Config{}.RequireTelegram())
	assert.NoError(t, Config{TelegramToken: "t"}.RequireTelegram())
}
