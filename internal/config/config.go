package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config is shared by the web server and the Telegram bot. API keys are
// optional at load time: endpoints that need a missing key report it.
type Config struct {
	LogLevel   string
	WebAddr    string
	PreferIPv4 bool

	GenAIProvider string

	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiAPIVersion string
	GeminiModel      string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	PexelsAPIKey  string
	PexelsBaseURL string

	TelegramToken string
	Debug         bool

	HTTPTimeout    time.Duration
	ChatTimeout    time.Duration
	RequestTimeout time.Duration

	MaxConcurrent       int
	MaxHistoryMessages  int
	SpeechMaxConcurrent int
	SpeechLanguage      string
}

func Load() (Config, error) {
	cfg := Config{
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		WebAddr:             getEnv("WEB_ADDR", ":8080"),
		PreferIPv4:          getEnvBool("PREFER_IPV4", true),
		GenAIProvider:       strings.ToLower(getEnv("GENAI_PROVIDER", ProviderGemini)),
		GeminiBaseURL:       getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIVersion:    getEnv("GEMINI_API_VERSION", "v1beta"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "http://localhost:8080/v1"),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		PexelsBaseURL:       getEnv("PEXELS_BASE_URL", "https://api.pexels.com"),
		Debug:               getEnvBool("DEBUG", false),
		HTTPTimeout:         getEnvDuration("HTTP_TIMEOUT_SECONDS", 60),
		ChatTimeout:         getEnvDuration("CHAT_TIMEOUT_SECONDS", 25),
		RequestTimeout:      getEnvDuration("REQUEST_TIMEOUT_SECONDS", 60),
		MaxConcurrent:       getEnvInt("MAX_CONCURRENT", 4),
		MaxHistoryMessages:  getEnvInt("MAX_HISTORY_MESSAGES", 20),
		SpeechMaxConcurrent: getEnvInt("SPEECH_MAX_CONCURRENT", 1),
		SpeechLanguage:      getEnv("SPEECH_LANGUAGE", "en-US"),
	}

	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.PexelsAPIKey = strings.TrimSpace(os.Getenv("PEXELS_API_KEY"))
	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	switch cfg.GenAIProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return Config{}, errors.New("GENAI_PROVIDER must be gemini or openai")
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxHistoryMessages < 1 {
		cfg.MaxHistoryMessages = 1
	}
	if cfg.SpeechMaxConcurrent < 1 {
		cfg.SpeechMaxConcurrent = 1
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = 25 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	return cfg, nil
}

// RequireTelegram is checked by the bot binary only.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallbackSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackSeconds)) * time.Second
}
