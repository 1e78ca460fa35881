// Package backend picks the text generator named by configuration.
package backend

import (
	"log/slog"
	"net/http"

	"stylemart/internal/config"
	"stylemart/internal/gemini"
	"stylemart/internal/genai"
	"stylemart/internal/openaicompat"
)

func New(cfg config.Config, httpClient *http.Client, logger *slog.Logger) genai.Generator {
	if cfg.GenAIProvider == config.ProviderOpenAI {
		return openaicompat.New(openaicompat.Options{
			BaseURL:    cfg.OpenAIBaseURL,
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			HTTPClient: httpClient,
			Logger:     logger,
		})
	}

	return gemini.New(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		Model:      cfg.GeminiModel,
		HTTPClient: httpClient,
		Logger:     logger,
	})
}
