package backend

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"stylemart/internal/config"
	"stylemart/internal/gemini"
	"stylemart/internal/genai"
	"stylemart/internal/openaicompat"
)

func TestNewSelectsProvider(t *testing.T) {
	gen := New(config.Config{GenAIProvider: config.ProviderGemini}, http.DefaultClient, nil)
	assert.IsType(t, &gemini.Client{}, gen)

	gen = New(config.Config{GenAIProvider: config.ProviderOpenAI}, http.DefaultClient, nil)
	assert.IsType(t, &openaicompat.Client{}, gen)
}

func TestMissingKeyNamesProviderVariable(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{config.ProviderGemini, "GEMINI_API_KEY is not configured"},
		{config.ProviderOpenAI, "OPENAI_API_KEY is not configured"},
	}

	for _, tt := range tests {
		gen := New(config.Config{GenAIProvider: tt.provider}, http.DefaultClient, nil)
		_, err := gen.Generate(context.Background(), genai.Request{Prompt: "hi"})
		assert.ErrorIs(t, err, genai.ErrNotConfigured)
		assert.EqualError(t, err, tt.want)
	}
}
