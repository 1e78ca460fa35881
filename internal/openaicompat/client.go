// Package openaicompat generates text through any OpenAI-compatible
// chat-completions server (llama.cpp, vLLM, OpenAI itself).
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"stylemart/internal/genai"
)

const defaultModel = "gpt-4o-mini"

type Options struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	client     openai.Client
	model      string
	configured bool
	logger     *slog.Logger
}

func New(opts Options) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	apiKey := strings.TrimSpace(opts.APIKey)
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	return &Client{
		client:     openai.NewClient(reqOpts...),
		model:      model,
		configured: apiKey != "",
		logger:     logger,
	}
}

func (c *Client) Generate(ctx context.Context, req genai.Request) (string, error) {
	if !c.configured {
		return "", &genai.ConfigError{Key: "OPENAI_API_KEY"}
	}

	parts := []openai.ChatCompletionContentPartUnionParam{openai.TextContentPart(req.Prompt)}
	for _, b := range req.Blobs {
		if !strings.HasPrefix(b.MimeType, "image/") {
			return "", fmt.Errorf("openaicompat: unsupported inline content %q", b.MimeType)
		}
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: b.DataURI(),
		}))
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
		Model:    shared.ChatModel(c.model),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.ResponseFormat = responseFormat(req.SchemaName, req.Schema)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			c.logger.Warn("openai-compatible non-2xx", "status", apiErr.StatusCode, "model", c.model)
			return "", &genai.StatusError{Provider: "openai", Code: apiErr.StatusCode, Body: apiErr.Message}
		}
		return "", fmt.Errorf("request: %w", err)
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", genai.ErrEmptyResponse
	}
	return completion.Choices[0].Message.Content, nil
}

func responseFormat(name string, v any) openai.ChatCompletionNewParamsResponseFormatUnion {
	if name == "" {
		name = "response"
	}
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   name,
				Schema: reflector.Reflect(v),
				Strict: openai.Bool(true),
			},
		},
	}
}
