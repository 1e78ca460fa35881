package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylemart/internal/genai"
)

type advice struct {
	Tags []string `json:"tags"`
}

func newServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const completion = `{"id":"c1","object":"chat.completion","created":1,"model":"local","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"tags\":[\"casual\"]}"}}]}`

func TestGenerateReturnsFirstChoice(t *testing.T) {
	var seen map[string]any
	srv := newServer(t, http.StatusOK, completion, &seen)

	client := New(Options{BaseURL: srv.URL + "/v1", APIKey: "dummy", Model: "local", HTTPClient: srv.Client()})
	text, err := client.Generate(context.Background(), genai.Request{
		Prompt:     "tags please",
		Schema:     advice{},
		SchemaName: "advice",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"tags":["casual"]}`, text)

	assert.Equal(t, "local", seen["model"])
	format, ok := seen["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestGenerateStatusError(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`, nil)

	client := New(Options{BaseURL: srv.URL + "/v1", APIKey: "dummy", HTTPClient: srv.Client()})
	_, err := client.Generate(context.Background(), genai.Request{Prompt: "hi"})

	var statusErr *genai.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","created":1,"model":"local","choices":[]}`, nil)

	client := New(Options{BaseURL: srv.URL + "/v1", APIKey: "dummy", HTTPClient: srv.Client()})
	_, err := client.Generate(context.Background(), genai.Request{Prompt: "hi"})
	require.ErrorIs(t, err, genai.ErrEmptyResponse)
}

func TestGenerateRequiresKey(t *testing.T) {
	client := New(Options{BaseURL: "http://127.0.0.1:1/v1"})
	_, err := client.Generate(context.Background(), genai.Request{Prompt: "hi"})
	require.ErrorIs(t, err, genai.ErrNotConfigured)
}

func TestGenerateRejectsNonImageBlobs(t *testing.T) {
	client := New(Options{BaseURL: "http://127.0.0.1:1/v1", APIKey: "dummy"})
	_, err := client.Generate(context.Background(), genai.Request{
		Prompt: "transcribe",
		Blobs:  []genai.Blob{{MimeType: "audio/ogg", Data: "aGVsbG8="}},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, genai.ErrNotConfigured)
}
