package imagesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylemart/internal/genai"
)

func TestResolve(t *testing.T) {
	var gotQuery, gotPerPage, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotPerPage = r.URL.Query().Get("per_page")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"photos":[{"src":{"medium":"https://images.pexels.com/1.jpeg","large":"x"}},{"src":{"medium":"second"}}]}`))
	}))
	defer srv.Close()

	c := New(Options{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	got, err := c.Resolve(context.Background(), "  denim jacket & co ")
	require.NoError(t, err)

	assert.Equal(t, "https://images.pexels.com/1.jpeg", got)
	assert.Equal(t, "denim jacket & co", gotQuery)
	assert.Equal(t, "1", gotPerPage)
	assert.Equal(t, "k", gotAuth)
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no photos", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"photos":[]}`))
		}},
		{"upstream error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
		{"empty medium", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"photos":[{"src":{}}]}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := New(Options{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
			got, err := c.Resolve(context.Background(), "hat")
			require.NoError(t, err)
			assert.Equal(t, Placeholder, got)
		})
	}
}

func TestResolveNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := New(Options{APIKey: "k", BaseURL: base})
	got, err := c.Resolve(context.Background(), "hat")
	require.NoError(t, err)
	assert.Equal(t, Placeholder, got)
}

func TestResolvePreconditions(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := New(Options{BaseURL: srv.URL}).Resolve(context.Background(), "hat")
	assert.ErrorIs(t, err, genai.ErrNotConfigured)
	assert.EqualError(t, err, "PEXELS_API_KEY is not configured")

	_, err = New(Options{APIKey: "k", BaseURL: srv.URL}).Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	assert.Zero(t, calls.Load())
}
