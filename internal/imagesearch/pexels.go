// Package imagesearch resolves short descriptive hints to a representative
// stock photo URL using the Pexels search API.
package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"stylemart/internal/genai"
)

// Placeholder is returned whenever a real photo cannot be found.
const Placeholder = "https://placehold.co/400x400.png"

const (
	defaultBaseURL = "https://api.pexels.com"
	maxErrorBody   = 1024
)

var ErrEmptyQuery = errors.New("query is required")

type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// Resolve returns the medium-size URL of the first search hit for query.
// Configuration and input problems are errors and are checked before any
// network call. Every upstream problem degrades to Placeholder with a nil
// error.
func (c *Client) Resolve(ctx context.Context, query string) (string, error) {
	if c.apiKey == "" {
		return "", &genai.ConfigError{Key: "PEXELS_API_KEY"}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	photoURL, err := c.search(ctx, query)
	if err != nil {
		c.logger.Warn("pexels lookup failed", "query", query, "error", err)
		return Placeholder, nil
	}
	if photoURL == "" {
		c.logger.Debug("pexels returned no photos", "query", query)
		return Placeholder, nil
	}
	return photoURL, nil
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/search?query=%s&per_page=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &genai.StatusError{
			Provider: "pexels",
			Code:     resp.StatusCode,
			Status:   resp.Status,
			Body:     strings.TrimSpace(string(body)),
		}
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode pexels response: %w", err)
	}
	if len(out.Photos) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Photos[0].Src.Medium), nil
}
