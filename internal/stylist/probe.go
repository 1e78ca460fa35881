package stylist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stylemart/internal/genai"
)

const probePrompt = `Hello, this is a test. Please respond with "API key is working correctly".`

type ProbeResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Response string `json:"response"`
}

// ProbeError means the generator was reachable in principle but the test
// call failed.
type ProbeError struct {
	Err error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("Gemini API error: %v", e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Probe makes one trivial generation call to check credentials and
// connectivity. Unlike the other operations it reports upstream failure.
func (s *Service) Probe(ctx context.Context) (ProbeResult, error) {
	text, err := s.gen.Generate(ctx, genai.Request{Prompt: probePrompt})
	switch {
	case err == nil:
	case errors.Is(err, genai.ErrNotConfigured):
		return ProbeResult{}, err
	case errors.Is(err, genai.ErrEmptyResponse):
		text = ""
	default:
		return ProbeResult{}, &ProbeError{Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = "No response text"
	}
	return ProbeResult{
		Success:  true,
		Message:  "Gemini API key is working correctly",
		Response: text,
	}, nil
}
