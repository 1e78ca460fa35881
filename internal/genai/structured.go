package genai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_-]*\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

// Validator is implemented by structured outputs that need checks beyond
// field presence.
type Validator interface {
	Validate() error
}

// StripFences removes a leading ``` or ```json marker and a trailing ```
// from model output.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = openingFence.ReplaceAllString(text, "")
	text = closingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// DecodeStructured strips fences from text, requires each named top-level
// field to be present and non-null, and decodes the object into T. When *T
// implements Validator it must also pass.
func DecodeStructured[T any](text string, required ...string) (T, error) {
	var out T

	raw := []byte(StripFences(text))
	if len(raw) == 0 {
		return out, fmt.Errorf("%w: empty text", ErrMalformedOutput)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	for _, name := range required {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return out, fmt.Errorf("%w: missing field %q", ErrMalformedOutput, name)
		}
	}

	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if v, ok := any(&decoded).(Validator); ok {
		if err := v.Validate(); err != nil {
			return out, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
	}
	return decoded, nil
}
