package genai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outfit struct {
	Top   string   `json:"top"`
	Tags  []string `json:"tags"`
	Score float64  `json:"score"`
}

func (o *outfit) Validate() error {
	if o.Score < 0 || o.Score > 1 {
		return errors.New("score out of range")
	}
	return nil
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "  \n```json {\"a\":1} ```\n ", want: `{"a":1}`},
		{name: "no fence", in: ` {"a":1} `, want: `{"a":1}`},
		{name: "inner backticks kept", in: "```json\n{\"a\":\"`x`\"}\n```", want: "{\"a\":\"`x`\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestDecodeStructured(t *testing.T) {
	got, err := DecodeStructured[outfit]("```json\n{\"top\":\"hoodie\",\"tags\":[\"casual\"],\"score\":0.9}\n```", "top", "tags")
	require.NoError(t, err)
	assert.Equal(t, outfit{Top: "hoodie", Tags: []string{"casual"}, Score: 0.9}, got)
}

func TestDecodeStructuredFailures(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "not json", in: "Here are some outfits for you"},
		{name: "empty", in: "```json\n```"},
		{name: "missing field", in: `{"top":"hoodie"}`},
		{name: "null field", in: `{"top":"hoodie","tags":null}`},
		{name: "wrong type", in: `{"top":"hoodie","tags":"casual"}`},
		{name: "validator rejects", in: `{"top":"hoodie","tags":[],"score":3}`},
		{name: "array root", in: `[{"top":"hoodie"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeStructured[outfit](tt.in, "top", "tags")
			require.ErrorIs(t, err, ErrMalformedOutput)
			assert.Zero(t, got)
		})
	}
}

func TestParseDataURI(t *testing.T) {
	blob, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, Blob{MimeType: "image/png", Data: "aGVsbG8="}, blob)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", blob.DataURI())

	for _, in := range []string{
		"",
		"aGVsbG8=",
		"data:image/png,aGVsbG8=",
		"data:;base64,aGVsbG8=",
		"data:image/png;base64,",
		"data:image/png;base64,not base64!",
		"data:png;base64,aGVsbG8=",
	} {
		_, err := ParseDataURI(in)
		assert.ErrorIs(t, err, ErrInvalidDataURI, in)
	}
}

func TestConfigErrorMatchesSentinel(t *testing.T) {
	err := error(&ConfigError{Key: "GEMINI_API_KEY"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "GEMINI_API_KEY is not configured", err.Error())
}
