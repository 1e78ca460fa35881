package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitByBytes(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitByBytes("short", 4096))

	parts := splitByBytes(strings.Repeat("ab", 5), 4)
	assert.Equal(t, []string{"abab", "abab", "ab"}, parts)

	// Multi-byte runes are never cut in half.
	parts = splitByBytes("ééé", 3)
	assert.Equal(t, []string{"é", "é", "é"}, parts)
}

func TestTruncateByBytes(t *testing.T) {
	assert.Equal(t, "abc", truncateByBytes("abc", 10))
	assert.Equal(t, "é", truncateByBytes("éé", 3))
	assert.Equal(t, "ab", truncateByBytes("abcd", 2))
}

func TestDetectMime(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")

	tests := []struct {
		name     string
		header   string
		data     []byte
		fallback string
		want     string
	}{
		{"header wins", "image/webp; charset=binary", png, "image/jpeg", "image/webp"},
		{"sniffed", "application/octet-stream", png, "image/jpeg", "image/png"},
		{"fallback", "", []byte("OggS"), "audio/ogg", "audio/ogg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectMime(tt.header, tt.data, tt.fallback))
		})
	}
}
