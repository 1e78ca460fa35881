package genai

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

var dataURIHeader = regexp.MustCompile(`^data:([A-Za-z0-9][A-Za-z0-9!#$&^_.+-]*/[A-Za-z0-9][A-Za-z0-9!#$&^_.+-]*);base64,`)

// ParseDataURI accepts only data:<mime>;base64,<data> with a non-empty,
// standard-alphabet base64 payload.
func ParseDataURI(value string) (Blob, error) {
	value = strings.TrimSpace(value)

	loc := dataURIHeader.FindStringSubmatchIndex(value)
	if loc == nil {
		return Blob{}, fmt.Errorf("%w: expected data:<mime>;base64,<data>", ErrInvalidDataURI)
	}

	mimeType := strings.ToLower(value[loc[2]:loc[3]])
	data := value[loc[1]:]
	if data == "" {
		return Blob{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return Blob{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	return Blob{MimeType: mimeType, Data: data}, nil
}

// DataURI formats b back into data URI form.
func (b Blob) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", b.MimeType, b.Data)
}
