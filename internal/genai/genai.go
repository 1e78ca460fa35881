// Package genai holds the provider-neutral pieces of text generation: the
// Generator contract, request types, and helpers that turn raw model text
// into validated structured values.
package genai

import "context"

// Blob is inline binary content sent alongside a prompt. Data is base64.
type Blob struct {
	MimeType string
	Data     string
}

type Request struct {
	Prompt string
	Blobs  []Blob

	// JSON asks the backend for a JSON-only response when it supports that.
	JSON bool
	// Schema is a zero value of the expected output type. Backends that accept
	// a response schema reflect it; others ignore it.
	Schema     any
	SchemaName string

	Temperature float64
}

// Generator performs exactly one generation call and returns the text of
// the first candidate.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
