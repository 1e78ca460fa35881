// Package stylist implements the storefront's generative features. Every
// operation goes through the same pipeline: validate and bound the input,
// build a fixed prompt, make exactly one generator call, then either decode
// a complete structured value or substitute a static fallback of the same
// shape. Callers only ever see an input error, a configuration error, or a
// usable value.
package stylist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"stylemart/internal/catalog"
	"stylemart/internal/genai"
)

// MaxInputRunes bounds every free-text field sent to the model.
const MaxInputRunes = 1000

const defaultChatTimeout = 25 * time.Second

// InputError is a caller mistake. The message is safe to show to users.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// ImageResolver maps a descriptive hint to a photo URL.
type ImageResolver interface {
	Resolve(ctx context.Context, query string) (string, error)
}

type Options struct {
	Generator genai.Generator
	Catalog   *catalog.Catalog
	Images    ImageResolver
	Logger    *slog.Logger

	ChatTimeout time.Duration
	// ImageLookups caps concurrent image resolutions per recommendation.
	ImageLookups int
}

type Service struct {
	gen          genai.Generator
	catalog      *catalog.Catalog
	images       ImageResolver
	logger       *slog.Logger
	chatTimeout  time.Duration
	imageLookups int
}

func New(opts Options) (*Service, error) {
	if opts.Generator == nil {
		return nil, errors.New("stylist: generator is nil")
	}
	if opts.Catalog == nil {
		return nil, errors.New("stylist: catalog is nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	chatTimeout := opts.ChatTimeout
	if chatTimeout <= 0 {
		chatTimeout = defaultChatTimeout
	}

	imageLookups := opts.ImageLookups
	if imageLookups <= 0 {
		imageLookups = 4
	}

	return &Service{
		gen:          opts.Generator,
		catalog:      opts.Catalog,
		images:       opts.Images,
		logger:       logger,
		chatTimeout:  chatTimeout,
		imageLookups: imageLookups,
	}, nil
}

// structuredCall describes one prompt-in, JSON-out exchange.
type structuredCall[T any] struct {
	op       string
	prompt   string
	blobs    []genai.Blob
	required []string
	// fallback builds the substitute value. raw is the model text when the
	// call itself succeeded but the text was unusable, empty otherwise.
	fallback func(raw string) T
}

// generateStructured runs call and always yields a complete T unless the
// generator is not configured.
func generateStructured[T any](ctx context.Context, s *Service, call structuredCall[T]) (T, error) {
	var schema T
	text, err := s.gen.Generate(ctx, genai.Request{
		Prompt:     call.prompt,
		Blobs:      call.blobs,
		JSON:       true,
		Schema:     schema,
		SchemaName: call.op,
	})
	if err != nil {
		if errors.Is(err, genai.ErrNotConfigured) {
			return schema, err
		}
		s.logger.Warn("generation failed, using fallback", "op", call.op, "error", err)
		return call.fallback(""), nil
	}

	out, err := genai.DecodeStructured[T](text, call.required...)
	if err != nil {
		s.logger.Warn("unusable model output, using fallback", "op", call.op, "error", err)
		return call.fallback(text), nil
	}
	return out, nil
}

// cleanText trims value and cuts it to MaxInputRunes. It reports false when
// nothing is left after trimming.
func cleanText(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if utf8.RuneCountInString(value) <= MaxInputRunes {
		return value, true
	}

	n := 0
	for i := range value {
		if n == MaxInputRunes {
			return value[:i], true
		}
		n++
	}
	return value, true
}

func parseImage(field, value string) (genai.Blob, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return genai.Blob{}, &InputError{Field: field, Message: "Invalid photo data provided"}
	}

	b, err := genai.ParseDataURI(value)
	if err != nil || !strings.HasPrefix(b.MimeType, "image/") {
		return genai.Blob{}, &InputError{Field: field, Message: "Invalid photo format. Please provide a base64 encoded image."}
	}
	return b, nil
}

func emptyIfNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
