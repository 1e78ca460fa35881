// Package speech turns short voice recordings into text through a
// genai.Generator. A Transcriber is constructed explicitly and hands out
// sessions; each session holds one of a bounded number of recognizer slots
// until it is released.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"stylemart/internal/genai"
)

var (
	ErrReleased = errors.New("speech session already released")
	ErrNoSpeech = errors.New("no speech recognized")
	ErrNotAudio = errors.New("blob is not audio")
)

const transcribePrompt = "Transcribe the speech in this audio recording. Language: %s. " +
	"Return only the transcript text with no commentary. " +
	"If there is no intelligible speech, return an empty response."

type Options struct {
	Generator     genai.Generator
	MaxConcurrent int
	Language      string
	Logger        *slog.Logger
}

type Transcriber struct {
	gen      genai.Generator
	sem      *semaphore.Weighted
	language string
	logger   *slog.Logger
}

func New(opts Options) (*Transcriber, error) {
	if opts.Generator == nil {
		return nil, errors.New("speech: generator is nil")
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = "en-US"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Transcriber{
		gen:      opts.Generator,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		language: language,
		logger:   logger,
	}, nil
}

// Acquire blocks until a recognizer slot is free or ctx is done.
func (t *Transcriber) Acquire(ctx context.Context) (*Session, error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire recognizer: %w", err)
	}
	return &Session{t: t}, nil
}

type Session struct {
	t    *Transcriber
	once sync.Once
	mu   sync.Mutex
	done bool
}

// Transcribe sends one recording to the model. The session stays usable
// until Release.
func (s *Session) Transcribe(ctx context.Context, audio genai.Blob) (string, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done {
		return "", ErrReleased
	}

	if !strings.HasPrefix(audio.MimeType, "audio/") {
		return "", fmt.Errorf("%w: %s", ErrNotAudio, audio.MimeType)
	}

	text, err := s.t.gen.Generate(ctx, genai.Request{
		Prompt: fmt.Sprintf(transcribePrompt, s.t.language),
		Blobs:  []genai.Blob{audio},
	})
	if err != nil {
		if errors.Is(err, genai.ErrEmptyResponse) {
			return "", ErrNoSpeech
		}
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoSpeech
	}
	s.t.logger.Debug("voice transcribed", "language", s.t.language, "chars", len(text))
	return text, nil
}

// Release returns the slot. Calling it more than once is a no-op.
func (s *Session) Release() {
	s.once.Do(func() {
		s.mu.Lock()
		s.done = true
		s.mu.Unlock()
		s.t.sem.Release(1)
	})
}
