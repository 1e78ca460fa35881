package genai

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured   = errors.New("generator is not configured")
	ErrEmptyResponse   = errors.New("response has no candidate text")
	ErrMalformedOutput = errors.New("malformed model output")
	ErrInvalidDataURI  = errors.New("invalid data uri")
)

// ConfigError reports a missing credential. It matches ErrNotConfigured.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return e.Key + " is not configured"
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrNotConfigured
}

// StatusError is a non-2xx answer from an upstream API.
type StatusError struct {
	Provider string
	Code     int
	Status   string
	Body     string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.Code)
	}
	if e.Body == "" {
		return fmt.Sprintf("%s API %s", e.Provider, status)
	}
	return fmt.Sprintf("%s API %s: %s", e.Provider, status, e.Body)
}
