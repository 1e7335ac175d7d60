package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when a provider answers without usable text.
var ErrEmptyCompletion = errors.New("empty completion from LLM")

// Client is the surface the generation pipeline needs from a provider.
// Cross-cutting concerns (rate limiting, retries, logging) are applied
// via Middleware.
type Client interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
