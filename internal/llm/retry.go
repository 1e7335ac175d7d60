package llm

import (
	"context"
	"errors"
	"time"
)

// Retry retries Generate up to maxAttempts with exponential backoff
// starting at baseDelay. Permanent errors are surfaced immediately and
// a canceled context stops the loop.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next Client) Client {
		return &retrying{next: next, max: maxAttempts, base: baseDelay, sleep: time.Sleep}
	}
}

type retrying struct {
	next  Client
	max   int
	base  time.Duration
	sleep func(time.Duration) // swapped for a recorder in tests
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) Generate(ctx context.Context, prompt string) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		out, err := r.next.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		// If it's a permanent error, do not retry.
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return "", err
		}
		last = err
		// Stop immediately if the context is canceled.
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		if i < r.max-1 {
			r.sleep(r.base * time.Duration(1<<i))
		}
	}
	return "", last
}
