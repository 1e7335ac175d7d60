package llm

import (
	"context"
	"os"
	"strconv"

	"readmegen/internal/logger"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (rate limiting, retries, logging, etc.).
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// RateLimit limits request rate using the token-bucket limiter.
// If rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }

// Close stops the refill goroutine before closing the wrapped client.
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return c.next.Generate(ctx, prompt)
}

// RateLimitFromEnv reads RPS/BURST from environment variables with the
// given prefixes in priority order. For example, ("LLM","GEMINI")
// checks LLM_RPS/LLM_BURST first, then GEMINI_RPS/GEMINI_BURST.
func RateLimitFromEnv(prefixes ...string) Middleware {
	readFloat := func(key string) float64 {
		if key == "" {
			return 0
		}
		v := os.Getenv(key)
		if v == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	readInt := func(key string) int {
		if key == "" {
			return 0
		}
		v := os.Getenv(key)
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}
	find := func(suffix string) string {
		for _, p := range prefixes {
			if p == "" {
				continue
			}
			k := p + suffix
			if os.Getenv(k) != "" {
				return k
			}
		}
		return ""
	}
	return func(next Client) Client {
		rps := readFloat(find("_RPS"))
		burst := readInt(find("_BURST"))
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

// WithLogging logs request size and failures through the shared logger.
func WithLogging(log logger.Logger) Middleware {
	return func(next Client) Client {
		return &logging{next: next, log: log}
	}
}

type logging struct {
	next Client
	log  logger.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) Generate(ctx context.Context, prompt string) (string, error) {
	l.log.Debug("llm request (%s): %d chars", l.next.Name(), len(prompt))
	out, err := l.next.Generate(ctx, prompt)
	if err != nil {
		l.log.Warn("llm error (%s): %v", l.next.Name(), err)
	}
	return out, err
}
