package llm

import (
	"context"
	"fmt"
	"time"
)

// RetryingGenerator wraps a ContentGenerator with bounded retry and
// doubling backoff. Exhausting the retry budget surfaces a single terminal
// error wrapping ErrRetryExhausted; partial output is never returned.
type RetryingGenerator struct {
	gen        ContentGenerator
	maxRetries int
	backoff    time.Duration
}

// NewRetryingGenerator wraps gen with up to maxRetries additional attempts
// after the first, waiting backoff before the first retry and doubling the
// wait for each one after.
func NewRetryingGenerator(gen ContentGenerator, maxRetries int, backoff time.Duration) *RetryingGenerator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryingGenerator{gen: gen, maxRetries: maxRetries, backoff: backoff}
}

func (r *RetryingGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var lastErr error
	delay := r.backoff

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("generation cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		resp, err := r.gen.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("generation cancelled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, r.maxRetries+1, lastErr)
}

// Available reports whether the wrapped generator is reachable.
func (r *RetryingGenerator) Available(ctx context.Context) bool {
	return r.gen.Available(ctx)
}
