package llm

import (
	"context"
	"time"
)

// Retry retries GenerateText up to maxAttempts with exponential backoff
// starting at baseDelay. Only transient quota and rate-limit failures
// are retried; permanent errors and cancellation surface immediately.
// Usage reported by failed attempts is accumulated into the returned
// total, so billing is never silently lost.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next Client) Client {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next Client
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) GenerateText(ctx context.Context, system, user string, maxTokens int) (string, Usage, error) {
	var total Usage
	var last error
	for i := 0; i < r.max; i++ {
		text, usage, err := r.next.GenerateText(ctx, system, user, maxTokens)
		total.Add(usage)
		if err == nil {
			return text, total, nil
		}
		if !IsTransient(err) {
			return "", total, err
		}
		last = err
		// Stop immediately if the context is canceled; sleeping only
		// parks this goroutine, unrelated requests keep running.
		select {
		case <-ctx.Done():
			return "", total, ctx.Err()
		case <-time.After(r.base * time.Duration(1<<i)):
		}
	}
	return "", total, last
}
