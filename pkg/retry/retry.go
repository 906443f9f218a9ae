package retry

import (
	"context"
	"time"
)

// Policy describes how a provider call is retried. Every external call site
// shares the same semantics: up to MaxAttempts tries, Backoff between them,
// and an optional validity predicate that treats a well-formed but unusable
// response as a failure.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// DefaultBackoff waits attempt*2 seconds before the next try (2s, 4s, ...).
func DefaultBackoff(attempt int) time.Duration {
	return time.Duration(attempt*2) * time.Second
}

// NewPolicy returns a Policy with the default backoff schedule.
func NewPolicy(maxAttempts int) Policy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return Policy{
		MaxAttempts: maxAttempts,
		Backoff:     DefaultBackoff,
	}
}

// Do runs fn until it returns a valid result or attempts are exhausted.
// A nil valid predicate accepts any non-error result. The last error (or a
// validity failure wrapped by the caller's fn) is returned when all attempts
// fail. Backoff sleeps respect context cancellation.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error), valid func(T) bool) (T, error) {
	var (
		zero    T
		lastErr error
	)

	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := p.Backoff
	if backoff == nil {
		backoff = DefaultBackoff
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil && (valid == nil || valid(result)) {
			return result, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = ErrInvalidResult
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}

	return zero, lastErr
}
