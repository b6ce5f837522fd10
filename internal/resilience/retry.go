// Package resilience retries operations that talk to remotes, such as
// fetching the destination branch before a PR body is generated.
package resilience

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Policy defines how often and how patiently an operation is retried.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// Jitter scales each delay by a random factor in [0.5, 1.5).
	Jitter bool
}

// NetworkPolicy is used for git and gh calls that reach a remote.
var NetworkPolicy = Policy{
	MaxRetries: 2,
	BaseDelay:  500 * time.Millisecond,
	MaxDelay:   5 * time.Second,
	Jitter:     true,
}

// permanentError marks an error that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Retry returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry calls fn until it succeeds, returns a permanent error, ctx
// ends, or the policy is exhausted. The last error is returned
// with any permanent wrapper removed.
func Retry(ctx context.Context, p Policy, fn func(context.Context) error) error {
	var lastErr error
	attempts := max(p.MaxRetries, 0) + 1

	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		// A context error from a per-attempt timeout is retried; only the
		// caller's context ending stops the loop.
		if ctx.Err() != nil {
			return err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(Backoff(attempt, p)):
			}
		}
	}
	return lastErr
}

// Backoff returns the delay before retry number attempt (zero based):
// BaseDelay * 2^attempt, capped at MaxDelay.
func Backoff(attempt int, p Policy) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	delay := p.BaseDelay
	for range attempt {
		delay *= 2
		if delay >= maxDelay {
			delay = maxDelay
			break
		}
	}

	if p.Jitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}
	return min(delay, maxDelay)
}
