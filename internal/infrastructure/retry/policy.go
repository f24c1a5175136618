// Package retry holds the single backoff policy shared by the schedule manager
// and webhook delivery. Retry bookkeeping (attempt counters, next-attempt
// timestamps) lives on the persisted rows; this package only computes delays.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Errors for policy configuration
var (
	ErrInvalidBaseDelay   = errors.New("retry: base delay must be positive")
	ErrInvalidMaxDelay    = errors.New("retry: max delay must be >= base delay")
	ErrInvalidJitter      = errors.New("retry: jitter must be between 0 and 1")
	ErrInvalidMaxAttempts = errors.New("retry: max attempts must be positive")
)

// Policy is an exponential backoff with jitter: delay(n) = base * 2^(n-1),
// capped at MaxDelay, randomized by +/- Jitter.
type Policy struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      float64
	MaxAttempts int
}

// DefaultPolicy returns base 1s, cap 5m, jitter 20%, 8 attempts
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   time.Second,
		MaxDelay:    5 * time.Minute,
		Jitter:      0.2,
		MaxAttempts: 8,
	}
}

// Validate checks the policy parameters
func (p Policy) Validate() error {
	if p.BaseDelay <= 0 {
		return ErrInvalidBaseDelay
	}
	if p.MaxDelay < p.BaseDelay {
		return ErrInvalidMaxDelay
	}
	if p.Jitter < 0 || p.Jitter >= 1 {
		return ErrInvalidJitter
	}
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	return nil
}

// WithMaxAttempts returns a copy using a different attempt budget
func (p Policy) WithMaxAttempts(n int) Policy {
	p.MaxAttempts = n
	return p
}

func (p Policy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.RandomizationFactor = p.Jitter
	b.Multiplier = 2
	b.MaxInterval = p.MaxDelay
	b.Reset()
	return b
}

// Delay returns the wait before retry number attempt (1-based)
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	b := p.newBackOff()
	var d time.Duration
	for i := 0; i < attempt; i++ {
		d = b.NextBackOff()
	}
	if limit := p.ceiling(); d > limit {
		d = limit
	}
	return d
}

// ceiling is the largest delay jitter may produce
func (p Policy) ceiling() time.Duration {
	return time.Duration(float64(p.MaxDelay) * (1 + p.Jitter))
}

// Bounds returns the minimum and maximum delay for retry number attempt
func (p Policy) Bounds(attempt int) (time.Duration, time.Duration) {
	if attempt < 1 {
		attempt = 1
	}
	center := float64(p.BaseDelay)
	for i := 1; i < attempt && center < float64(p.MaxDelay); i++ {
		center *= 2
	}
	if center > float64(p.MaxDelay) {
		center = float64(p.MaxDelay)
	}
	return time.Duration(math.Round(center * (1 - p.Jitter))), time.Duration(math.Round(center * (1 + p.Jitter)))
}

// Exhausted reports whether attempts have used up the budget
func (p Policy) Exhausted(attempts int) bool {
	return attempts >= p.MaxAttempts
}

// Do runs op until it succeeds, returns a non-retryable error, the budget is
// spent or ctx ends. It is used for in-process retries only; persisted
// retries call Delay directly.
func Do[T any](ctx context.Context, p Policy, retryable func(error) bool, op func(context.Context) (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op(ctx)
		if err != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(p.newBackOff()),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
	)
}

func (p Policy) String() string {
	return fmt.Sprintf("base=%s max=%s jitter=%.2f attempts=%d", p.BaseDelay, p.MaxDelay, p.Jitter, p.MaxAttempts)
}
