// Package retry calls functions again until backends get ready.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRetry tells Blocking to call the function again.
var ErrRetry = errors.New("retry")

// ErrGaveUp is returned when Attempts are exhausted.
var ErrGaveUp = errors.New("gave up retrying")

// Backoff waits until the next try.
//
// It returns nil to try again, or non-nil (ctx.Err() or ErrGaveUp) to stop.
type Backoff func(context.Context) error

// StaticBackoff waits for interval on each call.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff waits for `initialInterval * r^N` on the N-th call.
func ExponentialBackoff(initialInterval time.Duration, r float64) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(float64(interval) * r)
			return nil
		}
	}
}

// Attempts limits b to n waits.
func Attempts(n int, b Backoff) Backoff {
	count := 0
	return func(ctx context.Context) error {
		if n <= count {
			return ErrGaveUp
		}
		count += 1
		return b(ctx)
	}
}

// Blocking calls f until it returns nil or an error other than ErrRetry.
//
// f is called once before the first backoff.
//
// Returns:
//
// - T: last return value of f
//
// - error: error returned by f, or by b when b stops. The last error of f is wrapped.
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	for {
		last, err := f()
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, ErrRetry) {
			return last, err
		}
		if berr := b(ctx); berr != nil {
			return last, fmt.Errorf("%w (last error: %w)", berr, err)
		}
	}
}

// UntilPing waits until ping succeeds. Any error of ping is retried.
func UntilPing(ctx context.Context, b Backoff, ping func(context.Context) error) error {
	_, err := Blocking(ctx, b, func() (struct{}, error) {
		if err := ping(ctx); err != nil {
			return struct{}{}, fmt.Errorf("%w: %w", ErrRetry, err)
		}
		return struct{}{}, nil
	})
	return err
}
