// Package retry provides bounded fixed-interval retry with error marking.
package retry

import (
	"context"
	"errors"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts int           // Maximum number of attempts (minimum 1)
	Interval    time.Duration // Wait between attempts
}

// DefaultConfig returns the shipped default: a single attempt. Every REST
// failure is terminal for the triggering action; callers that want retries
// opt in through configuration.
func DefaultConfig() Config {
	return Config{MaxAttempts: 1, Interval: 3 * time.Second}
}

// RetryableError wraps an error that may be retried.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string { return e.Err.Error() }

func (e RetryableError) Unwrap() error { return e.Err }

// Retryable marks an error as retryable.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return RetryableError{Err: err}
}

// IsRetryable reports whether the error was marked retryable.
func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re)
}

// Do executes fn up to cfg.MaxAttempts times, waiting cfg.Interval between
// attempts. Errors not marked retryable stop the loop immediately.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == cfg.MaxAttempts {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.Interval):
		}
	}
	return lastErr
}

// DoWithResult is Do for functions that return a value.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		r, err := fn()
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}
