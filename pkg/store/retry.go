package store

import (
	"context"
	"errors"
	"time"
)

// Connection retry defaults for networked backends.
const (
	connectAttempts = 3
	connectDelay    = 500 * time.Millisecond
)

// transientError marks a failure worth retrying, such as a refused
// connection while a database container is still starting.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// retry runs fn up to attempts times, doubling delay after each failure.
// Only errors wrapped with transient are retried; the last error is
// returned unwrapped.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var te *transientError
		if !errors.As(err, &te) {
			return err
		}
		lastErr = te.err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}

// ping checks a backend connection, retrying while it is unreachable.
func ping(ctx context.Context, fn func(context.Context) error) error {
	return retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(fn(ctx))
	})
}
