package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrBackend marks failures of a remote cache backend.
var ErrBackend = errors.New("cache backend error")

// RetryableError marks a backend failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryPolicy runs a backend call up to attempts times, doubling delay after
// each retryable failure.
type retryPolicy struct {
	attempts int
	delay    time.Duration
}

var backendRetry = retryPolicy{attempts: 3, delay: 200 * time.Millisecond}

func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	delay := p.delay
	var err error
	for i := range p.attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == p.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}

// transient marks network and timeout failures of either remote backend as
// retryable. Misses and other errors pass through unchanged.
func transient(err error) error {
	if err == nil || errors.Is(err, redis.Nil) || errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Retryable(fmt.Errorf("%w: %v", ErrBackend, err))
	}
	return err
}
