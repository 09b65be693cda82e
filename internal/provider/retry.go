package provider

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// maxRetries is the maximum number of retries for API errors.
	maxRetries = 3
	// retryInitialInterval is the initial interval for exponential backoff.
	retryInitialInterval = time.Second
	// retryMaxInterval is the maximum interval for exponential backoff.
	retryMaxInterval = 30 * time.Second
	// retryMaxElapsedTime is the maximum total time for retries.
	retryMaxElapsedTime = 2 * time.Minute
)

// newRetryBackoff creates an exponential backoff with jitter for API
// retries. Context cancellation stops the retry sequence.
func newRetryBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = retryMaxElapsedTime
	b.RandomizationFactor = 0.5
	b.Multiplier = 2.0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)
}

// withRetry runs op with exponential backoff, returning the last error when
// retries are exhausted.
func withRetry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	return backoff.RetryWithData(op, newRetryBackoff(ctx))
}
