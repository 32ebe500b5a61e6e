package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/instantmarqo"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays between attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry calls fn until it succeeds, waiting delays[i] before retry i+1, so
// fn runs at most len(delays)+1 times. Errors that retrying cannot fix
// (EINVALID, EUNAUTHORIZED, ENOTFOUND) are returned immediately. The logger,
// if provided, is called before each retry.
func Retry[T any](ctx context.Context, what string, delays []time.Duration, logger LogFunc, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", what, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}

func retryable(err error) bool {
	switch instantmarqo.ErrorCode(err) {
	case instantmarqo.EINVALID, instantmarqo.EUNAUTHORIZED, instantmarqo.ENOTFOUND:
		return false
	}
	return true
}
