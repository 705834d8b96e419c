package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/docmodel/internal/indexstore"
)

const MaxRetries = 3

// backoffBase is the delay before the first retry.
var backoffBase = time.Second

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := backoffBase << uint(attempt)
	if base > 30*time.Second || base <= 0 {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base)/2 + 1))
	return base + jitter
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or
// runs out of attempts. onRetry is called before each wait.
func withRetry(ctx context.Context, fn func() error, onRetry func(attempt int, err error)) error {
	var err error
	for attempt := range MaxRetries {
		err = fn()
		if err == nil || !indexstore.IsRetryable(err) || attempt == MaxRetries-1 {
			return err
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
