package pipeline

import (
	"context"
	"errors"
	"time"

	retry "github.com/sethvargo/go-retry"
)

const retryBase = 200 * time.Millisecond

// attempt runs fn once, or up to retries+1 times with Fibonacci backoff.
// Each attempt gets its own timeout when timeout > 0.
func attempt(ctx context.Context, retries int, timeout time.Duration, fn func(ctx context.Context) error) error {
	call := func(ctx context.Context) error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return fn(ctx)
	}
	if retries <= 0 {
		return call(ctx)
	}
	b := retry.WithMaxRetries(uint64(retries), retry.NewFibonacci(retryBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := call(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return err
		}
		return retry.RetryableError(err)
	})
}
