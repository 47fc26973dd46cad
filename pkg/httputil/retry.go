package httputil

import (
	"context"
	"errors"
	"time"

	bferrors "github.com/matzehuels/bestof/pkg/errors"
)

// RetryableError marks a transient failure that [Retry] should attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, doubling delay after each failure.
// Only errors wrapped in [RetryableError] are retried.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		}
	}
	return lastErr
}

// RetryWithBackoff is [Retry] with 3 attempts starting at one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// MaxRateLimitWait bounds the Retry-After a rate-limited call waits for.
const MaxRateLimitWait = 30 * time.Second

// RetryRateLimited executes fn up to attempts times while it reports a rate
// limit. The n-th retry sleeps n*step, or the server's Retry-After if larger.
// A Retry-After above [MaxRateLimitWait] ends the retries at once. After the
// last attempt the rate-limit error is returned.
func RetryRateLimited(ctx context.Context, attempts int, step time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var rl *bferrors.RateLimitedError
		if !errors.As(err, &rl) {
			return err
		}
		lastErr = err

		if i < attempts-1 {
			ra := time.Duration(rl.RetryAfter) * time.Second
			if ra > MaxRateLimitWait {
				return err
			}
			wait := max(time.Duration(i+1)*step, ra)
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
