package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	bferrors "github.com/matzehuels/bestof/pkg/errors"
)

func TestRetry(t *testing.T) {
	errTransient := &RetryableError{Err: errors.New("503")}
	errPermanent := errors.New("404")

	tests := []struct {
		name      string
		failures  []error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"success first try", nil, 3, 1, false},
		{"success after transient", []error{errTransient, errTransient}, 3, 3, false},
		{"exhausted", []error{errTransient, errTransient, errTransient}, 3, 3, true},
		{"permanent stops immediately", []error{errPermanent}, 3, 1, true},
		{"zero attempts runs once", []error{errTransient}, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errors.New("timeout")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryRateLimited(t *testing.T) {
	rl := &bferrors.RateLimitedError{Service: "pypistats"}

	t.Run("recovers", func(t *testing.T) {
		calls := 0
		err := RetryRateLimited(context.Background(), 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return rl
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := RetryRateLimited(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return rl
		})
		if !bferrors.Is(err, bferrors.ErrCodeRateLimited) {
			t.Errorf("err = %v, want rate limited", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("long retry-after gives up at once", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()

		calls := 0
		start := time.Now()
		err := RetryRateLimited(ctx, 3, 10*time.Millisecond, func() error {
			calls++
			return &bferrors.RateLimitedError{Service: "pypistats", RetryAfter: 3600}
		})
		if !bferrors.Is(err, bferrors.ErrCodeRateLimited) {
			t.Errorf("err = %v, want rate limited", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("waited %v for a capped Retry-After", elapsed)
		}
	})

	t.Run("short retry-after is honored", func(t *testing.T) {
		calls := 0
		start := time.Now()
		err := RetryRateLimited(context.Background(), 2, time.Millisecond, func() error {
			calls++
			if calls == 1 {
				return &bferrors.RateLimitedError{Service: "pypistats", RetryAfter: 1}
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
		if elapsed := time.Since(start); elapsed < time.Second {
			t.Errorf("retried after %v, want the 1s Retry-After", elapsed)
		}
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		err := RetryRateLimited(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return &RetryableError{Err: errors.New("503")}
		})
		if err == nil || calls != 1 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})
}
