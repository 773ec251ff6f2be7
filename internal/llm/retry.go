package llm

import (
	"context"
	"time"
)

// RetryPolicy bounds the retry loop around a completion call.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy retries twice after the first failure, backing off
// 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second, Multiplier: 2}
}

// WithRetry runs fn up to MaxAttempts times, sleeping between attempts with
// multiplicative backoff. Only transient failures are retried; the last
// error is returned once the budget is exhausted. The sleep honors context
// cancellation.
func WithRetry(ctx context.Context, policy RetryPolicy, fn func(context.Context) (string, error)) (string, error) {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	delay := policy.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsTransient(err) || attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
		if policy.Multiplier > 1 {
			delay = time.Duration(float64(delay) * policy.Multiplier)
		}
	}
	return "", lastErr
}
