package pipeline

import (
	"context"
	"log/slog"
	"time"
)

const maxRetryDelay = 30 * time.Second

// withRetry runs fn up to retries+1 times with exponential backoff. The
// delay doubles per attempt and is capped at maxRetryDelay. Context
// cancellation aborts the wait and returns immediately.
func withRetry[T any](ctx context.Context, retries int, label string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := retryDelay(attempt)
			slog.Warn("Retrying after failure", "label", label, "attempt", attempt, "delay", delay.String(), "error", lastErr)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return zero, lastErr
}

func retryDelay(attempt int) time.Duration {
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
