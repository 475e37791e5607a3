package utils

import (
	"context"
	"log/slog"
	"time"
)

// RetryConfig controls RetryWithBackoff.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryWithBackoff runs fn until it succeeds, the retry budget is spent,
// or the context is cancelled. Delay grows by BackoffFactor up to MaxDelay.
func RetryWithBackoff(ctx context.Context, fn func() error, cfg RetryConfig) error {
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			LogInfo(ctx, "⏳ retrying after backoff",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", cfg.MaxRetries+1),
				slog.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}

	return lastErr
}
