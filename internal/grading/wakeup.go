package grading

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// Pinger is anything that can probe the backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackoffConfig controls how WakeUp spaces its attempts.
type BackoffConfig struct {
	MaxAttempts int // 0 means until ctx is done
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultBackoff pings quickly at first and settles at ten seconds.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// WakeUp pings p until it answers, attempts run out, or ctx is done.
// It returns the number of attempts made and the last error.
func WakeUp(ctx context.Context, p Pinger, cfg BackoffConfig, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 0; cfg.MaxAttempts == 0 || attempt < cfg.MaxAttempts; attempt++ {
		lastErr = p.Ping(ctx)
		if lastErr == nil {
			logger.Debug("backend awake", "attempts", attempt+1)
			return attempt + 1, nil
		}
		if ctx.Err() != nil {
			return attempt + 1, ctx.Err()
		}
		logger.Debug("backend not reachable yet", "attempt", attempt+1, "err", lastErr)

		// Last attempt: don't sleep, just return the error.
		if cfg.MaxAttempts > 0 && attempt == cfg.MaxAttempts-1 {
			return attempt + 1, lastErr
		}

		select {
		case <-ctx.Done():
			return attempt + 1, ctx.Err()
		case <-time.After(cfg.backoff(attempt)):
		}
	}
	return cfg.MaxAttempts, lastErr
}

// backoff computes the wait duration for the given attempt.
func (cfg BackoffConfig) backoff(attempt int) time.Duration {
	mult := cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := float64(cfg.InitialWait) * math.Pow(mult, float64(attempt))
	if cfg.MaxWait > 0 && wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
