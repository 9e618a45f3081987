package pddlrun

import (
	"math"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig controls the retry loop around a fallible operation.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt, so the
	// operation runs at most MaxRetries+1 times.
	MaxRetries int
	// InitialDelay is the sleep before the first retry.
	InitialDelay time.Duration
	// BackoffFactor multiplies the delay after every failed attempt.
	BackoffFactor float64
	// Logger receives a warning per retry and an error on exhaustion.
	Logger zerolog.Logger

	// sleep is swapped out in tests; nil means time.Sleep.
	sleep func(time.Duration)
}

// Retry runs op up to cfg.MaxRetries+1 times with exponential backoff
// between attempts. The delay before retry i (0-indexed) is
// InitialDelay * BackoffFactor^i, without jitter. On exhaustion the last
// error is returned unchanged: the controller never wraps or
// reclassifies, that happens at the call boundary. All errors are
// retried identically; the controller does not distinguish transient
// from permanent failures.
func Retry[T any](cfg RetryConfig, op func() (T, error)) (T, error) {
	sleep := cfg.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var (
		result  T
		lastErr error
	)

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = op()
		if lastErr == nil {
			return result, nil
		}

		if attempt == cfg.MaxRetries {
			break
		}

		delay := backoffDelay(cfg.InitialDelay, cfg.BackoffFactor, attempt)
		cfg.Logger.Warn().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Err(lastErr).
			Msg("attempt failed, retrying after backoff")
		sleep(delay)
	}

	cfg.Logger.Error().
		Int("attempts", cfg.MaxRetries+1).
		Err(lastErr).
		Msg("all attempts failed")

	var zero T

	return zero, lastErr
}

func backoffDelay(initial time.Duration, factor float64, attempt int) time.Duration {
	return time.Duration(float64(initial) * math.Pow(factor, float64(attempt)))
}
