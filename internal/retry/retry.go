package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Config controls WithRetry. The zero value runs the operation once with no
// per-attempt timeout.
type Config struct {
	// MaxRetries is the number of extra attempts after the first; zero means
	// the operation runs exactly once.
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// Timeout bounds each attempt; zero leaves only the parent context.
	Timeout time.Duration
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// WithRetry runs operation until it succeeds, returns a Permanent error, the
// context ends, or MaxRetries extra attempts are spent. With MaxRetries zero
// the operation's own error is returned unwrapped.
func WithRetry[T any](ctx context.Context, name string, config Config, operation func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := runAttempt(ctx, config.Timeout, operation)
		if err == nil {
			return result, nil
		}

		log.Debug().
			Err(err).
			Str("operation", name).
			Int("attempt", attempt+1).
			Msg("Operation failed")

		if IsPermanent(err) {
			return zero, err
		}

		if attempt < config.MaxRetries {
			delay := backoff(attempt, config)
			log.Debug().
				Str("operation", name).
				Dur("delay", delay).
				Int("next_attempt", attempt+2).
				Msg("Retrying after delay")

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
		if config.MaxRetries == 0 {
			return zero, err
		}
		return zero, fmt.Errorf("%s failed after %d attempts: %w", name, config.MaxRetries+1, err)
	}
	return zero, fmt.Errorf("unexpected: exceeded retry loop")
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, operation func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return operation(ctx)
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return operation(opCtx)
}

// backoff doubles BaseDelay per attempt, caps it at MaxDelay and applies
// 0.5x to 1.5x jitter, still capped.
func backoff(attempt int, c Config) time.Duration {
	delay := c.BaseDelay
	for i := 0; i < attempt && delay < c.MaxDelay; i++ {
		delay *= 2
	}
	delay = min(delay, c.MaxDelay)
	if delay <= 0 {
		return 0
	}
	return min(time.Duration(float64(delay)*(0.5+rand.Float64())), c.MaxDelay)
}
