package common

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy retries an operation with exponential backoff. The delay
// starts at InitialDelay, doubles after each failed attempt, and is
// capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// NewRetryPolicy builds a policy from configuration, falling back to
// defaults for non-positive values.
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	policy := RetryPolicy{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: cfg.InitialDelay,
		MaxDelay:     cfg.MaxDelay,
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 3
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = 2 * time.Second
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 60 * time.Second
	}
	return policy
}

// Do runs fn up to MaxAttempts times, sleeping between attempts.
// Returns nil on the first success. Context cancellation interrupts
// both the operation and the backoff sleep.
func (p RetryPolicy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	log := GetLogger()

	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		log.Warn().
			Err(lastErr).
			Str("operation", operation).
			Int("attempt", attempt).
			Int("max_attempts", p.MaxAttempts).
			Dur("delay", delay).
			Msg("Operation failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, p.MaxAttempts, lastErr)
}
