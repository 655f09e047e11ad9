package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestRetryPolicyDo(t *testing.T) {
	t.Run("succeeds first attempt", func(t *testing.T) {
		calls := 0
		err := fastPolicy(3).Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := fastPolicy(3).Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts and wraps last error", func(t *testing.T) {
		sentinel := errors.New("persistent failure")
		calls := 0
		err := fastPolicy(3).Do(context.Background(), "generate outline", func(ctx context.Context) error {
			calls++
			return sentinel
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.ErrorIs(t, err, sentinel)
		assert.Contains(t, err.Error(), "generate outline failed after 3 attempts")
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := RetryPolicy{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour}.Do(ctx, "op", func(ctx context.Context) error {
			calls++
			cancel()
			return errors.New("fail")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestNewRetryPolicy(t *testing.T) {
	t.Run("from config", func(t *testing.T) {
		policy := NewRetryPolicy(RetryConfig{
			MaxAttempts:  5,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
		})
		assert.Equal(t, 5, policy.MaxAttempts)
		assert.Equal(t, time.Second, policy.InitialDelay)
		assert.Equal(t, 10*time.Second, policy.MaxDelay)
	})

	t.Run("zero values get defaults", func(t *testing.T) {
		policy := NewRetryPolicy(RetryConfig{})
		assert.Equal(t, 3, policy.MaxAttempts)
		assert.Equal(t, 2*time.Second, policy.InitialDelay)
		assert.Equal(t, 60*time.Second, policy.MaxDelay)
	})
}
