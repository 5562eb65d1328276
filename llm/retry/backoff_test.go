package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fastPolicy(maxRetries int) *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(3), zap.NewNop())

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(3), zap.NewNop())

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetries(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(2), zap.NewNop())

	boom := errors.New("boom")
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed after 2 retries")
}

func TestDoNonRetryableStopsImmediately(t *testing.T) {
	policy := fastPolicy(5)
	fatal := errors.New("fatal")
	policy.RetryableFunc = func(err error) bool {
		return !errors.Is(err, fatal)
	}
	r := NewBackoffRetryer(policy, zap.NewNop())

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return fatal
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	// non-retryable errors surface unwrapped
	assert.Equal(t, fatal, err)
}

func TestDoRetryableErrorsList(t *testing.T) {
	transient := errors.New("transient")
	fatal := errors.New("fatal")

	policy := fastPolicy(3)
	policy.RetryableErrors = []error{transient}
	r := NewBackoffRetryer(policy, zap.NewNop())

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return transient
		}
		return fatal
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, fatal, err)
}

func TestDoOnRetryCallback(t *testing.T) {
	policy := fastPolicy(2)
	var attempts []int
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
	}
	r := NewBackoffRetryer(policy, zap.NewNop())

	_ = r.Do(context.Background(), func() error {
		return errors.New("always")
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDoContextCancelledDuringDelay(t *testing.T) {
	policy := &RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}
	r := NewBackoffRetryer(policy, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := r.Do(ctx, func() error {
		calls++
		return errors.New("transient")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoWithResultReturnsValue(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(2), zap.NewNop())

	calls := 0
	v, err := r.DoWithResult(context.Background(), func() (any, error) {
		calls++
		if calls < 2 {
			return nil, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDoWithResultTyped(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(1), zap.NewNop())

	s, err := DoWithResultTyped[string](r, context.Background(), func() (string, error) {
		return "hello", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = DoWithResultTyped[string](r, context.Background(), func() (string, error) {
		return "", errors.New("always")
	})
	require.Error(t, err)
}

func TestNewBackoffRetryerDefaults(t *testing.T) {
	// nil policy falls back to the default policy without panicking
	r := NewBackoffRetryer(nil, nil)
	err := r.Do(context.Background(), func() error { return nil })
	assert.NoError(t, err)
}

func TestCalculateDelayBounds(t *testing.T) {
	policy := &RetryPolicy{
		MaxRetries:   5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     40 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       true,
	}
	r := NewBackoffRetryer(policy, zap.NewNop()).(*backoffRetryer)

	for attempt := 1; attempt <= 10; attempt++ {
		d := r.calculateDelay(attempt)
		assert.GreaterOrEqual(t, d, policy.InitialDelay)
		// +25% jitter over the cap is the worst case
		assert.LessOrEqual(t, d, policy.MaxDelay+policy.MaxDelay/4)
	}
}
