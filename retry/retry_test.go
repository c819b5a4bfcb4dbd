//go:build unit
// +build unit

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-vat/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsed:      time.Second,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(), func() error {
		calls++
		if calls < 3 {
			return errors.New("busy")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanent(t *testing.T) {
	base := errors.New("invalid input")
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(), func() error {
		calls++
		return retry.Permanent(base)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, base))
	assert.True(t, retry.IsPermanent(err))
}

func TestDo_MaxAttempts(t *testing.T) {
	p := fastPolicy()
	p.MaxAttempts = 4

	var notified []error
	p.OnRetry = func(err error, _ time.Duration) { notified = append(notified, err) }

	calls := 0
	err := retry.Do(context.Background(), p, func() error {
		calls++
		return errors.New("busy")
	})
	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Len(t, notified, 3)
}

func TestDo_ContextCanceledBeforeCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry.Do(ctx, fastPolicy(), func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestInitPolicyDefaults(t *testing.T) {
	p := retry.InitPolicy()
	assert.Equal(t, 500*time.Millisecond, p.InitialInterval)
	assert.Equal(t, 20*time.Second, p.MaxElapsed)
	assert.Zero(t, p.MaxAttempts)
}

func TestRetryInit_Success(t *testing.T) {
	calls := 0
	err := retry.RetryInit(context.Background(), func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryInit_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	calls := 0
	err := retry.RetryInit(ctx, func() error {
		calls++
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.GreaterOrEqual(t, calls, 1)
}

func TestRetryFast_Fail(t *testing.T) {
	calls := 0
	err := retry.RetryFast(context.Background(), func() error {
		calls++
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryFast_Permanent(t *testing.T) {
	calls := 0
	err := retry.RetryFast(context.Background(), func() error {
		calls++
		return retry.Permanent(errors.New("no"))
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, retry.Permanent(nil))
	assert.False(t, retry.IsPermanent(errors.New("x")))
	assert.Equal(t, "permanent error", retry.PermanentError{}.Error())
}
