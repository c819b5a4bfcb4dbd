package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultInitInitialInterval = 500 * time.Millisecond
	defaultInitMultiplier      = 2.0
	defaultInitMaxInterval     = 5 * time.Second
	defaultInitRandomization   = 0.5
	defaultInitMaxElapsed      = 20 * time.Second

	defaultFastMaxAttempts = 3
	defaultFastDelay       = 200 * time.Millisecond
)

// PermanentError wraps a non-retryable error.
type PermanentError struct {
	err error
}

func (e PermanentError) Error() string {
	if e.err == nil {
		return "permanent error"
	}
	return e.err.Error()
}

func (e PermanentError) Unwrap() error { return e.err }

// Permanent marks an error as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	if IsPermanent(err) {
		return err
	}
	return PermanentError{err: err}
}

// IsPermanent reports whether err is marked as non-retryable.
func IsPermanent(err error) bool {
	var pe PermanentError
	if errors.As(err, &pe) {
		return true
	}
	var bpe *backoff.PermanentError
	return errors.As(err, &bpe)
}

// Policy configures an exponential backoff. Zero fields fall back to the
// RetryInit defaults; MaxAttempts == 0 means no attempt limit.
type Policy struct {
	InitialInterval     time.Duration
	Multiplier          float64
	MaxInterval         time.Duration
	RandomizationFactor float64
	MaxElapsed          time.Duration
	MaxAttempts         uint

	// OnRetry is called before each sleep with the error that caused it.
	OnRetry func(err error, next time.Duration)
}

// InitPolicy is the policy used by RetryInit.
func InitPolicy() Policy {
	return Policy{
		InitialInterval:     defaultInitInitialInterval,
		Multiplier:          defaultInitMultiplier,
		MaxInterval:         defaultInitMaxInterval,
		RandomizationFactor: defaultInitRandomization,
		MaxElapsed:          defaultInitMaxElapsed,
	}
}

func (p Policy) withDefaults() Policy {
	d := InitPolicy()
	if p.InitialInterval <= 0 {
		p.InitialInterval = d.InitialInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = d.Multiplier
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = d.MaxInterval
	}
	if p.RandomizationFactor < 0 || p.RandomizationFactor > 1 {
		p.RandomizationFactor = d.RandomizationFactor
	}
	if p.MaxElapsed <= 0 {
		p.MaxElapsed = d.MaxElapsed
	}
	return p
}

// Do retries fn under p. It stops on success, context cancellation, a
// permanent error, MaxAttempts or MaxElapsed. Permanent errors are returned
// unwrapped from the backoff marker but keep the PermanentError wrapper.
func Do(ctx context.Context, p Policy, fn func() error) error {
	p = p.withDefaults()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.Multiplier = p.Multiplier
	exp.MaxInterval = p.MaxInterval
	exp.RandomizationFactor = p.RandomizationFactor
	exp.Reset()

	type unit struct{}
	op := func() (unit, error) {
		if err := ctx.Err(); err != nil {
			return unit{}, backoff.Permanent(err)
		}
		err := fn()
		if IsPermanent(err) {
			var bpe *backoff.PermanentError
			if errors.As(err, &bpe) {
				return unit{}, err
			}
			return unit{}, backoff.Permanent(err)
		}
		return unit{}, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(p.MaxElapsed),
	}
	if p.MaxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(p.MaxAttempts))
	}
	if p.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(p.OnRetry))
	}

	_, err := backoff.Retry(ctx, op, opts...)
	var bpe *backoff.PermanentError
	if errors.As(err, &bpe) {
		return bpe.Err
	}
	return err
}

// RetryInit retries fn with exponential backoff for startup/init flows.
// It stops on context cancellation, permanent errors, or max elapsed time.
func RetryInit(ctx context.Context, fn func() error) error {
	return Do(ctx, InitPolicy(), fn)
}

// RetryFast retries fn a small fixed number of times for short transient failures.
// It stops on context cancellation or permanent errors.
func RetryFast(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i < defaultFastMaxAttempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		err = fn()
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		if i == defaultFastMaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(defaultFastDelay):
		}
	}
	return err
}
