// Package resilience retries connection and batch work against the database
// and cache when it fails for reasons that are likely to clear on their own.
package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy bounds a retry loop. Delays double from Base up to Max, each
// perturbed by up to ±Jitter of itself.
type Policy struct {
	Name     string // used in retry log lines
	Attempts int    // total tries including the first
	Base     time.Duration
	Max      time.Duration
	Jitter   float64

	// Retryable overrides IsTransient when set.
	Retryable func(error) bool
}

// ConnectPolicy is used when opening the database or cache at startup.
func ConnectPolicy(name string) Policy {
	return Policy{
		Name:     name,
		Attempts: 5,
		Base:     500 * time.Millisecond,
		Max:      10 * time.Second,
		Jitter:   0.2,
	}
}

// Do runs fn until it succeeds, fails permanently, the attempts run out or
// ctx is done. The last error is returned.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := Value(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Value is Do for functions that produce a result.
func Value[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	for attempt := 1; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil || !p.Retryable(err) || attempt >= p.Attempts {
			return zero, err
		}

		delay := p.delay(attempt)
		zap.L().Warn("resilience: retrying",
			zap.String("operation", p.Name),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, err
		case <-t.C:
		}
	}
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.Base <= 0 {
		p.Base = 250 * time.Millisecond
	}
	if p.Max < p.Base {
		p.Max = p.Base
	}
	if p.Jitter < 0 || p.Jitter > 1 {
		p.Jitter = 0
	}
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

// delay is the wait after the given failed attempt (1-based).
func (p Policy) delay(attempt int) time.Duration {
	d := p.Base
	for i := 1; i < attempt && d < p.Max; i++ {
		d *= 2
	}
	d = min(d, p.Max)
	if p.Jitter > 0 {
		d += time.Duration((rand.Float64()*2 - 1) * p.Jitter * float64(d))
	}
	return max(d, 0)
}
