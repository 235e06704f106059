package domain

import "time"

// BackoffPolicy is the exponential-backoff schedule the resilience
// controller advances through on each failed reconnect attempt.
type BackoffPolicy struct {
	initial    time.Duration
	max        time.Duration
	multiplier float64
}

// NewBackoffPolicy validates and constructs a BackoffPolicy. initial must be
// at least 1ms, max must be at least initial, and multiplier must exceed
// 1.0 or the schedule would never advance.
func NewBackoffPolicy(initial, max time.Duration, multiplier float64) (BackoffPolicy, error) {
	if initial < time.Millisecond {
		return BackoffPolicy{}, NewConfigError("backoff_initial", "must be at least 1ms")
	}
	if max < initial {
		return BackoffPolicy{}, NewConfigError("backoff_max", "must be >= initial")
	}
	if multiplier <= 1.0 {
		return BackoffPolicy{}, NewConfigError("backoff_multiplier", "must be > 1.0")
	}
	return BackoffPolicy{initial: initial, max: max, multiplier: multiplier}, nil
}

// DefaultBackoffPolicy mirrors original_source's defaults: 1s initial, 30s
// max, 2.0 multiplier.
func DefaultBackoffPolicy() BackoffPolicy {
	p, _ := NewBackoffPolicy(time.Second, 30*time.Second, 2.0)
	return p
}

func (p BackoffPolicy) Initial() time.Duration { return p.initial }
func (p BackoffPolicy) Max() time.Duration     { return p.max }
func (p BackoffPolicy) Multiplier() float64    { return p.multiplier }

// Next computes the delay following current, doubling (or scaling by
// Multiplier) and clamping to Max.
func (p BackoffPolicy) Next(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * p.multiplier)
	if next > p.max {
		return p.max
	}
	if next < p.initial {
		return p.initial
	}
	return next
}
