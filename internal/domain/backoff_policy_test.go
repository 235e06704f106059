package domain

import (
	"testing"
	"time"
)

func TestBackoffPolicyNextDoublesUntilCap(t *testing.T) {
	p := DefaultBackoffPolicy()

	cases := []struct {
		current time.Duration
		want    time.Duration
	}{
		{time.Second, 2 * time.Second},
		{2 * time.Second, 4 * time.Second},
		{4 * time.Second, 8 * time.Second},
		{20 * time.Second, 30 * time.Second},
		{30 * time.Second, 30 * time.Second},
	}
	for _, tc := range cases {
		got := p.Next(tc.current)
		if got != tc.want {
			t.Errorf("Next(%s) = %s, want %s", tc.current, got, tc.want)
		}
	}
}

func TestNewBackoffPolicyRejectsInvalidMultiplier(t *testing.T) {
	if _, err := NewBackoffPolicy(time.Second, 30*time.Second, 1.0); err == nil {
		t.Fatal("expected error for multiplier <= 1.0")
	}
}

func TestNewBackoffPolicyRejectsMaxBelowInitial(t *testing.T) {
	if _, err := NewBackoffPolicy(5*time.Second, time.Second, 2.0); err == nil {
		t.Fatal("expected error for max < initial")
	}
}
