package domain

import (
	"testing"
	"time"
)

func TestConnectionLifecycleHappyPath(t *testing.T) {
	l := NewConnectionLifecycle()

	if err := l.ToConnecting(); err != nil {
		t.Fatalf("ToConnecting: %v", err)
	}
	if err := l.ToStreaming(time.Now()); err != nil {
		t.Fatalf("ToStreaming: %v", err)
	}
	if l.Current().Kind != ConnectionStreaming {
		t.Fatalf("current = %v, want Streaming", l.Current().Kind)
	}
	if err := l.ToReconnecting(1, time.Now().Add(time.Second)); err != nil {
		t.Fatalf("ToReconnecting: %v", err)
	}
	if err := l.ToConnecting(); err != nil {
		t.Fatalf("ToConnecting after reconnect: %v", err)
	}
}

func TestConnectionLifecycleRejectsInvalidTransition(t *testing.T) {
	l := NewConnectionLifecycle()

	err := l.ToStreaming(time.Now())
	if err == nil {
		t.Fatal("expected invalid transition error going Idle -> Streaming")
	}
	if _, ok := err.(*InvalidTransitionError); !ok {
		t.Fatalf("expected *InvalidTransitionError, got %T", err)
	}
}

func TestConnectionLifecycleFailedReachableFromAnyState(t *testing.T) {
	l := NewConnectionLifecycle()
	_ = l.ToConnecting()
	if err := l.ToFailed("shutdown"); err != nil {
		t.Fatalf("Connecting -> Failed should be allowed: %v", err)
	}
}

func TestConnectionLifecycleFailedFromReconnecting(t *testing.T) {
	l := NewConnectionLifecycle()
	_ = l.ToConnecting()
	_ = l.ToReconnecting(1, time.Now())
	if err := l.ToFailed("shutdown"); err != nil {
		t.Fatalf("Reconnecting -> Failed should be allowed: %v", err)
	}
}

func TestConnectionLifecycleFailedIsTerminal(t *testing.T) {
	l := NewConnectionLifecycle()
	_ = l.ToConnecting()
	_ = l.ToFailed("shutdown")
	if err := l.ToConnecting(); err == nil {
		t.Fatal("expected Failed -> Connecting to be rejected, Failed is terminal")
	}
}

func TestConnectionLifecycleHistoryBounded(t *testing.T) {
	l := NewConnectionLifecycle()
	for i := 0; i < historyLimit+10; i++ {
		_ = l.ToConnecting()
		_ = l.ToReconnecting(i, time.Now())
		_ = l.ToConnecting()
	}
	if len(l.History()) > historyLimit {
		t.Fatalf("history length %d exceeds limit %d", len(l.History()), historyLimit)
	}
}
