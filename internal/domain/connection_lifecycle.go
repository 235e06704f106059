package domain

import "time"

// historyLimit bounds ConnectionLifecycle's retained transition history,
// matching original_source's fixed-capacity ring buffer.
const historyLimit = 100

// ConnectionLifecycle tracks Stage B's current ConnectionState plus a
// bounded history of prior states, enforcing the allowed-transition table.
type ConnectionLifecycle struct {
	current ConnectionState
	history []ConnectionState
}

// NewConnectionLifecycle starts a lifecycle in the Idle state.
func NewConnectionLifecycle() *ConnectionLifecycle {
	return &ConnectionLifecycle{current: NewIdleState()}
}

func (l *ConnectionLifecycle) Current() ConnectionState { return l.current }

// History returns the retained transition history, oldest first.
func (l *ConnectionLifecycle) History() []ConnectionState {
	out := make([]ConnectionState, len(l.history))
	copy(out, l.history)
	return out
}

// Transition moves the lifecycle to next, rejecting moves outside the
// allowed-transition table.
func (l *ConnectionLifecycle) Transition(next ConnectionState) error {
	if !CanTransition(l.current.Kind, next.Kind) {
		return &InvalidTransitionError{From: l.current.Kind, To: next.Kind}
	}
	l.record(l.current)
	l.current = next
	return nil
}

func (l *ConnectionLifecycle) record(s ConnectionState) {
	l.history = append(l.history, s)
	if len(l.history) > historyLimit {
		l.history = l.history[len(l.history)-historyLimit:]
	}
}

func (l *ConnectionLifecycle) ToConnecting() error {
	return l.Transition(NewConnectingState())
}

func (l *ConnectionLifecycle) ToStreaming(since time.Time) error {
	return l.Transition(NewStreamingState(since))
}

func (l *ConnectionLifecycle) ToReconnecting(attempt int, nextRetryAt time.Time) error {
	return l.Transition(NewReconnectingState(attempt, nextRetryAt))
}

func (l *ConnectionLifecycle) ToFailed(reason string) error {
	return l.Transition(NewFailedState(reason))
}

func (l *ConnectionLifecycle) ToIdle() error {
	return l.Transition(NewIdleState())
}
