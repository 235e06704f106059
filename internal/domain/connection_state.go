package domain

import (
	"fmt"
	"time"
)

// ConnectionStateKind tags the variant of a ConnectionState without
// carrying its payload, used for transition-table lookups and logging.
type ConnectionStateKind int

const (
	ConnectionIdle ConnectionStateKind = iota
	ConnectionConnecting
	ConnectionStreaming
	ConnectionReconnecting
	ConnectionFailed
)

func (k ConnectionStateKind) String() string {
	switch k {
	case ConnectionIdle:
		return "idle"
	case ConnectionConnecting:
		return "connecting"
	case ConnectionStreaming:
		return "streaming"
	case ConnectionReconnecting:
		return "reconnecting"
	case ConnectionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConnectionState is the tagged union the resilience controller drives
// through. Only the fields relevant to Kind are meaningful.
type ConnectionState struct {
	Kind        ConnectionStateKind
	Since       time.Time
	Attempt     int
	NextRetryAt time.Time
	Reason      string
}

func NewIdleState() ConnectionState {
	return ConnectionState{Kind: ConnectionIdle}
}

func NewConnectingState() ConnectionState {
	return ConnectionState{Kind: ConnectionConnecting}
}

func NewStreamingState(since time.Time) ConnectionState {
	return ConnectionState{Kind: ConnectionStreaming, Since: since}
}

func NewReconnectingState(attempt int, nextRetryAt time.Time) ConnectionState {
	return ConnectionState{Kind: ConnectionReconnecting, Attempt: attempt, NextRetryAt: nextRetryAt}
}

func NewFailedState(reason string) ConnectionState {
	return ConnectionState{Kind: ConnectionFailed, Reason: reason}
}

func (s ConnectionState) String() string {
	switch s.Kind {
	case ConnectionStreaming:
		return fmt.Sprintf("streaming(since=%s)", s.Since.Format(time.RFC3339))
	case ConnectionReconnecting:
		return fmt.Sprintf("reconnecting(attempt=%d, next_retry_at=%s)", s.Attempt, s.NextRetryAt.Format(time.RFC3339))
	case ConnectionFailed:
		return fmt.Sprintf("failed(%s)", s.Reason)
	default:
		return s.Kind.String()
	}
}

// AsMetric maps the state to the 0..4 ordinal that internal/metrics'
// BridgeReporter publishes as rtsp_srt_connection_state, matching the
// ordering original_source's gauge uses.
func (s ConnectionState) AsMetric() float64 {
	return float64(s.Kind)
}

// allowedTransitions enumerates spec.md's §3 transition table: Idle only
// reaches Connecting; Connecting reaches Streaming or Reconnecting;
// Streaming reaches Reconnecting on error or EOS; Reconnecting reaches
// Connecting once the backoff delay has elapsed. Failed is reached from
// any state (handled separately in CanTransition, not listed per-source)
// and is terminal: nothing transitions out of it.
var allowedTransitions = map[ConnectionStateKind]map[ConnectionStateKind]bool{
	ConnectionIdle:         {ConnectionConnecting: true},
	ConnectionConnecting:   {ConnectionStreaming: true, ConnectionReconnecting: true},
	ConnectionStreaming:    {ConnectionReconnecting: true},
	ConnectionReconnecting: {ConnectionConnecting: true},
}

// CanTransition reports whether moving from the "from" kind to the "to"
// kind is allowed. Every state may transition to Failed (shutdown
// mid-backoff or a future non-retryable classification); Failed itself is
// terminal-on-request and transitions to nothing, including itself.
func CanTransition(from, to ConnectionStateKind) bool {
	if to == ConnectionFailed {
		return from != ConnectionFailed
	}
	return allowedTransitions[from][to]
}
