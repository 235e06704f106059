package domain

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionStateKind tags a StreamSession's lifecycle stage.
type SessionStateKind int

const (
	SessionStarting SessionStateKind = iota
	SessionActive
	SessionStopping
	SessionStopped
)

func (k SessionStateKind) String() string {
	switch k {
	case SessionStarting:
		return "starting"
	case SessionActive:
		return "active"
	case SessionStopping:
		return "stopping"
	case SessionStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StreamSession is Stage A's entity: one running RTSP factory serving a
// StreamConfig under a ServerConfig, tracking the RTSP client sessions
// currently attached (a supplement over original_source's StreamSession,
// which didn't need per-client counts since gst-rtsp-server tracked that
// internally — gortsplib's ServerHandler hands us the open/close events
// directly, so we count them here instead of discarding them).
type StreamSession struct {
	ID        uuid.UUID
	Stream    StreamConfig
	Server    ServerConfig
	StartedAt time.Time
	State     SessionStateKind
	clients   atomic.Int64
}

// NewStreamSession creates a session in the Starting state.
func NewStreamSession(stream StreamConfig, server ServerConfig) *StreamSession {
	return &StreamSession{
		ID:     uuid.New(),
		Stream: stream,
		Server: server,
		State:  SessionStarting,
	}
}

// Activate marks the session Active as of now.
func (s *StreamSession) Activate(now time.Time) {
	s.State = SessionActive
	s.StartedAt = now
}

// BeginStop marks the session Stopping.
func (s *StreamSession) BeginStop() {
	s.State = SessionStopping
}

// Stop marks the session Stopped.
func (s *StreamSession) Stop() {
	s.State = SessionStopped
}

// AddClient records an RTSP client session opening. Safe to call
// concurrently, since gortsplib invokes session callbacks from
// per-connection goroutines.
func (s *StreamSession) AddClient() {
	s.clients.Add(1)
}

// RemoveClient records an RTSP client session closing. It clamps at zero
// if the count is already zero, since OnSessionClose can race
// OnSessionOpen during abrupt disconnects.
func (s *StreamSession) RemoveClient() {
	if s.clients.Add(-1) < 0 {
		s.clients.Store(0)
	}
}

// ClientCount returns the number of currently attached RTSP clients.
func (s *StreamSession) ClientCount() int { return int(s.clients.Load()) }

// Uptime returns the duration since the session became Active. It is zero
// if the session has not yet started.
func (s *StreamSession) Uptime(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}
