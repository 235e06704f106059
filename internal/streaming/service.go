package streaming

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
	"github.com/rodrigobarreiros/hawkeye/internal/pipeline"
)

// DefaultStopDeadline is the bounded time Stop waits for the factory to
// confirm shutdown before hard-cancelling, per spec.md §4.4.
const DefaultStopDeadline = 5 * time.Second

// Service is Stage A's core: StreamingService. It is a passive server —
// it never reconnects on its own, since RTSP client churn is handled
// entirely by the shared factory underneath it.
type Service struct {
	mu       sync.Mutex
	server   StreamingServer
	reporter domain.SourceMetricsReporter

	session *domain.StreamSession
	factory Factory
}

// NewService builds a Service over the given StreamingServer capability.
func NewService(server StreamingServer, reporter domain.SourceMetricsReporter) *Service {
	return &Service{server: server, reporter: reporter}
}

// Start builds the factory payload via PipelineBuilder, attaches it, and
// records the resulting StreamSession. It fails with ErrAlreadyStreaming
// if a session is already Active.
func (s *Service) Start(stream domain.StreamConfig, server domain.ServerConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil && s.session.State == domain.SessionActive {
		return domain.ErrAlreadyStreaming{}
	}

	launch, err := pipeline.BuildSourceLaunch(stream)
	if err != nil {
		return err
	}

	session := domain.NewStreamSession(stream, server)

	factory, err := s.server.AttachFactory(
		server.Port(), server.MountPoint(), launch, true, server.LoopingEnabled(), session)
	if err != nil {
		return err
	}

	session.Activate(time.Now())

	s.session = session
	s.factory = factory
	s.reporter.SetActiveSessions(1)

	slog.Info("streaming: session started",
		"session_id", session.ID, "port", server.Port(), "mount", server.MountPoint())
	return nil
}

// Stop requests the factory to shut down and awaits confirmation within
// deadline, hard-cancelling the wait (but not the underlying teardown,
// which keeps running in its own goroutine) if it is exceeded.
func (s *Service) Stop(deadline time.Duration) error {
	s.mu.Lock()
	if s.session == nil || s.session.State != domain.SessionActive {
		s.mu.Unlock()
		return domain.ErrNotStreaming{}
	}
	session := s.session
	factory := s.factory
	session.BeginStop()
	s.mu.Unlock()

	if deadline <= 0 {
		deadline = DefaultStopDeadline
	}

	done := make(chan struct{})
	go func() {
		factory.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(deadline):
		slog.Warn("streaming: factory close exceeded deadline, hard-cancelling wait",
			"session_id", session.ID, "deadline", deadline)
	}

	s.mu.Lock()
	session.Stop()
	s.reporter.SetActiveSessions(0)
	s.session = nil
	s.factory = nil
	s.mu.Unlock()

	slog.Info("streaming: session stopped", "session_id", session.ID)
	return nil
}

// IsStreaming reports whether a session is currently Active.
func (s *Service) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && s.session.State == domain.SessionActive
}

// ActiveClientCount delegates to the live factory's RTSP session count,
// or zero when no session is active.
func (s *Service) ActiveClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.factory == nil {
		return 0
	}
	return s.factory.ActiveClientCount()
}
