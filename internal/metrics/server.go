package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether the process should be considered healthy. It
// returns an error describing why when it isn't (e.g. the bridge reached
// ConnectionFailed).
type HealthCheck func() error

// Server is the small HTTP surface both cmd binaries expose alongside their
// media work: Prometheus scraping plus liveness/health probes.
type Server struct {
	http *http.Server
}

// NewServer builds a Server bound to addr. check is consulted on every
// /health request; /livez always reports OK, since it only proves the
// process is scheduled and answering requests, not that its media pipeline
// is up.
func NewServer(addr string, check HealthCheck) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if check == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
			return
		}
		if err := check(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &Server{http: &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// ListenAndServe runs the server until it errors or is shut down. It never
// returns http.ErrServerClosed to the caller, matching net/http.Server's
// Shutdown contract.
func (s *Server) ListenAndServe() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting up to ctx's deadline for
// in-flight requests (a Prometheus scrape, most likely) to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
