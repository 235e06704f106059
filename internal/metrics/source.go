// Package metrics implements SourceMetricsReporter and BridgeMetricsReporter
// against prometheus/client_golang, and the /metrics, /health, and /livez
// HTTP surface both cmd binaries expose through go-chi/chi.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rtspActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtsp_active_sessions",
		Help: "Number of RTSP factories currently attached (0 or 1 per process)",
	})

	rtspClientConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtsp_client_connections_total",
		Help: "Total number of RTSP client sessions opened since startup",
	})

	rtspActiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtsp_active_clients",
		Help: "Number of RTSP client sessions currently attached",
	})

	rtspBytesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtsp_bytes_sent_total",
		Help: "Total bytes of RTP payload pulled off the source pipeline",
	})
)

// SourceReporter implements domain.SourceMetricsReporter against the
// package-level Stage A collectors.
type SourceReporter struct{}

// NewSourceReporter builds a SourceReporter. Collectors are registered
// once at package init, so more than one SourceReporter in a process
// would share the same series; callers should keep to one per process.
func NewSourceReporter() SourceReporter { return SourceReporter{} }

func (SourceReporter) SetActiveSessions(count int) { rtspActiveSessions.Set(float64(count)) }
func (SourceReporter) IncClientConnections()       { rtspClientConnectionsTotal.Inc() }
func (SourceReporter) SetActiveClients(count int)  { rtspActiveClients.Set(float64(count)) }
func (SourceReporter) AddBytesSent(n uint64)       { rtspBytesSentTotal.Add(float64(n)) }
