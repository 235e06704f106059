package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
)

var (
	rtspSRTConnectionState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtsp_srt_connection_state",
		Help: "Bridge ConnectionState ordinal: 0=idle 1=connecting 2=streaming 3=reconnecting 4=failed",
	})

	reconnectAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconnect_attempts_total",
		Help: "Total number of reconnect attempts made since startup",
	})

	reconnectBackoffSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reconnect_backoff_seconds",
		Help: "Pending backoff delay before the next reconnect attempt",
	})

	pipelineUptimeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_uptime_seconds",
		Help: "Seconds the current pipeline has been Streaming, 0 when not streaming",
	})

	// srtPublishState supplements the required set: original_source exposes
	// srt_publish_state as a distinct boolean gauge from the connection state
	// ordinal, since a caller scraping for "is media flowing right now" would
	// otherwise have to decode the ordinal instead of reading a 0/1.
	srtPublishState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "srt_publish_state",
		Help: "Whether the bridge is currently publishing to the SRT sink (1) or not (0)",
	})
)

// BridgeReporter implements domain.BridgeMetricsReporter against the
// package-level Stage B collectors.
type BridgeReporter struct{}

// NewBridgeReporter builds a BridgeReporter.
func NewBridgeReporter() BridgeReporter { return BridgeReporter{} }

func (BridgeReporter) SetConnectionState(s domain.ConnectionState) {
	rtspSRTConnectionState.Set(s.AsMetric())
}

func (BridgeReporter) IncReconnectAttempts() { reconnectAttemptsTotal.Inc() }

func (BridgeReporter) SetReconnectBackoff(d time.Duration) {
	reconnectBackoffSeconds.Set(d.Seconds())
}

func (BridgeReporter) SetPipelineUptime(d time.Duration) {
	pipelineUptimeSeconds.Set(d.Seconds())
}

func (BridgeReporter) SetSRTPublishState(publishing bool) {
	if publishing {
		srtPublishState.Set(1)
	} else {
		srtPublishState.Set(0)
	}
}
