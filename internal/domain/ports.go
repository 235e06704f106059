package domain

import "time"

// SourceMetricsReporter is the port Stage A's StreamingService reports
// through, implemented by internal/metrics against prometheus/client_golang.
type SourceMetricsReporter interface {
	SetActiveSessions(count int)
	IncClientConnections()
	SetActiveClients(count int)
	AddBytesSent(n uint64)
}

// ClientCounter is the port Stage A's RTSP factory adapter drives as
// gortsplib session-open/close events arrive. *StreamSession satisfies it,
// keeping client-count state on the same entity that owns the rest of a
// session's lifecycle instead of a second, disconnected counter.
type ClientCounter interface {
	AddClient()
	RemoveClient()
	ClientCount() int
}

// BridgeMetricsReporter is the port Stage B's ResilienceController reports
// through.
type BridgeMetricsReporter interface {
	SetConnectionState(state ConnectionState)
	IncReconnectAttempts()
	SetReconnectBackoff(d time.Duration)
	SetPipelineUptime(d time.Duration)
	SetSRTPublishState(publishing bool)
}

// NoopSourceMetrics discards everything reported to it, for callers that
// don't care about metrics.
type NoopSourceMetrics struct{}

func (NoopSourceMetrics) SetActiveSessions(int)    {}
func (NoopSourceMetrics) IncClientConnections()    {}
func (NoopSourceMetrics) SetActiveClients(int)     {}
func (NoopSourceMetrics) AddBytesSent(uint64)      {}

// NoopBridgeMetrics discards everything reported to it.
type NoopBridgeMetrics struct{}

func (NoopBridgeMetrics) SetConnectionState(ConnectionState) {}
func (NoopBridgeMetrics) IncReconnectAttempts()              {}
func (NoopBridgeMetrics) SetReconnectBackoff(time.Duration)  {}
func (NoopBridgeMetrics) SetPipelineUptime(time.Duration)    {}
func (NoopBridgeMetrics) SetSRTPublishState(bool)            {}
