package domain

import "strings"

// Transport is Stage B's RTSP transport preference toward the source.
type Transport int

const (
	TransportTCP Transport = iota
	TransportUDP
)

func (t Transport) String() string {
	if t == TransportUDP {
		return "udp"
	}
	return "tcp"
}

// ParseTransport parses "tcp"/"udp" (case-insensitive), defaulting errors
// to a ConfigError rather than silently falling back.
func ParseTransport(s string) (Transport, error) {
	switch strings.ToLower(s) {
	case "tcp", "":
		return TransportTCP, nil
	case "udp":
		return TransportUDP, nil
	default:
		return TransportTCP, NewConfigError("transport", "must be tcp or udp: "+s)
	}
}

// BridgeConfig is Stage B's configuration: the RTSP URL to read from, the
// SRT URL to publish to, the transport preference toward the source, and
// the jitter-buffer latency to apply on the RTSP side.
type BridgeConfig struct {
	rtspURL       string
	srtURL        string
	transport     Transport
	latencyMillis int
}

// NewBridgeConfig validates and constructs a BridgeConfig.
func NewBridgeConfig(rtspURL, srtURL string, transport Transport, latencyMillis int) (BridgeConfig, error) {
	if !strings.HasPrefix(rtspURL, "rtsp://") {
		return BridgeConfig{}, NewConfigError("rtsp_url", "must start with rtsp://: "+rtspURL)
	}
	if !strings.HasPrefix(srtURL, "srt://") {
		return BridgeConfig{}, NewConfigError("srt_url", "must start with srt://: "+srtURL)
	}
	if latencyMillis < 0 {
		return BridgeConfig{}, NewConfigError("latency_ms", "must be nonnegative")
	}
	return BridgeConfig{
		rtspURL:       rtspURL,
		srtURL:        srtURL,
		transport:     transport,
		latencyMillis: latencyMillis,
	}, nil
}

func (c BridgeConfig) RTSPURL() string       { return c.rtspURL }
func (c BridgeConfig) SRTURL() string        { return c.srtURL }
func (c BridgeConfig) Transport() Transport  { return c.transport }
func (c BridgeConfig) LatencyMillis() int    { return c.latencyMillis }
