package pipeline

import (
	"fmt"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
)

// BuildBridgeLaunch renders the gst-launch description that pulls H.264
// over RTSP and republishes it as MPEG-TS over SRT. The element chain is
// carried over verbatim from original_source's PipelineBuilder::build:
// rtspsrc receives the RTP stream, rtph264depay depayloads it, and
// h264parse normalizes to a byte-stream/AU-aligned elementary stream before
// muxing into MPEG-TS (alignment=7 groups seven 188-byte TS packets, 1316
// bytes, per output buffer, one SRT payload each) and handing to srtsink. wait-for-connection=false lets the pipeline keep
// running while no SRT receiver is attached, matching the original intent
// of publishing best-effort rather than blocking on a caller.
func BuildBridgeLaunch(cfg domain.BridgeConfig) (string, error) {
	if cfg.RTSPURL() == "" {
		return "", &domain.PipelineParseError{Message: "rtsp_url must not be empty"}
	}
	if cfg.SRTURL() == "" {
		return "", &domain.PipelineParseError{Message: "srt_url must not be empty"}
	}

	return fmt.Sprintf(
		"rtspsrc location=%q latency=%d protocols=%s ! rtph264depay ! h264parse config-interval=1 ! "+
			"video/x-h264,stream-format=byte-stream,alignment=au ! mpegtsmux alignment=7 ! "+
			"srtsink uri=%q wait-for-connection=false",
		cfg.RTSPURL(), cfg.LatencyMillis(), cfg.Transport(), cfg.SRTURL(),
	), nil
}
