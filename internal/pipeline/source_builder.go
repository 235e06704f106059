package pipeline

import (
	"fmt"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
)

// rtpSinkName is the appsink element name mediaruntime looks up to pull RTP
// packets off the pipeline and feed them into gortsplib's ServerStream.
// gst-rtsp-server's RTSPMediaFactory would normally own this role via a
// "pay0" payloader pad, but there is no Go binding for gst-rtsp-server in
// the dependency pack, so Stage A pulls payloaded RTP buffers out through
// an appsink instead and lets a pure-Go RTSP server (gortsplib) own the
// wire protocol. See internal/mediaruntime/rtsp_factory.go.
const rtpSinkName = "rtpsink"

// BuildSourceLaunch renders the gst-launch description that demuxes,
// parses, and payloads cfg's source file into RTP buffers on an appsink.
// Demuxer and parser selection directly mirrors original_source's
// PipelineBuilder::build (qtdemux for MP4, matroskademux for MKV; h264parse
// or h265parse with config-interval=-1 so SPS/PPS are repeated in-band for
// late-joining RTSP clients).
func BuildSourceLaunch(cfg domain.StreamConfig) (string, error) {
	demuxer, err := demuxerFor(cfg.Container())
	if err != nil {
		return "", err
	}
	parser, err := parserFor(cfg.Codec())
	if err != nil {
		return "", err
	}
	payloader, err := payloaderFor(cfg.Codec())
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"filesrc location=%q ! %s ! %s ! %s pt=%d ! appsink name=%s emit-signals=true sync=false max-buffers=4 drop=true",
		cfg.SourcePath(), demuxer, parser, payloader, cfg.RTPPayloadType(), rtpSinkName,
	), nil
}

func demuxerFor(container domain.ContainerFormat) (string, error) {
	switch container {
	case domain.ContainerMP4:
		return "qtdemux", nil
	case domain.ContainerMKV:
		return "matroskademux", nil
	default:
		return "", &domain.PipelineParseError{Message: fmt.Sprintf("unsupported container: %s", container)}
	}
}

func parserFor(codec domain.VideoCodec) (string, error) {
	switch codec {
	case domain.VideoCodecH264:
		return "h264parse config-interval=-1", nil
	case domain.VideoCodecH265:
		return "h265parse config-interval=-1", nil
	default:
		return "", &domain.PipelineParseError{Message: fmt.Sprintf("unsupported codec: %s", codec)}
	}
}

func payloaderFor(codec domain.VideoCodec) (string, error) {
	switch codec {
	case domain.VideoCodecH264:
		return "rtph264pay", nil
	case domain.VideoCodecH265:
		return "rtph265pay", nil
	default:
		return "", &domain.PipelineParseError{Message: fmt.Sprintf("unsupported codec: %s", codec)}
	}
}

// RTPSinkName returns the appsink element name BuildSourceLaunch wires in,
// for mediaruntime to look up without duplicating the literal.
func RTPSinkName() string { return rtpSinkName }
