package domain

import "os"

// StreamConfig describes the source Stage A republishes: an absolute file
// path, the codec it carries (fixed at construction), and the container it
// is demuxed from. PipelineBuilder renders launch strings for H.264 and
// H.265; the RTSP factory in internal/mediaruntime announces only H.264
// (baseline profile, no B-frames) to clients.
type StreamConfig struct {
	sourcePath      string
	codec           VideoCodec
	container       ContainerFormat
	rtpPayloadType  uint8
}

// NewStreamConfig builds a StreamConfig defaulted to H.264/MP4/payload type
// 96, matching original_source's StreamConfig::new defaults.
func NewStreamConfig(sourcePath string) StreamConfig {
	return StreamConfig{
		sourcePath:     sourcePath,
		codec:          VideoCodecH264,
		container:      ContainerMP4,
		rtpPayloadType: 96,
	}
}

// WithCodec returns a copy of the config with the given codec.
func (c StreamConfig) WithCodec(codec VideoCodec) StreamConfig {
	c.codec = codec
	return c
}

// WithContainer returns a copy of the config with the given container.
func (c StreamConfig) WithContainer(container ContainerFormat) StreamConfig {
	c.container = container
	return c
}

// WithRTPPayloadType returns a copy of the config with the given RTP
// payload type.
func (c StreamConfig) WithRTPPayloadType(pt uint8) StreamConfig {
	c.rtpPayloadType = pt
	return c
}

func (c StreamConfig) SourcePath() string          { return c.sourcePath }
func (c StreamConfig) Codec() VideoCodec           { return c.codec }
func (c StreamConfig) Container() ContainerFormat  { return c.container }
func (c StreamConfig) RTPPayloadType() uint8        { return c.rtpPayloadType }

// Validate checks that the source path exists and is not a directory. It is
// the only I/O domain code performs, and only at validation time — once
// constructed, a StreamConfig is treated as immutable truth.
func (c StreamConfig) Validate() error {
	info, err := os.Stat(c.sourcePath)
	if err != nil {
		return NewConfigError("video_path", "path does not exist: "+c.sourcePath)
	}
	if info.IsDir() {
		return NewConfigError("video_path", "path is not a file: "+c.sourcePath)
	}
	return nil
}
