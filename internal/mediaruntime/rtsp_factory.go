package mediaruntime

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bluenviron/gortsplib/v5"
	"github.com/bluenviron/gortsplib/v5/pkg/base"
	"github.com/bluenviron/gortsplib/v5/pkg/description"
	"github.com/bluenviron/gortsplib/v5/pkg/format"
	"github.com/pion/rtp"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
	"github.com/rodrigobarreiros/hawkeye/internal/pipeline"
)

// FactoryHandle is the running state Stage A holds for as long as its
// RTSP factory is attached: the GStreamer pipeline producing RTP buffers,
// the gortsplib server publishing them, and the relay goroutine gluing the
// two together. There is no Go binding for gst-rtsp-server in this stack,
// so gortsplib's ServerStream stands in for the "shared factory" gst-rtsp-
// server would otherwise provide: one pipeline, one ServerStream, N
// concurrently-attached RTSP sessions all reading the same buffers.
type FactoryHandle struct {
	server   *gortsplib.Server
	stream   *gortsplib.ServerStream
	pipeline *Pipeline
	handler  *sourceHandler

	closeOnce sync.Once
}

// sourceHandler implements gortsplib.ServerHandler, rejecting requests for
// any path other than the configured mount and reporting session
// open/close events through the SourceMetricsReporter port. Client counts
// are recorded on the caller's StreamSession via the ClientCounter port
// rather than a private counter, so the session stays the single source of
// truth for how many RTSP clients are attached.
type sourceHandler struct {
	mount    string
	stream   *gortsplib.ServerStream
	reporter domain.SourceMetricsReporter
	counter  domain.ClientCounter
}

func (h *sourceHandler) OnConnOpen(_ *gortsplib.ServerHandlerOnConnOpenCtx) {}

func (h *sourceHandler) OnConnClose(_ *gortsplib.ServerHandlerOnConnCloseCtx) {}

func (h *sourceHandler) OnSessionOpen(_ *gortsplib.ServerHandlerOnSessionOpenCtx) {
	h.reporter.IncClientConnections()
	h.counter.AddClient()
	h.reporter.SetActiveClients(h.counter.ClientCount())
}

func (h *sourceHandler) OnSessionClose(_ *gortsplib.ServerHandlerOnSessionCloseCtx) {
	h.counter.RemoveClient()
	h.reporter.SetActiveClients(h.counter.ClientCount())
}

func (h *sourceHandler) OnDescribe(
	ctx *gortsplib.ServerHandlerOnDescribeCtx,
) (*base.Response, *gortsplib.ServerStream, error) {
	if ctx.Path != h.mount {
		return &base.Response{StatusCode: base.StatusNotFound}, nil, fmt.Errorf("unknown mount point: %s", ctx.Path)
	}
	return &base.Response{StatusCode: base.StatusOK}, h.stream, nil
}

func (h *sourceHandler) OnSetup(
	ctx *gortsplib.ServerHandlerOnSetupCtx,
) (*base.Response, *gortsplib.ServerStream, error) {
	if ctx.Path != h.mount {
		return &base.Response{StatusCode: base.StatusNotFound}, nil, fmt.Errorf("unknown mount point: %s", ctx.Path)
	}
	return &base.Response{StatusCode: base.StatusOK}, h.stream, nil
}

func (h *sourceHandler) OnPlay(_ *gortsplib.ServerHandlerOnPlayCtx) (*base.Response, error) {
	return &base.Response{StatusCode: base.StatusOK}, nil
}

// AttachRTSPFactory builds description, starts it playing, and registers a
// gortsplib server on port/mount that republishes whatever it produces.
// The port is bound before AttachRTSPFactory returns, matching the "port
// is bound on attach" contract. When looping is true, the pipeline is
// seeked back to position zero each time its bus posts end-of-stream,
// keeping a finite file source publishing indefinitely —
// the same intent as original_source's setup_looping, translated from a
// gst-rtsp-server media-configure hook to a plain bus watch on our own
// pipeline since gortsplib has no equivalent factory-configure callback.
func (r *Runtime) AttachRTSPFactory(
	port int,
	mount string,
	launchDescription string,
	shared bool,
	looping bool,
	reporter domain.SourceMetricsReporter,
	counter domain.ClientCounter,
) (*FactoryHandle, error) {
	pl, err := r.Build(launchDescription)
	if err != nil {
		return nil, err
	}

	sinkName := pipeline.RTPSinkName()
	sink := pl.Element(sinkName)
	if sink == nil {
		return nil, &domain.PipelineParseError{Message: fmt.Sprintf("launch description missing appsink %q", sinkName)}
	}

	desc := &description.Session{
		Medias: []*description.Media{{
			Type: description.MediaTypeVideo,
			Formats: []format.Format{&format.H264{
				PayloadTyp:        96,
				PacketizationMode: 1,
			}},
		}},
	}

	handler := &sourceHandler{mount: mount, reporter: reporter, counter: counter}

	server := &gortsplib.Server{
		Handler:     handler,
		RTSPAddress: fmt.Sprintf(":%d", port),
	}

	stream := &gortsplib.ServerStream{Server: server, Desc: desc}
	if err := stream.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize RTSP server stream: %w", err)
	}
	handler.stream = stream

	if err := server.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start RTSP server on port %d: %w", port, err)
	}

	if err := pl.gst.SetState(gst.StatePlaying); err != nil {
		server.Close()
		stream.Close()
		return nil, &domain.PipelineRuntimeError{Message: err.Error()}
	}

	fh := &FactoryHandle{
		server:   server,
		stream:   stream,
		pipeline: pl,
		handler:  handler,
	}

	appSink := app.SinkFromElement(sink)
	media := desc.Medias[0]
	appSink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(s *app.Sink) gst.FlowReturn {
			return fh.onNewSample(s, media)
		},
	})

	bus := pl.gst.GetPipelineBus()
	bus.AddWatch(func(msg *gst.Message) bool {
		switch msg.Type() {
		case gst.MessageEOS:
			if !looping {
				slog.Info("mediaruntime: source pipeline reached end of stream, looping disabled")
				return true
			}
			if err := pl.gst.SeekSimple(gst.FormatTime, gst.SeekFlagFlush|gst.SeekFlagKeyUnit, 0); err != nil {
				slog.Warn("mediaruntime: failed to seek source pipeline back to start", "error", err)
			} else {
				slog.Debug("mediaruntime: looped source pipeline back to start")
			}
		case gst.MessageError:
			gerr := msg.ParseError()
			slog.Error("mediaruntime: source pipeline error", "error", gerr.Error())
		}
		return true
	})

	slog.Info("mediaruntime: RTSP factory attached",
		"port", port, "mount", mount, "shared", shared, "looping", looping)
	return fh, nil
}

// onNewSample pulls the sample the appsink just buffered, unmarshals it as
// an RTP packet (BuildSourceLaunch's payloader already produced one) and
// writes it into the ServerStream so every attached RTSP session receives
// it. A single corrupted buffer is dropped rather than killing the relay,
// mirroring the teacher's graceful-degradation posture in OnNewSample.
func (h *FactoryHandle) onNewSample(sink *app.Sink, media *description.Media) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()

	var pkt rtp.Packet
	if err := pkt.Unmarshal(data); err != nil {
		buffer.Unmap()
		slog.Warn("mediaruntime: dropping unparsable RTP buffer", "error", err)
		return gst.FlowOK
	}
	buffer.Unmap()
	h.handler.reporter.AddBytesSent(uint64(len(data)))

	if err := h.stream.WritePacketRTP(media, &pkt); err != nil {
		slog.Warn("mediaruntime: failed writing RTP packet to RTSP session", "error", err)
	}
	return gst.FlowOK
}

// Close tears the factory down: stops accepting RTSP connections and
// drives the pipeline to NULL. Idempotent.
func (h *FactoryHandle) Close() {
	h.closeOnce.Do(func() {
		h.server.Close()
		h.pipeline.teardown()
		h.stream.Close()
	})
}

// ActiveClientCount returns the number of currently attached RTSP sessions.
func (h *FactoryHandle) ActiveClientCount() int {
	return h.handler.counter.ClientCount()
}
