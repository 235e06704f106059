package mediaruntime

import (
	"fmt"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
)

// busPollInterval matches original_source's bus-polling cadence and bounds
// stop-signal reaction latency: at 100ms, a stop fired between polls is
// noticed within one interval, well under the 250ms cancellation budget
// once teardown (SetState(Null)) is added on top.
const busPollInterval = 100 * time.Millisecond

var (
	initOnce sync.Once
	initErr  error
)

// Runtime is the concrete adapter over GStreamer. It carries no state of
// its own beyond what gst.Init requires process-wide; every pipeline it
// builds is independent.
type Runtime struct{}

// New returns a Runtime. Construction never touches GStreamer; call
// InitProcess before Build.
func New() *Runtime { return &Runtime{} }

// InitProcess idempotently initializes GStreamer. Safe to call from
// multiple goroutines; only the first call does any work.
func (r *Runtime) InitProcess() error {
	initOnce.Do(func() {
		initErr = safeInit()
	})
	if initErr != nil {
		return &domain.RuntimeInitError{Cause: initErr}
	}
	return nil
}

func safeInit() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("gst.Init panicked: %v", p)
		}
	}()
	gst.Init(nil)
	return nil
}

// Pipeline wraps a built GStreamer pipeline with the launch description it
// was parsed from, kept for error messages and logging.
type Pipeline struct {
	gst         *gst.Pipeline
	description string
}

// Element looks up a named element inside the pipeline, used by Stage A's
// RTSP factory to reach the appsink BuildSourceLaunch wires in as pay0's
// stand-in.
func (p *Pipeline) Element(name string) *gst.Element {
	return p.gst.GetByName(name)
}

func (p *Pipeline) teardown() {
	_ = p.gst.SetState(gst.StateNull)
}

// Build parses a launch description into a Pipeline handle. Failures here
// are non-retryable in the sense that they indicate a malformed
// description, but the resilience controller still retries them since a
// source that is not yet reachable can make an otherwise-valid description
// fail to resolve caps.
func (r *Runtime) Build(description string) (*Pipeline, error) {
	p, err := gst.NewPipelineFromString(description)
	if err != nil {
		return nil, &domain.PipelineParseError{Message: err.Error()}
	}
	return &Pipeline{gst: p, description: description}, nil
}

// OutcomeKind classifies why RunPipeline returned.
type OutcomeKind int

const (
	OutcomeStopped OutcomeKind = iota
	OutcomeEndOfStream
	OutcomePipelineError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeStopped:
		return "stopped"
	case OutcomeEndOfStream:
		return "end_of_stream"
	case OutcomePipelineError:
		return "pipeline_error"
	default:
		return "unknown"
	}
}

// RunOutcome reports why a RunPipeline call returned: the caller's stop
// channel closed, the bus posted EOS, or the bus posted a fatal error.
type RunOutcome struct {
	Kind OutcomeKind
	Err  error
}

func (o RunOutcome) IsStopped() bool { return o.Kind == OutcomeStopped }
func (o RunOutcome) IsEOS() bool     { return o.Kind == OutcomeEndOfStream }
func (o RunOutcome) IsError() bool   { return o.Kind == OutcomePipelineError }

// RunPipeline transitions p to PLAYING and blocks, polling the bus at
// busPollInterval, until EOS, a fatal bus error, or stop fires. It always
// tears the pipeline down to the NULL state before returning, satisfying
// the "orderly transition to null state" requirement on cancellation.
//
// stop is a one-shot cancellation signal: closing it (or it already being
// closed) is the only observed event, mirroring the "running" flag the
// resilience controller owns.
func (r *Runtime) RunPipeline(p *Pipeline, stop <-chan struct{}) RunOutcome {
	defer p.teardown()

	if err := p.gst.SetState(gst.StatePlaying); err != nil {
		return RunOutcome{Kind: OutcomePipelineError, Err: &domain.PipelineRuntimeError{Message: err.Error()}}
	}

	bus := p.gst.GetPipelineBus()

	for {
		select {
		case <-stop:
			return RunOutcome{Kind: OutcomeStopped}
		default:
		}

		msg := bus.TimedPop(busPollInterval)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			return RunOutcome{Kind: OutcomeEndOfStream}
		case gst.MessageError:
			gerr := msg.ParseError()
			return RunOutcome{Kind: OutcomePipelineError, Err: &domain.PipelineRuntimeError{Message: gerr.Error()}}
		}
	}
}
