package resilience

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
)

// scriptedRuntime replays a fixed sequence of RunOutcomes, one per call to
// RunPipeline. calls is one index shared by RunPipeline and by Build calls
// that return a scripted error; successful Build calls do not advance it.
type scriptedRuntime struct {
	mu        sync.Mutex
	outcomes  []RunOutcome
	buildErrs []error
	calls     int
	onCall    func(n int)
}

func (r *scriptedRuntime) Build(string) (Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls < len(r.buildErrs) && r.buildErrs[r.calls] != nil {
		err := r.buildErrs[r.calls]
		r.calls++
		return nil, err
	}
	return struct{}{}, nil
}

func (r *scriptedRuntime) RunPipeline(_ Pipeline, stop <-chan struct{}) RunOutcome {
	r.mu.Lock()
	idx := r.calls
	r.calls++
	r.mu.Unlock()
	if r.onCall != nil {
		r.onCall(idx)
	}
	if idx >= len(r.outcomes) {
		<-stop
		return RunOutcome{Kind: OutcomeStopped}
	}
	return r.outcomes[idx]
}

type recordingReporter struct {
	mu     sync.Mutex
	states []domain.ConnectionState
	backoff []time.Duration
	attempts int
}

func (r *recordingReporter) SetConnectionState(s domain.ConnectionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}
func (r *recordingReporter) IncReconnectAttempts() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
}
func (r *recordingReporter) SetReconnectBackoff(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backoff = append(r.backoff, d)
}
func (r *recordingReporter) SetPipelineUptime(time.Duration) {}
func (r *recordingReporter) SetSRTPublishState(bool)         {}

// firstStates returns the kinds of up to the first n reported states,
// oldest first.
func (r *recordingReporter) firstStates(n int) []domain.ConnectionStateKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ConnectionStateKind, 0, n)
	for _, s := range r.states {
		if len(out) == n {
			break
		}
		out = append(out, s.Kind)
	}
	return out
}

func TestControllerHappyPathReachesStreaming(t *testing.T) {
	rt := &scriptedRuntime{}
	reporter := &recordingReporter{}
	policy := domain.DefaultBackoffPolicy()
	c := NewController("desc", policy, reporter, rt)

	go func() {
		time.Sleep(20 * time.Millisecond)
		c.Stop()
	}()

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	states := reporter.firstStates(10)
	if len(states) < 2 || states[0] != domain.ConnectionIdle || states[1] != domain.ConnectionConnecting {
		t.Fatalf("unexpected leading states: %v", states)
	}
	found := false
	for _, s := range states {
		if s == domain.ConnectionStreaming {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Streaming transition, got %v", states)
	}
}

func TestControllerEOSResetsBackoffToInitial(t *testing.T) {
	rt := &scriptedRuntime{
		outcomes: []RunOutcome{
			{Kind: OutcomePipelineError, Err: fmt.Errorf("boom")},
			{Kind: OutcomeEndOfStream},
		},
	}
	reporter := &recordingReporter{}
	policy, _ := domain.NewBackoffPolicy(10*time.Millisecond, time.Second, 2.0)
	c := NewController("desc", policy, reporter, rt)

	go func() {
		time.Sleep(200 * time.Millisecond)
		c.Stop()
	}()

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if len(reporter.backoff) < 2 {
		t.Fatalf("expected at least two backoff samples, got %v", reporter.backoff)
	}
	// First reconnect (after the pipeline error) uses the initial delay.
	if reporter.backoff[0] != 10*time.Millisecond {
		t.Fatalf("first backoff = %v, want initial", reporter.backoff[0])
	}
	// Second reconnect follows an EndOfStream, so backoff resets to zero
	// pending delay rather than continuing to escalate.
	if reporter.backoff[1] != 0 {
		t.Fatalf("post-EOS backoff = %v, want 0 (reset, immediate reconnect)", reporter.backoff[1])
	}
}

func TestControllerShutdownMidBackoffReachesFailed(t *testing.T) {
	rt := &scriptedRuntime{
		outcomes: []RunOutcome{
			{Kind: OutcomePipelineError, Err: fmt.Errorf("boom")},
		},
	}
	reporter := &recordingReporter{}
	policy, _ := domain.NewBackoffPolicy(2*time.Second, 30*time.Second, 2.0)
	c := NewController("desc", policy, reporter, rt)

	go func() {
		// Fire Stop while the controller is sleeping in its backoff delay.
		time.Sleep(50 * time.Millisecond)
		c.Stop()
	}()

	start := time.Now()
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("shutdown took too long: %v", elapsed)
	}

	if c.State().Kind != domain.ConnectionFailed {
		t.Fatalf("final state = %v, want Failed", c.State().Kind)
	}
	if c.State().Reason != "shutdown" {
		t.Fatalf("final reason = %q, want shutdown", c.State().Reason)
	}
}

func TestControllerAttemptCountResetsAfterStreaming(t *testing.T) {
	rt := &scriptedRuntime{
		outcomes: []RunOutcome{
			{Kind: OutcomePipelineError, Err: fmt.Errorf("boom")},
			{Kind: OutcomePipelineError, Err: fmt.Errorf("boom")},
		},
	}
	reporter := &recordingReporter{}
	policy, _ := domain.NewBackoffPolicy(5*time.Millisecond, time.Second, 2.0)
	c := NewController("desc", policy, reporter, rt)

	go func() {
		time.Sleep(200 * time.Millisecond)
		c.Stop()
	}()

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Every connect reaches Streaming before its pipeline errors, so the
	// consecutive-attempt counter resets to 0 each time: both Reconnecting
	// states carry attempt 1, while the cumulative reconnect_attempts_total
	// counter still counts both reconnects. The third run streams until Stop.
	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if reporter.attempts < 2 {
		t.Fatalf("expected at least 2 reconnect attempts, got %d", reporter.attempts)
	}
	for _, s := range reporter.states {
		if s.Kind == domain.ConnectionReconnecting && s.Attempt != 1 {
			t.Fatalf("Reconnecting attempt = %d, want 1 (reset after Streaming)", s.Attempt)
		}
	}
}
