// Package resilience implements Stage B's ResilienceController: the state
// machine that owns a ConnectionLifecycle, drives MediaRuntime.RunPipeline
// in a loop, classifies its outcome, applies the backoff policy, and
// reports every transition to a MetricsReporter. It is the "hard part" of
// the bridge — everything else in Stage B exists to feed it a
// configuration and observe what it reports.
package resilience

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
)

// uptimeTickInterval bounds how stale pipeline_uptime_seconds can be while
// Streaming; it is a display refresh only, not a suspension point.
const uptimeTickInterval = time.Second

// Controller is the ResilienceController described in spec.md §4.3. It is
// single-threaded and cooperative: Run must be called from one goroutine,
// and Stop is the only method safe to call from another.
type Controller struct {
	lifecycle   *domain.ConnectionLifecycle
	policy      domain.BackoffPolicy
	reporter    domain.BridgeMetricsReporter
	runtime     MediaRuntime
	description string

	stop     chan struct{}
	stopOnce sync.Once

	consecutiveAttempt int
}

// NewController builds a Controller in the Idle state. description is the
// launch string PipelineBuilder produced for the configured BridgeConfig;
// it never changes across the controller's lifetime, since only the
// underlying pipeline (not its recipe) is rebuilt on each reconnect.
func NewController(
	description string,
	policy domain.BackoffPolicy,
	reporter domain.BridgeMetricsReporter,
	runtime MediaRuntime,
) *Controller {
	return &Controller{
		lifecycle:   domain.NewConnectionLifecycle(),
		policy:      policy,
		reporter:    reporter,
		runtime:     runtime,
		description: description,
		stop:        make(chan struct{}),
	}
}

// State returns the controller's current ConnectionState.
func (c *Controller) State() domain.ConnectionState { return c.lifecycle.Current() }

// History returns the bounded transition history.
func (c *Controller) History() []domain.ConnectionState { return c.lifecycle.History() }

// Stop fires the one-shot cancellation signal. Safe to call more than
// once and from any goroutine.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Controller) isRunning() bool {
	select {
	case <-c.stop:
		return false
	default:
		return true
	}
}

// Run drives the control loop described in spec.md §4.3 until Stop is
// called or a fatal domain error (InvalidTransitionError) occurs. It
// returns nil on graceful shutdown and a non-nil error only for the fatal
// categories that must reach the composition root.
func (c *Controller) Run() error {
	c.emit()
	delay := c.policy.Initial()

loop:
	for c.isRunning() {
		if err := c.doTransition(c.lifecycle.ToConnecting); err != nil {
			return err
		}

		pipeline, buildErr := c.runtime.Build(c.description)
		if buildErr != nil {
			slog.Warn("resilience: pipeline build failed, will retry",
				"state", c.lifecycle.Current().Kind, "attempt", c.consecutiveAttempt+1, "backoff_seconds", delay.Seconds(), "reason", buildErr)
			if err := c.enterReconnecting(delay); err != nil {
				return err
			}
			if c.sleepInterruptible(delay) {
				break loop
			}
			delay = c.policy.Next(delay)
			continue
		}

		if err := c.doTransition(func() error { return c.lifecycle.ToStreaming(time.Now()) }); err != nil {
			return err
		}
		c.consecutiveAttempt = 0
		c.reporter.SetSRTPublishState(true)
		stopUptime := c.startUptimeTicker()

		outcome := c.runtime.RunPipeline(pipeline, c.stop)

		stopUptime()
		c.reporter.SetSRTPublishState(false)
		c.reporter.SetPipelineUptime(0)

		switch outcome.Kind {
		case OutcomeStopped:
			return c.finalize()

		case OutcomeEndOfStream:
			slog.Info("resilience: end of stream, reconnecting immediately",
				"state", c.lifecycle.Current().Kind, "attempt", c.consecutiveAttempt+1, "backoff_seconds", 0.0)
			delay = c.policy.Initial()
			if err := c.enterReconnecting(0); err != nil {
				return err
			}

		case OutcomePipelineError:
			slog.Warn("resilience: pipeline error, backing off",
				"state", c.lifecycle.Current().Kind, "attempt", c.consecutiveAttempt+1, "backoff_seconds", delay.Seconds(), "reason", outcome.Err)
			if err := c.enterReconnecting(delay); err != nil {
				return err
			}
			if c.sleepInterruptible(delay) {
				break loop
			}
			delay = c.policy.Next(delay)
		}
	}

	return c.finalize()
}

// enterReconnecting advances the consecutive-attempt counter, transitions
// to Reconnecting with the given pending delay, and reports the metrics
// that accompany the transition. delay of zero (the EOS case) still emits
// the transition but reports no pending backoff.
func (c *Controller) enterReconnecting(delay time.Duration) error {
	c.consecutiveAttempt++
	nextRetryAt := time.Now().Add(delay)
	if err := c.doTransition(func() error {
		return c.lifecycle.ToReconnecting(c.consecutiveAttempt, nextRetryAt)
	}); err != nil {
		return err
	}
	c.reporter.IncReconnectAttempts()
	c.reporter.SetReconnectBackoff(delay)
	return nil
}

// sleepInterruptible blocks for d or until Stop fires, whichever is
// first, and reports whether it was interrupted. This is the second of
// the controller's two suspension points.
func (c *Controller) sleepInterruptible(d time.Duration) bool {
	if d <= 0 {
		return !c.isRunning()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return false
	case <-c.stop:
		return true
	}
}

// startUptimeTicker periodically reports pipeline_uptime_seconds while
// Streaming; the returned func stops the ticker and must be called
// exactly once, before the next transition.
func (c *Controller) startUptimeTicker() (stop func()) {
	since := c.lifecycle.Current().Since
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(uptimeTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				c.reporter.SetPipelineUptime(now.Sub(since))
			}
		}
	}()
	return func() { close(done) }
}

// finalize handles the loop's exit: if the controller was stopped while
// mid-backoff (Reconnecting), it records the terminal Failed("shutdown")
// state per spec.md §3; any other exit state is left as-is, since Failed
// is reachable only on that specific path or a future non-retryable
// classification.
func (c *Controller) finalize() error {
	if !c.isRunning() && c.lifecycle.Current().Kind == domain.ConnectionReconnecting {
		if err := c.doTransition(func() error { return c.lifecycle.ToFailed("shutdown") }); err != nil {
			return err
		}
	}
	return nil
}

// doTransition runs a lifecycle mutator, emits the resulting state to the
// metrics reporter, and treats InvalidTransitionError as fatal: it is a
// programming error and must reach the composition root per spec.md §7.
func (c *Controller) doTransition(mutate func() error) error {
	if err := mutate(); err != nil {
		return err
	}
	c.emit()
	return nil
}

func (c *Controller) emit() {
	c.reporter.SetConnectionState(c.lifecycle.Current())
}
