// Command rtsp-srt-bridge is Stage B: it reads one RTSP source and
// republishes it to an SRT endpoint, reconnecting under exponential
// backoff whenever the pipeline fails and immediately when the source ends
// its stream, and exposes Prometheus metrics plus health probes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rodrigobarreiros/hawkeye/internal/config"
	"github.com/rodrigobarreiros/hawkeye/internal/domain"
	"github.com/rodrigobarreiros/hawkeye/internal/mediaruntime"
	"github.com/rodrigobarreiros/hawkeye/internal/metrics"
	"github.com/rodrigobarreiros/hawkeye/internal/pipeline"
	"github.com/rodrigobarreiros/hawkeye/internal/resilience"
)

// runtimeAdapter satisfies resilience.MediaRuntime over
// internal/mediaruntime, converting between resilience's opaque Pipeline
// and mediaruntime's concrete one so the controller never imports gst.
type runtimeAdapter struct {
	runtime *mediaruntime.Runtime
}

func (a *runtimeAdapter) Build(description string) (resilience.Pipeline, error) {
	p, err := a.runtime.Build(description)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a *runtimeAdapter) RunPipeline(p resilience.Pipeline, stop <-chan struct{}) resilience.RunOutcome {
	pl, ok := p.(*mediaruntime.Pipeline)
	if !ok {
		return resilience.RunOutcome{Kind: resilience.OutcomePipelineError, Err: fmt.Errorf("runtimeAdapter: unexpected pipeline type %T", p)}
	}
	outcome := a.runtime.RunPipeline(pl, stop)
	return resilience.RunOutcome{Kind: resilience.OutcomeKind(outcome.Kind), Err: outcome.Err}
}

func main() {
	os.Exit(run())
}

func run() int {
	rtspURL := flag.String("rtsp-url", config.StringDefault("RTSP_URL", ""), "source RTSP URL")
	srtURL := flag.String("srt-url", config.StringDefault("SRT_URL", ""), "destination SRT URL")
	latencyMillis := flag.Int("latency-ms", config.IntDefault("LATENCY_MS", 200), "RTSP jitter-buffer latency in milliseconds")
	transportFlag := flag.String("transport", config.StringDefault("TRANSPORT", "tcp"), "RTSP transport: tcp or udp")
	metricsPort := flag.Int("metrics-port", config.IntDefault("METRICS_PORT", 9002), "metrics/health HTTP port")
	backoffInitialMS := flag.Int("backoff-initial-ms", config.IntDefault("BACKOFF_INITIAL_MS", 1000), "initial reconnect backoff in milliseconds")
	backoffMaxMS := flag.Int("backoff-max-ms", config.IntDefault("BACKOFF_MAX_MS", 30000), "maximum reconnect backoff in milliseconds")
	backoffMultiplier := flag.Float64("backoff-multiplier", 2.0, "reconnect backoff multiplier")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	transport, err := domain.ParseTransport(*transportFlag)
	if err != nil {
		slog.Error("config error", "error", err)
		return 2
	}
	bridgeCfg, err := domain.NewBridgeConfig(*rtspURL, *srtURL, transport, *latencyMillis)
	if err != nil {
		slog.Error("config error", "error", err)
		return 2
	}
	policy, err := domain.NewBackoffPolicy(
		time.Duration(*backoffInitialMS)*time.Millisecond,
		time.Duration(*backoffMaxMS)*time.Millisecond,
		*backoffMultiplier,
	)
	if err != nil {
		slog.Error("config error", "error", err)
		return 2
	}

	launch, err := pipeline.BuildBridgeLaunch(bridgeCfg)
	if err != nil {
		slog.Error("config error", "error", err)
		return 2
	}

	rt := mediaruntime.New()
	if err := rt.InitProcess(); err != nil {
		slog.Error("media runtime init failed", "error", err)
		return 1
	}

	reporter := metrics.NewBridgeReporter()
	controller := resilience.NewController(launch, policy, reporter, &runtimeAdapter{runtime: rt})

	metricsSrv := metrics.NewServer(fmt.Sprintf(":%d", *metricsPort), func() error {
		if controller.State().Kind == domain.ConnectionFailed {
			return fmt.Errorf("bridge reached failed state: %s", controller.State().Reason)
		}
		return nil
	})
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	errChan := make(chan error, 1)
	go func() { errChan <- controller.Run() }()

	slog.Info("rtsp-srt-bridge started", "rtsp_url", *rtspURL, "srt_url", *srtURL, "transport", transport)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
		controller.Stop()
		runErr = <-errChan
	case runErr = <-errChan:
		slog.Warn("resilience controller exited on its own", "error", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error shutting down metrics server", "error", err)
	}

	if runErr != nil {
		slog.Error("rtsp-srt-bridge stopped with error", "error", runErr)
		return 1
	}
	slog.Info("rtsp-srt-bridge stopped", "final_state", controller.State().Kind)
	return 0
}
