// Command rtsp-source is Stage A: it republishes one video file as a live
// RTSP stream under a shared factory, looping on end-of-stream (this
// command offers no flag to turn looping off), and exposes Prometheus
// metrics plus health probes.
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
	"github.com/rodrigobarreiros/hawkeye/internal/streaming"
)

// mediaServerAdapter satisfies streaming.StreamingServer over
// internal/mediaruntime, closing over the SourceMetricsReporter that
// AttachRTSPFactory needs but the port interface does not carry.
type mediaServerAdapter struct {
	runtime  *mediaruntime.Runtime
	reporter domain.SourceMetricsReporter
}

func (a *mediaServerAdapter) AttachFactory(
	port int, mount string, launchDescription string, shared bool, looping bool,
	counter domain.ClientCounter,
) (streaming.Factory, error) {
	return a.runtime.AttachRTSPFactory(port, mount, launchDescription, shared, looping, a.reporter, counter)
}

func main() {
	os.Exit(run())
}

func run() int {
	videoPath := flag.String("video-path", config.StringDefault("VIDEO_PATH", ""), "path to the source video file")
	rtspPort := flag.Int("rtsp-port", config.IntDefault("RTSP_PORT", 8554), "RTSP listen port")
	mountPoint := flag.String("mount-point", config.StringDefault("RTSP_MOUNT_POINT", "/cam1"), "RTSP mount point")
	metricsPort := flag.Int("metrics-port", config.IntDefault("METRICS_PORT", 9001), "metrics/health HTTP port")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	streamCfg := domain.NewStreamConfig(*videoPath)
	if err := streamCfg.Validate(); err != nil {
		slog.Error("config error", "error", err)
		return 2
	}
	serverCfg, err := domain.NewServerConfig(*rtspPort, *mountPoint, 0)
	if err != nil {
		slog.Error("config error", "error", err)
		return 2
	}
	if err := domain.ValidateDistinctPorts(*rtspPort, *metricsPort); err != nil {
		slog.Error("config error", "error", err)
		return 2
	}
	if *rtspPort < 1024 {
		slog.Warn("rtsp-port is a privileged port, the process may need elevated capabilities", "port", *rtspPort)
	}

	rt := mediaruntime.New()
	if err := rt.InitProcess(); err != nil {
		slog.Error("media runtime init failed", "error", err)
		return 1
	}

	reporter := metrics.NewSourceReporter()
	svc := streaming.NewService(&mediaServerAdapter{runtime: rt, reporter: reporter}, reporter)

	if err := svc.Start(streamCfg, serverCfg); err != nil {
		slog.Error("failed to start streaming service", "error", err)
		return 1
	}
	slog.Info("rtsp-source started", "port", *rtspPort, "mount", *mountPoint, "video_path", *videoPath)

	metricsSrv := metrics.NewServer(fmt.Sprintf(":%d", *metricsPort), func() error {
		if !svc.IsStreaming() {
			return fmt.Errorf("streaming service is not active")
		}
		return nil
	})
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	slog.Info("received shutdown signal", "signal", sig)

	if err := svc.Stop(streaming.DefaultStopDeadline); err != nil {
		slog.Error("error stopping streaming service", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error shutting down metrics server", "error", err)
	}

	slog.Info("rtsp-source stopped")
	return 0
}
