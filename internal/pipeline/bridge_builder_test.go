package pipeline

import (
	"strings"
	"testing"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
)

func TestBuildBridgeLaunch(t *testing.T) {
	cfg, err := domain.NewBridgeConfig("rtsp://127.0.0.1:8554/live", "srt://0.0.0.0:9000", domain.TransportTCP, 200)
	if err != nil {
		t.Fatalf("NewBridgeConfig: %v", err)
	}
	launch, err := BuildBridgeLaunch(cfg)
	if err != nil {
		t.Fatalf("BuildBridgeLaunch: %v", err)
	}
	for _, want := range []string{
		"rtspsrc location=\"rtsp://127.0.0.1:8554/live\" latency=200 protocols=tcp",
		"rtph264depay",
		"h264parse config-interval=1",
		"mpegtsmux alignment=7",
		"srtsink uri=\"srt://0.0.0.0:9000\" wait-for-connection=false",
	} {
		if !strings.Contains(launch, want) {
			t.Errorf("launch %q missing %q", launch, want)
		}
	}
}

func TestBuildBridgeLaunchRejectsEmptyURLs(t *testing.T) {
	cfg, _ := domain.NewBridgeConfig("rtsp://x", "srt://y", domain.TransportTCP, 0)
	_ = cfg
	if _, err := BuildBridgeLaunch(domain.BridgeConfig{}); err == nil {
		t.Fatal("expected error for zero-value BridgeConfig")
	}
}
