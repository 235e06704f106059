package pipeline

import (
	"strings"
	"testing"

	"github.com/rodrigobarreiros/hawkeye/internal/domain"
)

func TestBuildSourceLaunchMP4H264(t *testing.T) {
	cfg := domain.NewStreamConfig("/videos/cam.mp4")
	launch, err := BuildSourceLaunch(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"filesrc location=\"/videos/cam.mp4\"", "qtdemux", "h264parse config-interval=-1", "rtph264pay pt=96", "appsink name=rtpsink"} {
		if !strings.Contains(launch, want) {
			t.Errorf("launch %q missing %q", launch, want)
		}
	}
}

func TestBuildSourceLaunchMKVH265(t *testing.T) {
	cfg := domain.NewStreamConfig("/videos/cam.mkv").
		WithCodec(domain.VideoCodecH265).
		WithContainer(domain.ContainerMKV)
	launch, err := BuildSourceLaunch(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"matroskademux", "h265parse config-interval=-1", "rtph265pay"} {
		if !strings.Contains(launch, want) {
			t.Errorf("launch %q missing %q", launch, want)
		}
	}
}
