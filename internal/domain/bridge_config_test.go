package domain

import "testing"

func TestNewBridgeConfigRejectsBadURLs(t *testing.T) {
	if _, err := NewBridgeConfig("http://x", "srt://y:9000", TransportTCP, 200); err == nil {
		t.Fatal("expected error for non-rtsp url")
	}
	if _, err := NewBridgeConfig("rtsp://x", "udp://y:9000", TransportTCP, 200); err == nil {
		t.Fatal("expected error for non-srt url")
	}
}

func TestParseTransport(t *testing.T) {
	if tr, err := ParseTransport("TCP"); err != nil || tr != TransportTCP {
		t.Fatalf("ParseTransport(TCP) = %v, %v", tr, err)
	}
	if tr, err := ParseTransport("udp"); err != nil || tr != TransportUDP {
		t.Fatalf("ParseTransport(udp) = %v, %v", tr, err)
	}
	if _, err := ParseTransport("quic"); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}
