// Package streaming implements StreamingService, Stage A's core: it
// orchestrates construction of the RTSP factory payload, attaches it
// through the StreamingServer capability, and holds the resulting
// StreamSession for as long as the factory stays up.
package streaming

import "github.com/rodrigobarreiros/hawkeye/internal/domain"

// Factory is the handle StreamingServer.AttachFactory returns: the
// running RTSP factory for one mount point.
type Factory interface {
	// Close tears the factory down, disconnecting any attached RTSP
	// sessions and releasing the underlying pipeline.
	Close()
	// ActiveClientCount reports how many RTSP sessions are currently
	// attached, as recorded on the ClientCounter passed to AttachFactory.
	ActiveClientCount() int
}

// StreamingServer is the capability boundary StreamingService drives; it
// is satisfied by a thin adapter over internal/mediaruntime built at the
// composition root. counter receives the RTSP session open/close events
// the underlying factory observes, so a session's client count reflects
// what gortsplib actually saw rather than a separate tally.
type StreamingServer interface {
	AttachFactory(
		port int, mount string, launchDescription string, shared bool, looping bool,
		counter domain.ClientCounter,
	) (Factory, error)
}
