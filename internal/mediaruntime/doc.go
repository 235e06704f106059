// Package mediaruntime is the capability boundary between domain logic and
// the GStreamer process: it owns gst.Init, pipeline construction from a
// launch string, the bus-poll run loop, and the appsink-to-RTSP bridge that
// lets a pure-Go RTSP server (gortsplib) publish buffers produced by a
// GStreamer pipeline. Nothing above this package touches gst or gortsplib
// types directly.
package mediaruntime
