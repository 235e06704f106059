// Package pipeline builds GStreamer launch-description strings from domain
// value objects. Every function here is pure: given a config, it returns a
// string (or an error), and touches no GStreamer API directly. That keeps
// the launch-string grammar testable without gst.Init ever running.
package pipeline
