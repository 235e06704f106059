// Package domain holds the value objects, entities, and errors shared by
// both pipeline stages. Nothing in this package touches GStreamer, gortsplib,
// or any other infrastructure concern: validation, state transitions, and
// backoff math are pure functions over plain Go values, except for
// StreamConfig.Validate, which checks the source path on disk.
package domain
