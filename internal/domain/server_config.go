package domain

import "strings"

// ServerConfig is Stage A's RTSP factory configuration: the port to bind,
// the mount point to register it under, a jitter-buffer latency hint, and
// whether the source should loop on end-of-stream (enable_looping is a
// supplement carried over from original_source's ServerConfig — without it
// a finite file source would make Stage A a one-shot publisher).
type ServerConfig struct {
	port          int
	mountPoint    string
	latencyMillis int
	enableLooping bool
}

const mountPointMaxLength = 100

// NewServerConfig validates and constructs a ServerConfig. Port must be in
// 1..=65535 and mountPoint must start with "/" and contain only URL-safe
// characters.
func NewServerConfig(port int, mountPoint string, latencyMillis int) (ServerConfig, error) {
	if err := validatePort(port, "rtsp_port"); err != nil {
		return ServerConfig{}, err
	}
	if err := validateMountPoint(mountPoint); err != nil {
		return ServerConfig{}, err
	}
	if latencyMillis < 0 {
		return ServerConfig{}, NewConfigError("latency_ms", "must be nonnegative")
	}
	return ServerConfig{
		port:          port,
		mountPoint:    mountPoint,
		latencyMillis: latencyMillis,
		enableLooping: true,
	}, nil
}

// WithLooping returns a copy of the config with looping explicitly set.
func (c ServerConfig) WithLooping(enabled bool) ServerConfig {
	c.enableLooping = enabled
	return c
}

func (c ServerConfig) Port() int            { return c.port }
func (c ServerConfig) MountPoint() string   { return c.mountPoint }
func (c ServerConfig) LatencyMillis() int   { return c.latencyMillis }
func (c ServerConfig) LoopingEnabled() bool { return c.enableLooping }

func validatePort(port int, field string) error {
	if port < 1 || port > 65535 {
		return NewConfigError(field, "port must be in 1..=65535")
	}
	return nil
}

func validateMountPoint(mount string) error {
	if !strings.HasPrefix(mount, "/") {
		return NewConfigError("mount_point", "must begin with '/': "+mount)
	}
	if len(mount) > mountPointMaxLength {
		return NewConfigError("mount_point", "exceeds maximum length of 100 characters")
	}
	if strings.Contains(mount, "//") {
		return NewConfigError("mount_point", "must not contain '//': "+mount)
	}
	if len(mount) > 1 && strings.HasSuffix(mount, "/") {
		return NewConfigError("mount_point", "must not end with '/': "+mount)
	}
	for _, r := range mount {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '/' || r == '-' || r == '_'
		if !ok {
			return NewConfigError("mount_point", "contains character outside [A-Za-z0-9/_-]: "+mount)
		}
	}
	return nil
}

// ValidateDistinctPorts enforces the invariant that a mount port and a
// metrics port differ.
func ValidateDistinctPorts(mountPort, metricsPort int) error {
	if mountPort == metricsPort {
		return NewConfigError("metrics_port", "must differ from the media port")
	}
	return nil
}
