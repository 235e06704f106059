// Package config provides the environment-default helpers both cmd binaries
// use to build their flag sets: CLI flags win over environment variables,
// which win over the hardcoded default, satisfying the "CLI > environment >
// defaults" layering without a config file or library, since both binaries
// take a handful of scalar settings.
package config

import (
	"os"
	"strconv"
)

// StringDefault returns the value of the named environment variable, or
// fallback if it is unset or empty.
func StringDefault(envVar, fallback string) string {
	if v, ok := os.LookupEnv(envVar); ok && v != "" {
		return v
	}
	return fallback
}

// IntDefault returns the named environment variable parsed as an int, or
// fallback if it is unset, empty, or not a valid integer.
func IntDefault(envVar string, fallback int) int {
	v, ok := os.LookupEnv(envVar)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
