// Package environment reads configuration overrides from environment
// variables. Every helper returns the parsed value or the caller's default;
// none of them exit or log, so unset variables are always safe.
package environment

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StringOr returns the named variable's value, or defaultValue when it is
// unset or empty.
func StringOr(name, defaultValue string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return defaultValue
}

// IntOr parses the named variable as a decimal integer. Unset, empty, or
// unparseable values yield defaultValue.
func IntOr(name string, defaultValue int) int {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

// DurationOr parses the named variable as a time.Duration ("30s", "5m").
// Unset, empty, or unparseable values yield defaultValue.
func DurationOr(name string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

// StringSliceOr parses the named variable as a comma-separated list with
// whitespace trimmed from each element. Unset, empty, or all-blank values
// yield defaultValue.
func StringSliceOr(name string, defaultValue []string) []string {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
