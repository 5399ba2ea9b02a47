// Package version carries build-time version information set via ldflags.
package version

var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info formats the version details as one string.
func Info() string {
	return Version + " (" + GitCommit + ") built at " + BuildTime
}
