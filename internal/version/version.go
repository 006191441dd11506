// Package version reports build metadata stamped in by the magefile.
package version

import "fmt"

// Name is the program name shown in version output and the User-Agent.
const Name = "statsdash"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String is the one-line version banner.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, Version, CommitHash, BuildDate)
}

// UserAgent identifies statsdash to the stats API.
func UserAgent() string {
	return Name + "/" + Version
}
