// Package version carries build metadata stamped in with -ldflags.
package version

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/insightsite/internal/version.Version=v1.2.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
