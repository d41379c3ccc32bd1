// Package version carries build metadata stamped in with -ldflags.
package version

import "fmt"

var (
	// Version is the mapcluster release, or "dev" for local builds.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
)

// String formats the build metadata for a -version flag.
func String(tool string) string {
	return fmt.Sprintf("%s %s (%s)", tool, Version, GitSHA)
}
