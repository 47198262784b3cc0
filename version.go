package restgen

import (
	"fmt"
	"runtime"
)

var (
	// version is set via ldflags during release builds.
	// For development builds, this will show "dev"
	version = "dev"
	commit  = "unknown"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// Commit returns the git commit of the build or "unknown".
func Commit() string {
	return commit
}

// GoVersion returns the Go runtime version the binary was built with.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent returns the User-Agent string used when fetching documents and
// stamped into generated clients by default.
func UserAgent() string {
	return fmt.Sprintf("restgen/%s", version)
}
