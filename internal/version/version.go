package version

import "fmt"

// Version, Commit, and Date are set via ldflags at build time.
//
//	go build -ldflags "-X github.com/bengobox/advisor-service/internal/version.Version=v1.0.0
//	  -X github.com/bengobox/advisor-service/internal/version.Commit=abc1234
//	  -X github.com/bengobox/advisor-service/internal/version.Date=2025-01-01T00:00:00Z"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build info on one line.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
