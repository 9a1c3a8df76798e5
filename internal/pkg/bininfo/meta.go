// Package bininfo carries version control information injected at build time, e.g.
//
//	go build -ldflags "-X exusiai.dev/sprintsummary/internal/pkg/bininfo.Version=v1.2.0"
//
// Keep the variable names stable, the release pipeline references them.
package bininfo

var (
	// Version is the SemVer version of the binary.
	// Git commit is appended, if available, separated by a plus sign [+].
	Version = "v0.0.0"

	// BuildTime is the time at which the application was built.
	BuildTime = "1970-01-01T00:00:00Z"
)

// Release is the release name reported to error tracking.
func Release() string {
	return "sprintsummary@" + Version
}
