// Package version provides build-time version information.
package version

// These variables are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Template is the cobra version template for the slpp binary.
func Template() string {
	return "slpp version {{.Version}} (commit: " + Commit + ", built: " + Date + ")\n"
}
