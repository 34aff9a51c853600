// Package version holds build-time version information for archmap.
package version

// Overridable at build time:
// go build -ldflags "-X archmap/internal/version.Version=1.2.0 -X archmap/internal/version.Commit=abc123"
var (
	// Version is the semantic version of archmap
	Version = "0.4.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns a short version string for banners and logs.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information for `archmap version`.
func Full() string {
	return "archmap version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
