package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/gemrest/september/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Repository is the upstream source linked from the page footer.
const Repository = "https://github.com/gemrest/september"

// ShortCommit returns the first five characters of GitCommit, or "UNKNOWN" when
// the commit was not stamped at build time.
func ShortCommit() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return "UNKNOWN"
	}
	if len(GitCommit) > 5 {
		return GitCommit[:5]
	}
	return GitCommit
}

// SourceURL links to the tree of the running commit when known.
func SourceURL() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return Repository
	}
	return Repository + "/tree/" + GitCommit
}
