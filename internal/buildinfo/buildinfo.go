// Package buildinfo holds build-time metadata injected via ldflags.
package buildinfo

// Set at build time:
//
//	go build -ldflags "-X github.com/yolovision/yolovision/internal/buildinfo.version=v1.2.3"
var (
	version   = ""
	buildDate = ""
)

// Version returns the build version, "dev" when built without ldflags.
func Version() string {
	if version == "" {
		return "dev"
	}
	return version
}

// BuildDate returns the build date, "unknown" when built without ldflags.
func BuildDate() string {
	if buildDate == "" {
		return "unknown"
	}
	return buildDate
}

// String returns the combined version line shown by --version.
func String() string {
	return Version() + " (built " + BuildDate() + ")"
}
