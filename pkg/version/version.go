package version

// Version is the application version, set at build time via ldflags.
// Example: go build -ldflags "-X github.com/shishobooks/booknotes/pkg/version.Version=1.0.0".
var Version = "dev"

// UserAgent identifies booknotes to the services it calls.
func UserAgent() string {
	return "booknotes/" + Version + " (+https://github.com/shishobooks/booknotes)"
}
