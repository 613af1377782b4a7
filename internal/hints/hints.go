// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-reportgen/internal/fileutil"
)

// IsInContainer detects a Docker container through /.dockerenv.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a common CI environment variable is set.
func InCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints for Chrome launch failures (pdf output).
func ForBrowserConnect() string {
	var hints []string
	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "or use --format docx, which needs no browser")
	return formatHints(hints)
}

// ForMissingAPIKey returns a hint naming the environment variable to set.
func ForMissingAPIKey(envName string) string {
	if envName == "" {
		return ""
	}
	return format("export " + envName + "=<key>; without it the report holds only a placeholder paragraph")
}

// ForTimeout suggests a longer deadline.
func ForTimeout() string {
	return format("generation can be slow; raise --timeout")
}

// ForConfigNotFound suggests --config or creating a user config file.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "reportgen") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output write failures.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnsupportedFormat lists the accepted formats.
func ForUnsupportedFormat(formats []string) string {
	if len(formats) == 0 {
		return ""
	}
	return format("supported formats: " + strings.Join(formats, ", "))
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
