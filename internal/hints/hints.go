// Package hints appends actionable advice to CLI error messages.
// Hints are formatted as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/wizardswiffle/clubsite/internal/fileutil"
)

// IsInContainer detects a Docker container by its /.dockerenv marker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests the rod environment variables that usually fix
// a browser that will not start.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	hints = append(hints, "run 'clubsite doctor' to check the setup")

	return formatHints(hints)
}

// ForTimeout suggests a longer probe timeout.
func ForTimeout() string {
	return format("slow pages need a longer --timeout")
}

// ForConfigNotFound suggests --config, or creating the file in the first
// searched clubsite config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/clubsite/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForPortInUse suggests picking another port.
func ForPortInUse() string {
	return format("another process holds the port; set PORT or use --port")
}

// ForUnresolved lists placeholders a template still contains and how to
// supply them.
func ForUnresolved(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return format("unresolved: " + strings.Join(names, ", ") + "; pass --set KEY=VALUE")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
