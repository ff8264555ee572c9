// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-slidepress/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
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
		hints = append(hints, "set ROD_BROWSER_BIN or --browser to use a custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout(bake bool) string {
	if bake {
		return format("bake mode reflows every page; use --timeout or justify.mode: script")
	}
	return format("for large decks, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-slidepress/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml or run 'slidepress init'"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-slidepress") {
			hint += "; or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNoDictionary returns hints when no locale of the chain has patterns.
func ForNoDictionary(chain []string) string {
	if len(chain) == 0 {
		return format("set language.locale")
	}
	return format("add patterns/hyph-" + chain[0] + ".pat.txt under --assets, or set hyphenation.fallback")
}

// ForFontLoad returns hints for fonts referenced by the fonts stylesheet.
func ForFontLoad() string {
	return format("relative font urls resolve against fonts.dir (default: the stylesheet directory)")
}

// ForScriptSyntax returns hints for a justification script that fails to compile.
func ForScriptSyntax(customAssets bool) string {
	if customAssets {
		return format("check scripts/justify.js under --assets; remove it to use the built-in script")
	}
	return ""
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
