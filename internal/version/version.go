// Package version holds build information for the drawrec CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each numeric component in its own color.
// Anything after the patch number is left plain.
func Colored() string {
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	patch, rest := parts[2], ""
	if i := strings.IndexAny(patch, "-+"); i >= 0 {
		patch, rest = patch[:i], patch[i:]
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(patch) + rest
}

// String returns the one-line version banner printed by `drawrec version`.
func String() string {
	var sb strings.Builder
	sb.WriteString("drawrec ")
	sb.WriteString(Colored())
	if GitCommit != "" {
		sb.WriteString(" (")
		sb.WriteString(GitCommit)
		if BuildDate != "" {
			sb.WriteString(", ")
			sb.WriteString(BuildDate)
		}
		sb.WriteString(")")
	} else if BuildDate != "" {
		sb.WriteString(" (built ")
		sb.WriteString(BuildDate)
		sb.WriteString(")")
	}
	return sb.String()
}
