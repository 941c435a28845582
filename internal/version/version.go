package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the treant CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders v with its major, minor and patch numbers in distinct
// colors. The pre-release suffix stays plain. Without colors, or when v is
// not "X.Y.Z[-suffix]", v is returned unchanged.
func Colored(v string, enabled bool) string {
	if !enabled {
		return v
	}
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	out := sprint(majorColor, parts[0]) + "." + sprint(minorColor, parts[1]) + "." + sprint(patchColor, parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

func sprint(c *color.Color, s string) string {
	c.EnableColor()
	return c.Sprint(s)
}

// Line is the one-line summary printed by `treant version`.
func Line(colored bool) string {
	var sb strings.Builder
	sb.WriteString("treant ")
	sb.WriteString(Colored(Version, colored))
	var extra []string
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		extra = append(extra, "commit "+commit)
	}
	if BuildDate != "" {
		extra = append(extra, "built "+BuildDate)
	}
	if len(extra) > 0 {
		sb.WriteString(" (" + strings.Join(extra, ", ") + ")")
	}
	return sb.String()
}
