package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatShortDiagnostics renders diagnostics into a stable,
// single-line-per-entry representation used by golden tests and the CLI
// short output:
//
//	<module>: <subject>: <SEV> <ID>: <message>
func FormatShortDiagnostics(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i], sorted[j]
		if di.Module != dj.Module {
			return di.Module < dj.Module
		}
		if di.Subject != dj.Subject {
			return di.Subject < dj.Subject
		}
		return di.Code < dj.Code
	})

	var sb strings.Builder
	for _, d := range sorted {
		fmt.Fprintf(&sb, "%s: %s: %s %s: %s\n", orDash(d.Module), orDash(d.Subject), d.Severity, d.Code.ID(), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  note: %s: %s\n", orDash(n.Subject), n.Msg)
		}
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
