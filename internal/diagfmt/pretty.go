package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"treant/internal/diag"
)

type palette struct {
	err, warn, info, code, loc, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		code: color.New(color.Faint),
		loc:  color.New(color.Bold),
		note: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.loc, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Visible returns the diagnostics Pretty would print, in bag order.
func Visible(bag *diag.Bag, verbose bool) []diag.Diagnostic {
	if bag == nil {
		return nil
	}
	out := make([]diag.Diagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		if d.Severity == diag.SevInfo && !verbose && d.Code != diag.ObsTimings {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Pretty prints the visible diagnostics of bag in bag order (sort first),
// one per line:
//
//	<module>: <subject>  <SEV> <ID>: <message>
//
// Locations are padded to a common width so messages line up; notes follow
// indented.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	items := Visible(bag, opts.Verbose)
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	p := newPalette(opts.Color)

	locs := make([]string, len(items))
	widest := 0
	for i, d := range items {
		locs[i] = location(d)
		widest = max(widest, runewidth.StringWidth(locs[i]))
	}

	var sb strings.Builder
	for i, d := range items {
		loc := runewidth.FillRight(locs[i], widest)
		msg := truncate(d.Message, opts.Width)
		fmt.Fprintf(&sb, "%s  %s %s: %s\n",
			p.loc.Sprint(loc),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			msg)
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			prefix := "note"
			if n.Subject != "" {
				prefix = "note: " + n.Subject
			}
			fmt.Fprintf(&sb, "    %s: %s\n", p.note.Sprint(prefix), truncate(n.Msg, opts.Width))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Summary renders "2 errors, 1 warning" style counts of the visible diagnostics.
func Summary(bag *diag.Bag, verbose bool) string {
	var errs, warns, infos int
	for _, d := range Visible(bag, verbose) {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	parts := []string{plural(errs, "error"), plural(warns, "warning")}
	if verbose {
		parts = append(parts, plural(infos, "info"))
	}
	return strings.Join(parts, ", ")
}

func location(d diag.Diagnostic) string {
	switch {
	case d.Module != "" && d.Subject != "":
		return d.Module + ": " + d.Subject
	case d.Module != "":
		return d.Module
	case d.Subject != "":
		return d.Subject
	}
	return "treant"
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
