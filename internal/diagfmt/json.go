package diagfmt

import (
	"encoding/json"
	"io"

	"treant/internal/diag"
)

type NoteJSON struct {
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// DiagnosticJSON is one diagnostic as printed by --format=json.
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Module   string     `json:"module,omitempty"`
	Subject  string     `json:"subject,omitempty"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// DiagnosticsOutput is the document root. Count is the number of printed
// diagnostics; the per-severity tallies cover the whole bag.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Infos       int              `json:"infos"`
	Truncated   bool             `json:"truncated,omitempty"`
}

func toJSON(d *diag.Diagnostic, withNotes bool) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Module:   d.Module,
		Subject:  d.Subject,
	}
	if withNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Subject: n.Subject, Message: n.Msg})
		}
	}
	return out
}

// BuildDiagnosticsOutput converts bag without encoding it. All severities
// are kept; notes of timing diagnostics are kept even without IncludeNotes.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	for i := range items {
		d := &items[i]
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		default:
			out.Infos++
		}
		if opts.Max > 0 && len(out.Diagnostics) == opts.Max {
			out.Truncated = true
			continue
		}
		out.Diagnostics = append(out.Diagnostics, toJSON(d, opts.IncludeNotes || d.Code == diag.ObsTimings))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, opts))
}
