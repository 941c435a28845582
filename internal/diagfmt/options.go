package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Width truncates messages to this many terminal columns, 0 means no limit.
	Width     int
	ShowNotes bool
	// Verbose also prints info diagnostics; timings are always printed.
	Verbose bool
	Max     int // printed diagnostics, not bag capacity
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // printed diagnostics, not bag capacity
	IncludeNotes bool
}
