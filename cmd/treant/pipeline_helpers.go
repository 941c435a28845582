package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"treant/internal/diag"
	"treant/internal/diagfmt"
	"treant/internal/driver"
	"treant/internal/observ"
	"treant/internal/strategy"
)

// errGenerationFailed is returned after diagnostics were printed, so main
// only has to set the exit status.
var errGenerationFailed = errors.New("generation failed")

type runRequest struct {
	manifest    string
	jobs        int
	ui          uiMode
	diagFormat  string
	showNotes   bool
	progressTag string
}

// session holds everything one project run produced.
type session struct {
	flags   globalFlags
	color   bool
	tracing *tracing
	timer   *observ.Timer
	loaded  driver.LoadResult
	units   []*driver.Unit
}

// runProject loads the manifest and runs both phases over every module.
// The returned cleanup must be called once output is written.
func runProject(cmd *cobra.Command, req runRequest) (*session, func(), error) {
	flags, err := readGlobalFlags(cmd)
	if err != nil {
		return nil, nil, err
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	tr, cleanup, err := setupTracing(cmd)
	if err != nil {
		return nil, nil, err
	}
	s := &session{flags: flags, color: color, tracing: tr, timer: observ.NewTimer()}

	path, err := driver.ResolveManifest(req.manifest)
	if err != nil {
		return s, cleanup, err
	}

	watch := s.timer.Start(string(driver.StageLoad), "")
	s.loaded, err = driver.LoadProject(path, strategy.Default(), flags.maxDiagnostics, nil)
	watch.Stop(path)
	if err != nil {
		if s.loaded.Bag != nil && s.loaded.Bag.Len() > 0 {
			_ = s.printDiagnostics(cmd, req)
		}
		return s, cleanup, err
	}

	opts := driver.Options{
		Classpath:      s.loaded.Program.Classpath,
		MaxDiagnostics: flags.maxDiagnostics,
		Jobs:           req.jobs,
		Timings:        flags.timings && req.diagFormat == "json",
		Timer:          s.timer,
	}
	modules := s.loaded.Program.Modules
	if shouldUseTUI(req.ui, len(modules)) && !flags.quiet {
		title := req.progressTag
		if title == "" {
			title = "treant " + s.loaded.Program.Name
		}
		s.units, err = runWithUI(cmd.Context(), title, opts, modules)
	} else {
		s.units, err = driver.New(opts).RunAll(cmd.Context(), modules)
	}
	return s, cleanup, err
}

// bag merges the load diagnostics with those of every unit.
func (s *session) bag() *diag.Bag {
	all := diag.NewBag(s.flags.maxDiagnostics)
	if s.loaded.Bag != nil {
		all.Merge(s.loaded.Bag)
	}
	for _, u := range s.units {
		all.Merge(u.Bag)
	}
	all.Sort()
	all.Dedup()
	return all
}

func (s *session) failed() bool {
	for _, u := range s.units {
		if u.Failed() {
			return true
		}
	}
	return s.loaded.Bag != nil && s.loaded.Bag.HasErrors()
}

func (s *session) fatal() bool {
	for _, u := range s.units {
		if _, ok := u.Fatal(); ok {
			return true
		}
	}
	return false
}

// printDiagnostics writes diagnostics to stderr (pretty) or stdout (json),
// dumps the trace ring after a fatal error and prints timings when asked.
func (s *session) printDiagnostics(cmd *cobra.Command, req runRequest) error {
	bag := s.bag()
	errOut := cmd.ErrOrStderr()

	switch strings.ToLower(req.diagFormat) {
	case "json":
		if err := diagfmt.JSON(cmd.OutOrStdout(), bag, diagfmt.JSONOpts{IncludeNotes: req.showNotes}); err != nil {
			return err
		}
	default:
		if err := diagfmt.Pretty(errOut, bag, diagfmt.PrettyOpts{
			Color:     s.color,
			ShowNotes: req.showNotes || s.flags.verbose,
			Verbose:   s.flags.verbose,
		}); err != nil {
			return err
		}
		if !s.flags.quiet && len(diagfmt.Visible(bag, s.flags.verbose)) > 0 {
			fmt.Fprintln(errOut, diagfmt.Summary(bag, s.flags.verbose))
		}
		if s.flags.timings {
			fmt.Fprint(errOut, s.timer.Summary())
		}
	}

	if s.fatal() {
		s.tracing.dumpRing(errOut)
	}
	return nil
}
