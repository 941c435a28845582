package driver

import (
	"errors"
	"fmt"
	"os"

	"treant/internal/diag"
	"treant/internal/project"
	"treant/internal/strategy"
)

// ErrNoManifest is returned when no manifest is found above the start directory.
var ErrNoManifest = errors.New("no treant manifest found")

// LoadResult is a loaded project together with what loading reported.
type LoadResult struct {
	Program *project.Program
	Bag     *diag.Bag
}

// ResolveManifest returns path unchanged when set, or searches upwards from
// the working directory.
func ResolveManifest(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("manifest: %w", err)
		}
		return path, nil
	}
	found, ok, err := project.FindManifest(".")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w (looked for %v)", ErrNoManifest, project.ManifestNames)
	}
	return found, nil
}

// LoadProject reads the manifest at path and declares its modules. Errors
// found while declaring are in the returned bag; the error is non-nil when
// the manifest cannot be read or the project is invalid.
func LoadProject(path string, reg *strategy.Registry, maxDiagnostics int, sink ProgressSink) (LoadResult, error) {
	if reg == nil {
		reg = strategy.Default()
	}
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	res := LoadResult{Bag: diag.NewBag(maxDiagnostics)}
	emit(sink, Event{Stage: StageLoad, Status: StatusWorking})

	m, err := project.Load(path)
	if err != nil {
		emit(sink, Event{Stage: StageLoad, Status: StatusError, Err: err})
		return res, err
	}
	prog, err := project.Build(m, reg, diag.BagReporter{Bag: res.Bag})
	res.Program = prog
	if err != nil {
		emit(sink, Event{Stage: StageLoad, Status: StatusError, Err: err})
		return res, err
	}
	emit(sink, Event{Stage: StageLoad, Status: StatusDone})
	return res, nil
}
