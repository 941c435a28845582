// Package driver runs logger declaration generation over whole modules:
// phase 1 (declgen) to completion, then phase 2 (initgen), one unit at a
// time or many units in parallel.
package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"treant/internal/declgen"
	"treant/internal/diag"
	"treant/internal/initgen"
	"treant/internal/ir"
	"treant/internal/observ"
	"treant/internal/origin"
	"treant/internal/predicate"
	"treant/internal/strategy"
	"treant/internal/trace"
)

// DefaultMaxDiagnostics is the per-unit bag limit used when Options leaves it unset.
const DefaultMaxDiagnostics = 100

// Options configures an Engine.
type Options struct {
	// Registry defaults to strategy.Default().
	Registry *strategy.Registry
	// Classpath is shared read-only by all units.
	Classpath      *ir.Classpath
	MaxDiagnostics int
	// Jobs limits parallel units in RunAll; <= 0 uses GOMAXPROCS.
	Jobs int
	// Timings adds an OBS6001 diagnostic to every unit.
	Timings bool
	// Timer, when set, collects phase durations of every unit.
	Timer    *observ.Timer
	Progress ProgressSink
}

// Engine owns the two synthesizers. It holds no per-module state, so one
// Engine may run many units concurrently.
type Engine struct {
	opts Options
	decl *declgen.Synthesizer
	init *initgen.Synthesizer
}

func New(opts Options) *Engine {
	if opts.Registry == nil {
		opts.Registry = strategy.Default()
	}
	if opts.Classpath == nil {
		opts.Classpath = ir.NewClasspath()
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = DefaultMaxDiagnostics
	}
	return &Engine{
		opts: opts,
		decl: declgen.New(predicate.NewIndex(opts.Registry), opts.Classpath),
		init: initgen.New(opts.Registry, opts.Classpath),
	}
}

// Registry returns the strategies the engine generates for.
func (e *Engine) Registry() *strategy.Registry { return e.opts.Registry }

// NewUnit wraps m with a fresh origin table and bag sized by the engine options.
func (e *Engine) NewUnit(m *ir.Module) *Unit {
	return &Unit{
		Module:  m,
		Origins: origin.NewTable(),
		Bag:     diag.NewBag(e.opts.MaxDiagnostics),
	}
}

// Run executes phase 1 over the whole unit and then phase 2. The returned
// error is the unit's fatal error (also stored in u.Err) or the context error.
// Running a unit twice leaves its module unchanged the second time.
func (e *Engine) Run(ctx context.Context, u *Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, span := trace.Start(trace.WithModule(ctx, u.Module.Name), trace.ScopeModule, "unit")

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: u.Bag})
	timer := observ.NewTimer()
	name := u.Module.Name

	emit(e.opts.Progress, Event{Module: name, Stage: StageDeclare, Status: StatusWorking})
	watch := timer.Start(string(StageDeclare), name)
	u.Decl = e.decl.Run(ctx, u.Module, u.Origins, reporter)
	took := watch.Stop(fmt.Sprintf("%d declared", len(u.Decl.Declared())))
	emit(e.opts.Progress, Event{Module: name, Stage: StageDeclare, Status: StatusDone, Elapsed: took})

	emit(e.opts.Progress, Event{Module: name, Stage: StageInitialize, Status: StatusWorking})
	watch = timer.Start(string(StageInitialize), name)
	u.Init, u.Err = e.init.Run(ctx, u.Module, u.Origins, reporter)
	took = watch.Stop(fmt.Sprintf("%d initialized", len(u.Init.Initialized)))
	if u.Err != nil {
		trace.Point(ctx, trace.ScopeModule, "fatal_abort", u.Err.Error())
		emit(e.opts.Progress, Event{Module: name, Stage: StageInitialize, Status: StatusError, Err: u.Err, Elapsed: took})
	} else {
		emit(e.opts.Progress, Event{Module: name, Stage: StageInitialize, Status: StatusDone, Elapsed: took})
	}

	u.Timings = timer.Report()
	if e.opts.Timings {
		appendTimingDiagnostic(u.Bag, timingPayload{
			Module:  name,
			TotalMS: u.Timings.TotalMS,
			Phases:  u.Timings.Phases,
		})
	}
	if e.opts.Timer != nil {
		for _, p := range u.Timings.Phases {
			e.opts.Timer.Record(observ.Sample{
				Phase:  p.Name,
				Module: name,
				Took:   time.Duration(p.DurationMS * float64(time.Millisecond)),
				Note:   p.Note,
			})
		}
	}

	if u.Err != nil {
		span.End("aborted")
	} else {
		span.End(fmt.Sprintf("%d fields", len(u.Init.Initialized)))
	}
	return u.Err
}

// RunAll runs every module as its own unit, at most Jobs at a time. A fatal
// error aborts only its own unit; the returned error is non-nil only when ctx
// was cancelled. Units are returned in the order of modules.
func (e *Engine) RunAll(ctx context.Context, modules []*ir.Module) ([]*Unit, error) {
	units := make([]*Unit, len(modules))
	for i, m := range modules {
		units[i] = e.NewUnit(m)
		emit(e.opts.Progress, Event{Module: m.Name, Stage: StageDeclare, Status: StatusQueued})
	}
	if len(units) == 0 {
		return units, nil
	}

	ctx, root := trace.Start(ctx, trace.ScopeDriver, "run_all")
	root.WithExtra("modules", fmt.Sprintf("%d", len(units)))

	jobs := e.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))

	for _, u := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			err := e.Run(gctx, u)
			if _, fatal := diag.AsFatal(err); fatal {
				return nil
			}
			return err
		})
	}

	err := g.Wait()
	if err != nil {
		root.End(err.Error())
		return units, err
	}
	root.End(fmt.Sprintf("%d failed", countFailed(units)))
	return units, nil
}

func countFailed(units []*Unit) int {
	n := 0
	for _, u := range units {
		if u.Err != nil {
			n++
		}
	}
	return n
}
