// Package observ measures how long the generation phases take.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Sample is one measured run of a phase, optionally attributed to a module.
type Sample struct {
	Phase  string
	Module string
	Took   time.Duration
	Note   string
}

// Timer collects samples. Modules generated in parallel may share one.
type Timer struct {
	mu      sync.Mutex
	samples []Sample
}

func NewTimer() *Timer { return &Timer{} }

// Stopwatch measures one sample; Stop records it.
type Stopwatch struct {
	timer   *Timer
	sample  Sample
	started time.Time
	stopped bool
}

// Start begins measuring phase for module ("" for run-wide work).
func (t *Timer) Start(phase, module string) *Stopwatch {
	return &Stopwatch{timer: t, sample: Sample{Phase: phase, Module: module}, started: time.Now()}
}

// Stop records the elapsed time with note. Only the first call counts.
func (w *Stopwatch) Stop(note string) time.Duration {
	if w.stopped {
		return w.sample.Took
	}
	w.stopped = true
	w.sample.Took = time.Since(w.started)
	w.sample.Note = note
	w.timer.Record(w.sample)
	return w.sample.Took
}

// Record adds a sample measured elsewhere.
func (t *Timer) Record(s Sample) {
	t.mu.Lock()
	t.samples = append(t.samples, s)
	t.mu.Unlock()
}

// PhaseReport is the serializable summary of every sample of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Slowest    string  `json:"slowest,omitempty"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report groups samples by phase in first-seen order. A phase keeps its note
// only when it ran once; Slowest names the module of its longest sample.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.samples) == 0 {
		return Report{}
	}
	var (
		r       Report
		total   time.Duration
		pos     = map[string]int{}
		longest = map[string]time.Duration{}
	)
	for _, s := range t.samples {
		total += s.Took
		i, seen := pos[s.Phase]
		if !seen {
			i = len(r.Phases)
			pos[s.Phase] = i
			r.Phases = append(r.Phases, PhaseReport{Name: s.Phase, Note: s.Note})
		}
		p := &r.Phases[i]
		p.DurationMS += millis(s.Took)
		p.Count++
		if p.Count > 1 {
			p.Note = ""
		}
		if s.Module != "" && (p.Slowest == "" || s.Took > longest[s.Phase]) {
			p.Slowest = s.Module
			longest[s.Phase] = s.Took
		}
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string { return t.Report().String() }

func (r Report) String() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %8.2f ms", p.Name, p.DurationMS)
		switch {
		case p.Count > 1 && p.Slowest != "":
			fmt.Fprintf(&b, "  %d runs, slowest %s", p.Count, p.Slowest)
		case p.Count > 1:
			fmt.Fprintf(&b, "  %d runs", p.Count)
		case p.Note != "":
			b.WriteString("  " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %8.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 { return d.Seconds() * 1000 }
