package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"treant/internal/trace"
)

// tracing is the tracer attached to the command context.
type tracing struct {
	tracer trace.Tracer
	format trace.Format
}

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (*tracing, func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}

	// --trace without a level means phase tracing
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return &tracing{tracer: trace.Nop}, func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, err
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	if format == trace.FormatAuto {
		format = trace.DetectFormat(traceOutput)
	}
	return &tracing{tracer: tracer, format: format}, cleanup, nil
}

// dumpRing writes the buffered trace events, if the tracer keeps any.
func (t *tracing) dumpRing(w io.Writer) {
	if t == nil {
		return
	}
	var ring *trace.RingTracer
	switch tr := t.tracer.(type) {
	case *trace.RingTracer:
		ring = tr
	case *trace.MultiTracer:
		ring, _ = tr.Ring()
	}
	if ring == nil {
		return
	}
	if dropped := ring.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "trace: last events before abort (%d older dropped):\n", dropped)
	} else {
		fmt.Fprintln(w, "trace: last events before abort:")
	}
	if err := ring.Dump(w, t.format); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
