// Package trace records what the generation pipeline did and how long it
// took.
//
// # Usage
//
//	treant gen --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes text or NDJSON lines as events arrive
//   - LogTracer: writes structured zerolog records
//   - RingTracer: keeps the last events in memory, dumped when a module fails
//   - MultiTracer: fans out to several tracers
//
// File outputs are rotated through lumberjack, so a trace left on for a
// long watch session does not grow without bound.
//
// # Levels and scopes
//
//	LevelPhase   driver and pass boundaries (declgen, initgen)
//	LevelDetail  plus per-module events
//	LevelDebug   plus per-declaration events
//
// # Context propagation
//
//	ctx = trace.WithModule(trace.WithTracer(ctx, tracer), "app")
//	ctx, span := trace.Start(ctx, trace.ScopePass, "declgen")
//	defer span.End("")
//
// Spans started from the returned context nest under span; per-declaration
// work uses span.Child to avoid allocating a context per class.
package trace
