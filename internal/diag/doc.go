// Package diag defines the diagnostic model shared by both generation phases
// and by the project loader.
//
// # Purpose
//
//   - Provide deterministic data structures describing findings about a
//     module: a missing dependency, conflicting markers, a clash with a
//     user-declared member.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Model the one hard-failure surface of the engine (FatalError) as a
//     regular Go error that still carries the full Diagnostic.
//
// # Scope
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt; orchestration of per-module bags lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//   - Message – human oriented text; for missing dependencies it is the
//     strategy's own remediation text, verbatim.
//   - Module and Subject – where the issue was found: the module name and the
//     fully qualified name of the declaration.
//   - Notes – optional secondary messages.
//
// # Emitting diagnostics
//
// Phases report through a diag.Reporter, usually via the builder helpers:
//
//	diag.ReportWarning(r, diag.DeclHolderNameClash, mod, subject, msg).
//		WithNote(holder, "declared here").
//		Emit()
//
// BagReporter collects into a Bag, which supports sorting, deduplication and
// merging.
package diag
