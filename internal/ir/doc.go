// Package ir models the host program that the generation engine rewrites.
//
// # Purpose
//
// The engine needs two views of a compilation:
//
//   - the declared program tree of one module (classes, nested classes,
//     fields, functions and constructors) that phase 1 augments and phase 2
//     completes with initializer expressions;
//   - the dependency graph (Classpath) of external classes that may or may
//     not be available to the module.
//
// Both views share the same Decl record and are stored in compact
// slice-based arenas addressed by DeclID. IDs are arena-local: a DeclID taken
// from a Module must never be looked up in the Classpath and vice versa.
//
// # Names
//
// FqName is a dotted fully qualified name ("com.example.Service"). ClassID
// separates the package from the class-relative part, using the
// "package/Outer.Inner" textual form, so that nested classes can be navigated
// without guessing where the package ends.
//
// # Ownership
//
// A Module is owned by exactly one compilation unit and is never shared
// between goroutines. The Classpath is populated at load time and read-only
// afterwards, which makes it safe to share across concurrently processed
// modules.
package ir
