// Package declgen is the first generation phase.
//
// For every class carrying exactly one logger marker it makes sure the class
// has a companion object and declares the logger field inside it. Nothing
// here builds initializers: the field is left without a value and stamped
// with the strategy tag so that package initgen can find it later.
//
// Per class the synthesizer moves through
//
//	Unannotated -> NeedsHolder -> HolderResolved -> FieldDeclared
//
// with FieldOmitted, Conflicting, NameClash and Unsupported as the other
// terminal states.
package declgen
