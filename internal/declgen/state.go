package declgen

import (
	"treant/internal/ir"
	"treant/internal/strategy"
)

// State is the position of one class in the phase 1 state machine.
type State uint8

const (
	StateUnannotated State = iota
	StateNeedsHolder
	StateHolderResolved
	StateFieldDeclared
	// StateFieldOmitted means the logger type is not on the classpath.
	StateFieldOmitted
	// StateConflicting means the class carries several markers.
	StateConflicting
	// StateNameClash means the holder already has a member with the
	// field name that phase 1 did not create.
	StateNameClash
	// StateUnsupported means the class cannot host a companion object.
	StateUnsupported
)

func (s State) String() string {
	switch s {
	case StateUnannotated:
		return "unannotated"
	case StateNeedsHolder:
		return "needs_holder"
	case StateHolderResolved:
		return "holder_resolved"
	case StateFieldDeclared:
		return "field_declared"
	case StateFieldOmitted:
		return "field_omitted"
	case StateConflicting:
		return "conflicting"
	case StateNameClash:
		return "name_clash"
	case StateUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// HolderKind tells whether the companion was written by the user or created
// by the synthesizer.
type HolderKind uint8

const (
	HolderNone HolderKind = iota
	HolderReused
	HolderSynthesized
)

func (k HolderKind) String() string {
	switch k {
	case HolderReused:
		return "reused"
	case HolderSynthesized:
		return "synthesized"
	}
	return "none"
}

// Holder is the companion hosting a logger field. Constructor is set only
// for HolderSynthesized.
type Holder struct {
	Kind        HolderKind
	Class       ir.DeclID
	Constructor ir.DeclID
}

// Reused wraps a user-authored companion.
func Reused(class ir.DeclID) Holder {
	return Holder{Kind: HolderReused, Class: class}
}

// Synthesized wraps a generated companion and its constructor.
func Synthesized(class, ctor ir.DeclID) Holder {
	return Holder{Kind: HolderSynthesized, Class: class, Constructor: ctor}
}

func (h Holder) IsValid() bool { return h.Kind != HolderNone && h.Class.IsValid() }

// Outcome is what phase 1 did for one annotated class.
type Outcome struct {
	Class    ir.DeclID
	ClassID  ir.ClassID
	Strategy *strategy.Descriptor
	State    State
	Holder   Holder
	// Field is the logger field; valid for StateFieldDeclared.
	Field ir.DeclID
	// Existing is set when Field was found instead of being declared.
	Existing bool
}

// Result collects the outcomes of one phase 1 run in declaration order.
type Result struct {
	Outcomes []Outcome
}

// Count returns how many outcomes ended in state s.
func (r Result) Count(s State) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == s {
			n++
		}
	}
	return n
}

// Declared returns the fields that phase 1 declared during this run.
func (r Result) Declared() []ir.DeclID {
	var out []ir.DeclID
	for _, o := range r.Outcomes {
		if o.State == StateFieldDeclared && !o.Existing {
			out = append(out, o.Field)
		}
	}
	return out
}
