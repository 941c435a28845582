package declgen

import (
	"context"
	"errors"
	"fmt"

	"treant/internal/diag"
	"treant/internal/ir"
	"treant/internal/origin"
	"treant/internal/predicate"
	"treant/internal/strategy"
	"treant/internal/trace"
)

const (
	// CompanionName is the name given to synthesized companion objects.
	CompanionName = "Companion"
	// ConstructorName is the name of constructor declarations.
	ConstructorName = "<init>"
)

// Synthesizer runs phase 1. It holds only read-only state and may be shared
// by goroutines processing different modules.
type Synthesizer struct {
	index *predicate.Index
	cp    *ir.Classpath
}

func New(index *predicate.Index, cp *ir.Classpath) *Synthesizer {
	return &Synthesizer{index: index, cp: cp}
}

// Run declares holders and logger fields for every annotated class of m.
// Declarations it creates are stamped in origins. Phase 1 never fails:
// problems are reported to r and the class is left alone.
func (s *Synthesizer) Run(ctx context.Context, m *ir.Module, origins *origin.Table, r diag.Reporter) Result {
	_, root := trace.Start(ctx, trace.ScopePass, "declgen")

	if r == nil {
		r = diag.NopReporter{}
	}
	matcher := s.index.Build(m)
	annotated := matcher.Annotated()
	res := Result{Outcomes: make([]Outcome, 0, len(annotated))}
	for _, cls := range annotated {
		span := root.Child(trace.ScopeNode, "declare_logger")
		out := s.process(m, matcher, origins, r, cls)
		span.WithExtra("class", out.ClassID.FqName().String()).
			WithExtra("holder", out.Holder.Kind.String()).
			End(out.State.String())
		res.Outcomes = append(res.Outcomes, out)
	}

	root.End(fmt.Sprintf("%d annotated, %d declared", len(annotated), len(res.Declared())))
	return res
}

func (s *Synthesizer) process(m *ir.Module, matcher *predicate.Matcher, origins *origin.Table, r diag.Reporter, cls ir.DeclID) Outcome {
	d := m.Get(cls)
	out := Outcome{Class: cls, ClassID: d.Class.ID, State: StateUnannotated}
	subject := out.ClassID.FqName().String()

	desc, err := matcher.Match(cls)
	if err != nil {
		out.State = StateConflicting
		b := diag.ReportError(r, diag.DeclConflictingMarkers, m.Name, subject, err.Error())
		var conflict *predicate.ConflictError
		if errors.As(err, &conflict) {
			for _, cd := range conflict.Strategies {
				b.WithNote(cd.Marker.FqName().String(), fmt.Sprintf("%s selects the %s strategy", cd.MarkerName(), cd.Tag))
			}
		}
		b.Emit()
		return out
	}
	if desc == nil {
		return out
	}
	out.Strategy = desc
	out.State = StateNeedsHolder

	if !canHostCompanion(d) {
		out.State = StateUnsupported
		diag.ReportWarning(r, diag.DeclUnsupportedKind, m.Name, subject,
			fmt.Sprintf("%s cannot be applied to %s %s", desc.MarkerName(), d.Class.Kind, d.Name)).Emit()
		return out
	}

	holder, err := s.ResolveHolder(m, origins, cls, desc)
	if err != nil {
		out.State = StateNameClash
		diag.ReportWarning(r, diag.DeclHolderNameClash, m.Name, subject,
			fmt.Sprintf("%s: %v; logger field is not generated", desc.MarkerName(), err)).Emit()
		return out
	}
	out.Holder = holder
	out.State = StateHolderResolved

	field, state, existing := s.DeclareField(m, origins, holder, desc)
	out.Field, out.State, out.Existing = field, state, existing
	switch state {
	case StateFieldOmitted:
		diag.ReportInfo(r, diag.DeclMissingLoggerType, m.Name, subject,
			fmt.Sprintf("%s: logger type %s is not on the classpath; field %q is not generated",
				desc.MarkerName(), desc.LoggerType.FqName(), desc.FieldName)).
			WithNote("", desc.MissingDependency).
			Emit()
	case StateNameClash:
		comp := m.Get(holder.Class)
		diag.ReportWarning(r, diag.DeclHolderNameClash, m.Name, subject,
			fmt.Sprintf("%s: %s already declares %q; logger field is not generated",
				desc.MarkerName(), comp.Class.ID.FqName(), desc.FieldName)).Emit()
	}
	return out
}

func canHostCompanion(d *ir.Decl) bool {
	if d.Class.Companion {
		return false
	}
	switch d.Class.Kind {
	case ir.ClassRegular, ir.ClassInterface:
		return true
	}
	return false
}

// ResolveHolder returns the companion of cls, creating it together with a
// private constructor when the class has none. A user-written companion is
// returned as is; nothing inside it is touched.
func (s *Synthesizer) ResolveHolder(m *ir.Module, origins *origin.Table, cls ir.DeclID, desc *strategy.Descriptor) (Holder, error) {
	if comp, ok := m.Companion(cls); ok {
		tag, stamped := origins.Lookup(comp)
		switch {
		case stamped && tag == desc.Tag:
			return Synthesized(comp, stampedConstructor(m, origins, comp, desc.Tag)), nil
		case !stamped && m.Get(comp).Origin == ir.OriginGenerated:
			// generated by an earlier run whose origin table is gone
			ctor := generatedConstructor(m, comp)
			origins.Stamp(comp, desc.Tag)
			origins.Stamp(ctor, desc.Tag)
			return Synthesized(comp, ctor), nil
		}
		return Reused(comp), nil
	}

	owner := m.Get(cls)
	compID := owner.Class.ID.Nested(CompanionName)
	comp, err := m.AddClass(cls, ir.ClassData{
		ID:        compID,
		Kind:      ir.ClassObject,
		Companion: true,
	}, ir.Public, ir.OriginGenerated)
	if err != nil {
		return Holder{}, fmt.Errorf("cannot declare companion %s: %w", compID.FqName(), err)
	}
	ctor, err := m.AddMember(comp, ir.Decl{
		Kind:       ir.DeclConstructor,
		Name:       ConstructorName,
		Visibility: ir.Private,
		Origin:     ir.OriginGenerated,
	})
	if err != nil {
		return Holder{}, fmt.Errorf("cannot declare constructor of %s: %w", compID.FqName(), err)
	}
	origins.Stamp(comp, desc.Tag)
	origins.Stamp(ctor, desc.Tag)
	return Synthesized(comp, ctor), nil
}

func generatedConstructor(m *ir.Module, comp ir.DeclID) ir.DeclID {
	for _, member := range m.Members(comp) {
		d := m.Get(member)
		if d.Kind == ir.DeclConstructor && d.Origin == ir.OriginGenerated && d.Visibility == ir.Private {
			return member
		}
	}
	return ir.NoDeclID
}

func stampedConstructor(m *ir.Module, origins *origin.Table, comp ir.DeclID, tag strategy.Tag) ir.DeclID {
	for _, member := range m.Members(comp) {
		if m.Get(member).Kind != ir.DeclConstructor {
			continue
		}
		if got, ok := origins.Lookup(member); ok && got == tag {
			return member
		}
	}
	return ir.NoDeclID
}

// DeclareField declares `private val <FieldName>: <LoggerType>` in the
// holder, without an initializer. It returns StateFieldOmitted when the
// logger type does not resolve and StateNameClash when the holder already
// has an unrelated member with that name. A field stamped with desc.Tag is
// returned with existing set instead of being declared twice; so is an
// unstamped generated field matching the strategy, which is stamped again.
func (s *Synthesizer) DeclareField(m *ir.Module, origins *origin.Table, holder Holder, desc *strategy.Descriptor) (field ir.DeclID, state State, existing bool) {
	if id, ok := m.MemberNamed(holder.Class, desc.FieldName); ok {
		if prev := m.Get(id); prev.Kind == ir.DeclField {
			tag, stamped := origins.Lookup(id)
			if stamped && tag == desc.Tag {
				return id, StateFieldDeclared, true
			}
			if !stamped && ownField(prev, desc) {
				origins.Stamp(id, desc.Tag)
				return id, StateFieldDeclared, true
			}
		}
		return ir.NoDeclID, StateNameClash, false
	}
	if !s.cp.Has(desc.LoggerType) {
		return ir.NoDeclID, StateFieldOmitted, false
	}
	id, err := m.AddMember(holder.Class, ir.Decl{
		Kind:       ir.DeclField,
		Name:       desc.FieldName,
		Visibility: ir.Private,
		Origin:     ir.OriginGenerated,
		Field:      ir.FieldData{Type: desc.LoggerType},
	})
	if err != nil {
		// holder is always a class declared in m
		panic(fmt.Sprintf("declgen: %v", err))
	}
	origins.Stamp(id, desc.Tag)
	return id, StateFieldDeclared, false
}

// ownField reports whether d looks exactly like a field DeclareField
// declares for desc.
func ownField(d *ir.Decl, desc *strategy.Descriptor) bool {
	return d.Origin == ir.OriginGenerated &&
		d.Visibility == ir.Private &&
		!d.Field.Mutable &&
		!d.Field.Const &&
		d.Field.Type == desc.LoggerType
}
