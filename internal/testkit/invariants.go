package testkit

import (
	"fmt"

	"treant/internal/ir"
	"treant/internal/origin"
	"treant/internal/strategy"
)

// CheckGeneratedInvariants verifies the shape of everything phase 1 stamped:
// 1) every stamped field is a private val inside a companion object
// 2) the companion's enclosing class carries the marker of the field's tag
// 3) an annotated class hosts at most one stamped field
// 4) a stamped companion has exactly one constructor, private and stamped
func CheckGeneratedInvariants(m *ir.Module, origins *origin.Table, reg *strategy.Registry) error {
	if m == nil || origins == nil || reg == nil {
		return fmt.Errorf("nil module, origin table or registry")
	}
	perClass := make(map[ir.DeclID]int)
	for _, id := range origins.Stamped() {
		d := m.Get(id)
		if d == nil {
			return fmt.Errorf("stamped declaration %d not found", id)
		}
		tag, _ := origins.Lookup(id)
		desc, ok := reg.ByTag(tag)
		if !ok {
			return fmt.Errorf("%s %q stamped with unknown tag %s", d.Kind, d.Name, tag)
		}
		switch d.Kind {
		case ir.DeclField:
			owner, err := checkField(m, id, d, desc)
			if err != nil {
				return err
			}
			perClass[owner]++
			if perClass[owner] > 1 {
				return fmt.Errorf("%s hosts more than one logger field", m.Get(owner).Class.ID.FqName())
			}
		case ir.DeclClass:
			if err := checkCompanion(m, origins, id, d, tag); err != nil {
				return err
			}
		case ir.DeclConstructor:
			if d.Visibility != ir.Private {
				return fmt.Errorf("generated constructor of %d is %s", d.Parent, d.Visibility)
			}
		default:
			return fmt.Errorf("unexpected stamped %s %q", d.Kind, d.Name)
		}
	}
	return nil
}

func checkField(m *ir.Module, id ir.DeclID, d *ir.Decl, desc *strategy.Descriptor) (ir.DeclID, error) {
	if d.Visibility != ir.Private || d.Field.Mutable || d.Field.Const {
		return ir.NoDeclID, fmt.Errorf("field %d %q is not a private val", id, d.Name)
	}
	if d.Name != desc.FieldName || d.Field.Type != desc.LoggerType {
		return ir.NoDeclID, fmt.Errorf("field %d is %q: %s, want %q: %s", id, d.Name, d.Field.Type, desc.FieldName, desc.LoggerType)
	}
	holder := m.Get(d.Parent)
	if !holder.IsCompanion() {
		return ir.NoDeclID, fmt.Errorf("field %d %q is not inside a companion object", id, d.Name)
	}
	owner := m.Get(holder.Parent)
	if owner == nil || owner.Kind != ir.DeclClass {
		return ir.NoDeclID, fmt.Errorf("companion %s has no enclosing class", holder.Class.ID)
	}
	marked := false
	for _, ann := range owner.Class.Annotations {
		if ann == desc.Marker {
			marked = true
			break
		}
	}
	if !marked {
		return ir.NoDeclID, fmt.Errorf("%s hosts a %s field without %s", owner.Class.ID.FqName(), desc.Tag, desc.MarkerName())
	}
	return holder.Parent, nil
}

func checkCompanion(m *ir.Module, origins *origin.Table, id ir.DeclID, d *ir.Decl, tag strategy.Tag) error {
	if !d.IsCompanion() {
		return fmt.Errorf("stamped class %s is not a companion object", d.Class.ID)
	}
	ctors := 0
	for _, member := range m.Members(id) {
		md := m.Get(member)
		if md.Kind != ir.DeclConstructor {
			continue
		}
		ctors++
		if got, ok := origins.Lookup(member); !ok || got != tag {
			return fmt.Errorf("constructor of %s is not stamped with %s", d.Class.ID, tag)
		}
	}
	if ctors != 1 {
		return fmt.Errorf("companion %s has %d constructors, want 1", d.Class.ID, ctors)
	}
	return nil
}
