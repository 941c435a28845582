package ir

import (
	"fmt"
	"slices"
)

// Module is the declared program tree of one compilation unit.
type Module struct {
	Name  string
	decls *Decls
	roots []DeclID
	index map[ClassID]DeclID
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:  name,
		decls: NewDecls(0),
		index: make(map[ClassID]DeclID),
	}
}

// Get returns the declaration or nil. The pointer is invalidated by the next
// declaration added to the module.
func (m *Module) Get(id DeclID) *Decl { return m.decls.Get(id) }

// Len reports the number of declarations in the module.
func (m *Module) Len() int { return m.decls.Len() }

// Roots returns the top-level classes in declaration order.
func (m *Module) Roots() []DeclID { return slices.Clone(m.roots) }

// Lookup finds a class declared in this module.
func (m *Module) Lookup(id ClassID) (DeclID, bool) {
	decl, ok := m.index[id]
	return decl, ok
}

// AddClass declares a class. A valid parent makes it a nested class of
// parent; otherwise it becomes a top-level class.
func (m *Module) AddClass(parent DeclID, data ClassData, vis Visibility, origin Origin) (DeclID, error) {
	if !data.ID.IsValid() {
		return NoDeclID, fmt.Errorf("module %s: invalid class id %q", m.Name, data.ID)
	}
	if _, dup := m.index[data.ID]; dup {
		return NoDeclID, fmt.Errorf("module %s: duplicate class %s", m.Name, data.ID)
	}
	if parent.IsValid() {
		owner := m.decls.Get(parent)
		if owner == nil || owner.Kind != DeclClass {
			return NoDeclID, fmt.Errorf("module %s: parent of %s is not a class", m.Name, data.ID)
		}
	}
	data.Members = nil
	id := m.decls.New(&Decl{
		Kind:       DeclClass,
		Name:       data.ID.ShortName(),
		Parent:     parent,
		Visibility: vis,
		Origin:     origin,
		Class:      data,
	})
	m.index[data.ID] = id
	if parent.IsValid() {
		owner := m.decls.Get(parent)
		owner.Class.Members = append(owner.Class.Members, id)
	} else {
		m.roots = append(m.roots, id)
	}
	return id, nil
}

// AddMember declares a field, function or constructor inside owner.
func (m *Module) AddMember(owner DeclID, d Decl) (DeclID, error) {
	cls := m.decls.Get(owner)
	if cls == nil || cls.Kind != DeclClass {
		return NoDeclID, fmt.Errorf("module %s: member %q has no class owner", m.Name, d.Name)
	}
	if d.Kind == DeclClass || d.Kind == DeclInvalid {
		return NoDeclID, fmt.Errorf("module %s: %s cannot be added as a member", m.Name, d.Kind)
	}
	d.Parent = owner
	id := m.decls.New(&d)
	cls = m.decls.Get(owner)
	cls.Class.Members = append(cls.Class.Members, id)
	return id, nil
}

// Members returns a copy of a class' member list.
func (m *Module) Members(cls DeclID) []DeclID {
	d := m.decls.Get(cls)
	if d == nil || d.Kind != DeclClass {
		return nil
	}
	return slices.Clone(d.Class.Members)
}

// Companion returns the companion object nested in cls.
func (m *Module) Companion(cls DeclID) (DeclID, bool) {
	for _, member := range m.Members(cls) {
		if m.decls.Get(member).IsCompanion() {
			return member, true
		}
	}
	return NoDeclID, false
}

// MemberNamed returns the first non-class member of cls called name.
func (m *Module) MemberNamed(cls DeclID, name string) (DeclID, bool) {
	for _, member := range m.Members(cls) {
		d := m.decls.Get(member)
		if d.Kind != DeclClass && d.Name == name {
			return member, true
		}
	}
	return NoDeclID, false
}

// Walk visits every declaration in pre-order, following declaration order.
// Returning false from fn skips the children of that declaration.
// fn must not add declarations to the module.
func (m *Module) Walk(fn func(id DeclID, d *Decl) bool) {
	var visit func(id DeclID)
	visit = func(id DeclID) {
		d := m.decls.Get(id)
		if d == nil {
			return
		}
		if !fn(id, d) || d.Kind != DeclClass {
			return
		}
		for _, member := range d.Class.Members {
			visit(member)
		}
	}
	for _, root := range m.roots {
		visit(root)
	}
}

// Classes returns every class declaration in pre-order.
func (m *Module) Classes() []DeclID {
	var out []DeclID
	m.Walk(func(id DeclID, d *Decl) bool {
		if d.Kind == DeclClass {
			out = append(out, id)
		}
		return true
	})
	return out
}
