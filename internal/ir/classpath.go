package ir

import (
	"fmt"
	"slices"
)

// Classpath is the dependency graph visible to a compilation: the external
// classes and their callable signatures. It is filled once at load time and
// must be treated as read-only afterwards.
type Classpath struct {
	decls     *Decls
	byID      map[ClassID]DeclID
	artifacts map[ClassID]string
	order     []ClassID
}

// NewClasspath creates an empty classpath.
func NewClasspath() *Classpath {
	return &Classpath{
		decls:     NewDecls(0),
		byID:      make(map[ClassID]DeclID),
		artifacts: make(map[ClassID]string),
	}
}

// AddClass registers an external class provided by artifact.
func (c *Classpath) AddClass(artifact string, id ClassID, kind ClassKind) (DeclID, error) {
	if !id.IsValid() {
		return NoDeclID, fmt.Errorf("classpath: invalid class id %q", id)
	}
	if _, dup := c.byID[id]; dup {
		return NoDeclID, fmt.Errorf("classpath: class %s provided twice", id)
	}
	decl := c.decls.New(&Decl{
		Kind:   DeclClass,
		Name:   id.ShortName(),
		Origin: OriginLibrary,
		Class:  ClassData{ID: id, Kind: kind},
	})
	c.byID[id] = decl
	c.artifacts[id] = artifact
	c.order = append(c.order, id)
	return decl, nil
}

// AddFunction declares a public function on an external class.
func (c *Classpath) AddFunction(owner DeclID, name string, params []Param, returns ClassID) (DeclID, error) {
	cls := c.decls.Get(owner)
	if cls == nil || cls.Kind != DeclClass {
		return NoDeclID, fmt.Errorf("classpath: function %q has no class owner", name)
	}
	fn := c.decls.New(&Decl{
		Kind:   DeclFunction,
		Name:   name,
		Parent: owner,
		Origin: OriginLibrary,
		Func:   FuncData{Params: slices.Clone(params), Returns: returns},
	})
	cls = c.decls.Get(owner)
	cls.Class.Members = append(cls.Class.Members, fn)
	return fn, nil
}

// Resolve looks a class up by ID.
func (c *Classpath) Resolve(id ClassID) (DeclID, bool) {
	decl, ok := c.byID[id]
	return decl, ok
}

// Has reports whether the class is on the classpath.
func (c *Classpath) Has(id ClassID) bool {
	_, ok := c.byID[id]
	return ok
}

// Get returns a classpath declaration or nil.
func (c *Classpath) Get(id DeclID) *Decl { return c.decls.Get(id) }

// Functions lists the functions of owner called name in declaration order.
// An empty name lists every function.
func (c *Classpath) Functions(owner DeclID, name string) []DeclID {
	cls := c.decls.Get(owner)
	if cls == nil || cls.Kind != DeclClass {
		return nil
	}
	var out []DeclID
	for _, member := range cls.Class.Members {
		fn := c.decls.Get(member)
		if fn.Kind != DeclFunction {
			continue
		}
		if name != "" && fn.Name != name {
			continue
		}
		out = append(out, member)
	}
	return out
}

// Artifact returns the artifact coordinate that provides the class.
func (c *Classpath) Artifact(id ClassID) string { return c.artifacts[id] }

// Classes lists the registered classes in registration order.
func (c *Classpath) Classes() []ClassID { return slices.Clone(c.order) }
