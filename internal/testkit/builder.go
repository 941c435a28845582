package testkit

import (
	"treant/internal/ir"
	"treant/internal/strategy"
	"treant/internal/stubs"
)

// ModuleBuilder assembles small modules for tests. The first failure is
// kept and returned by Err; later calls become no-ops.
type ModuleBuilder struct {
	M   *ir.Module
	err error
}

func NewModule(name string) *ModuleBuilder {
	return &ModuleBuilder{M: ir.NewModule(name)}
}

// Err returns the first error met while building.
func (b *ModuleBuilder) Err() error { return b.err }

// Class declares a class; markers are short names of built-in markers
// ("Slf4j", "Log", ...).
func (b *ModuleBuilder) Class(parent ir.DeclID, id string, markers ...string) ir.DeclID {
	if b.err != nil {
		return ir.NoDeclID
	}
	cid, err := ir.ParseClassID(id)
	if err != nil {
		b.err = err
		return ir.NoDeclID
	}
	anns := make([]ir.ClassID, 0, len(markers))
	for _, mk := range markers {
		anns = append(anns, ir.NewClassID(strategy.MarkerPackage, mk))
	}
	decl, err := b.M.AddClass(parent, ir.ClassData{ID: cid, Annotations: anns}, ir.Public, ir.OriginSource)
	if err != nil {
		b.err = err
	}
	return decl
}

// Object declares a plain (non-companion) object.
func (b *ModuleBuilder) Object(parent ir.DeclID, id string, markers ...string) ir.DeclID {
	decl := b.Class(parent, id, markers...)
	if b.err == nil {
		b.M.Get(decl).Class.Kind = ir.ClassObject
	}
	return decl
}

// Companion declares a user-written companion object in owner.
func (b *ModuleBuilder) Companion(owner ir.DeclID, name string) ir.DeclID {
	if b.err != nil {
		return ir.NoDeclID
	}
	cid := b.M.Get(owner).Class.ID.Nested(name)
	decl, err := b.M.AddClass(owner, ir.ClassData{ID: cid, Kind: ir.ClassObject, Companion: true}, ir.Public, ir.OriginSource)
	if err != nil {
		b.err = err
	}
	return decl
}

// Const declares `const val name = "value"` in owner.
func (b *ModuleBuilder) Const(owner ir.DeclID, name, value string) ir.DeclID {
	return b.member(owner, ir.Decl{
		Kind: ir.DeclField,
		Name: name,
		Field: ir.FieldData{
			Type:        stubs.StringType,
			Const:       true,
			Initializer: &ir.StringConst{Value: value},
		},
	})
}

// Val declares `private val name: typ` with no initializer.
func (b *ModuleBuilder) Val(owner ir.DeclID, name, typ string) ir.DeclID {
	tid, err := ir.ParseClassID(typ)
	if err != nil && b.err == nil {
		b.err = err
	}
	return b.member(owner, ir.Decl{
		Kind:       ir.DeclField,
		Name:       name,
		Visibility: ir.Private,
		Field:      ir.FieldData{Type: tid},
	})
}

// Func declares a function without parameters.
func (b *ModuleBuilder) Func(owner ir.DeclID, name string) ir.DeclID {
	return b.member(owner, ir.Decl{Kind: ir.DeclFunction, Name: name, Func: ir.FuncData{Returns: ir.MustClassID("kotlin/Unit")}})
}

func (b *ModuleBuilder) member(owner ir.DeclID, d ir.Decl) ir.DeclID {
	if b.err != nil {
		return ir.NoDeclID
	}
	decl, err := b.M.AddMember(owner, d)
	if err != nil {
		b.err = err
	}
	return decl
}

// Classpath returns a classpath with the JDK stubs and the named presets.
func Classpath(presets ...string) (*ir.Classpath, error) {
	cp := ir.NewClasspath()
	if err := stubs.JDK(cp); err != nil {
		return nil, err
	}
	for _, name := range presets {
		if err := stubs.Preset(cp, strategy.Default(), name); err != nil {
			return nil, err
		}
	}
	return cp, nil
}
