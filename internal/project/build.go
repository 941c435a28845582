package project

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"treant/internal/diag"
	"treant/internal/ir"
	"treant/internal/strategy"
	"treant/internal/stubs"
)

// ErrInvalidProject is returned by Build when it reported errors.
var ErrInvalidProject = errors.New("invalid project")

// builtinPackage holds types written without a package ("String").
const builtinPackage = "kotlin"

// Program is a manifest turned into declarations.
type Program struct {
	Name      string
	Modules   []*ir.Module
	Classpath *ir.Classpath
}

// Module finds a module by name.
func (p *Program) Module(name string) (*ir.Module, bool) {
	for _, m := range p.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Build declares the classpath and every module of m. Problems are
// reported to r; the returned error is ErrInvalidProject when at least one
// of them is an error.
func Build(m *Manifest, reg *strategy.Registry, r diag.Reporter) (*Program, error) {
	b := &builder{reg: reg, r: r}
	if b.r == nil {
		b.r = diag.NopReporter{}
	}
	prog := &Program{Name: m.Project.Name, Classpath: ir.NewClasspath()}

	if m.Project.UseJDK() {
		if err := stubs.JDK(prog.Classpath); err != nil {
			b.errorf(diag.ProjInvalidReference, "", stubs.JDKArtifact, "%v", err)
		}
	}
	for _, name := range m.Project.Presets {
		if err := stubs.Preset(prog.Classpath, reg, name); err != nil {
			b.errorf(diag.ProjInvalidReference, "", name, "%v", err)
		}
	}
	for _, lib := range m.Libraries {
		b.library(prog.Classpath, lib)
	}

	seen := make(map[string]bool, len(m.Modules))
	for _, spec := range m.Modules {
		if seen[spec.Name] {
			b.errorf(diag.ProjDuplicateModule, spec.Name, "", "module %q is declared more than once", spec.Name)
			continue
		}
		seen[spec.Name] = true
		prog.Modules = append(prog.Modules, b.module(spec))
	}
	if b.failed {
		return prog, ErrInvalidProject
	}
	return prog, nil
}

type builder struct {
	reg     *strategy.Registry
	r       diag.Reporter
	failed  bool
	current string
}

func (b *builder) errorf(code diag.Code, module, subject, format string, args ...any) {
	b.failed = true
	diag.ReportError(b.r, code, module, subject, fmt.Sprintf(format, args...)).Emit()
}

func (b *builder) library(cp *ir.Classpath, lib LibrarySpec) {
	for _, cls := range lib.Classes {
		id, err := ir.ParseClassID(cls.ID)
		if err != nil {
			b.errorf(diag.ProjInvalidReference, "", lib.Artifact, "%v", err)
			continue
		}
		kind, _ := ir.ParseClassKind(cls.Kind)
		decl, ok := cp.Resolve(id)
		if !ok {
			if decl, err = cp.AddClass(lib.Artifact, id, kind); err != nil {
				b.errorf(diag.ProjDuplicateClass, "", id.FqName().String(), "%v", err)
				continue
			}
		}
		for _, fn := range cls.Functions {
			params, ok := b.params(id.FqName().String(), fn.Params)
			if !ok {
				continue
			}
			returns, ok := b.typeRef(id.FqName().String(), fn.Returns, "Unit")
			if !ok {
				continue
			}
			if _, err := cp.AddFunction(decl, fn.Name, params, returns); err != nil {
				b.errorf(diag.ProjInvalidReference, "", id.FqName().String(), "%v", err)
			}
		}
	}
}

func (b *builder) module(spec ModuleSpec) *ir.Module {
	m := ir.NewModule(spec.Name)
	b.current = spec.Name

	classes := make([]ClassSpec, len(spec.Classes))
	copy(classes, spec.Classes)
	// outer classes first; manifest order otherwise
	sort.SliceStable(classes, func(i, j int) bool {
		return nesting(classes[i].ID) < nesting(classes[j].ID)
	})

	for _, cls := range classes {
		b.class(m, cls)
	}
	return m
}

func nesting(id string) int {
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	return strings.Count(id, ".")
}

func (b *builder) class(m *ir.Module, spec ClassSpec) {
	id, err := ir.ParseClassID(spec.ID)
	if err != nil {
		b.errorf(diag.ProjInvalidReference, m.Name, spec.ID, "%v", err)
		return
	}
	subject := id.FqName().String()

	parent := ir.NoDeclID
	if outer, nested := id.Outer(); nested {
		var ok bool
		if parent, ok = m.Lookup(outer); !ok {
			b.errorf(diag.ProjUnknownOuter, m.Name, subject, "enclosing class %s is not declared in module %s", outer.FqName(), m.Name)
			return
		}
	}
	kind, _ := ir.ParseClassKind(spec.Kind)
	vis, _ := ir.ParseVisibility(spec.Visibility)
	if spec.Companion {
		kind = ir.ClassObject
	}
	anns := make([]ir.ClassID, 0, len(spec.Annotations))
	for _, a := range spec.Annotations {
		ann, err := b.annotation(a)
		if err != nil {
			b.errorf(diag.ProjInvalidReference, m.Name, subject, "%v", err)
			continue
		}
		anns = append(anns, ann)
	}
	cls, err := m.AddClass(parent, ir.ClassData{
		ID:          id,
		Kind:        kind,
		Companion:   spec.Companion,
		Annotations: anns,
	}, vis, ir.OriginSource)
	if err != nil {
		b.errorf(diag.ProjDuplicateClass, m.Name, subject, "%v", err)
		return
	}

	for _, f := range spec.Fields {
		b.field(m, cls, subject, f)
	}
	for _, fn := range spec.Functions {
		params, ok := b.params(subject, fn.Params)
		if !ok {
			continue
		}
		returns, ok := b.typeRef(subject, fn.Returns, "Unit")
		if !ok {
			continue
		}
		// owner is a class of m, AddMember cannot fail
		_, _ = m.AddMember(cls, ir.Decl{
			Kind:   ir.DeclFunction,
			Name:   fn.Name,
			Origin: ir.OriginSource,
			Func:   ir.FuncData{Params: params, Returns: returns},
		})
	}
}

func (b *builder) field(m *ir.Module, cls ir.DeclID, subject string, f FieldSpec) {
	typ, ok := b.typeRef(subject, f.Type, "")
	if !ok {
		return
	}
	vis, _ := ir.ParseVisibility(f.Visibility)
	data := ir.FieldData{Type: typ, Mutable: f.Mutable, Const: f.Const}
	if f.Value != nil {
		data.Initializer = &ir.StringConst{Value: *f.Value}
	}
	_, _ = m.AddMember(cls, ir.Decl{
		Kind:       ir.DeclField,
		Name:       f.Name,
		Visibility: vis,
		Origin:     ir.OriginSource,
		Field:      data,
	})
}

// annotation accepts "pkg/Name" IDs and the "@Marker" shorthand for
// built-in markers.
func (b *builder) annotation(s string) (ir.ClassID, error) {
	s = strings.TrimSpace(s)
	if short, ok := strings.CutPrefix(s, "@"); ok {
		id := ir.NewClassID(strategy.MarkerPackage, short)
		if _, known := b.reg.ByMarker(id); !known {
			return ir.ClassID{}, fmt.Errorf("unknown marker %s", s)
		}
		return id, nil
	}
	return ir.ParseClassID(s)
}

// typeRef parses a type; a bare name lives in the kotlin package.
func (b *builder) typeRef(subject, s, fallback string) (ir.ClassID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = fallback
	}
	if s == "" {
		b.errorf(diag.ProjInvalidReference, b.current, subject, "missing type")
		return ir.ClassID{}, false
	}
	if !strings.Contains(s, "/") {
		return ir.NewClassID(builtinPackage, s), true
	}
	id, err := ir.ParseClassID(s)
	if err != nil {
		b.errorf(diag.ProjInvalidReference, b.current, subject, "%v", err)
		return ir.ClassID{}, false
	}
	return id, true
}

func (b *builder) params(subject string, specs []ParamSpec) ([]ir.Param, bool) {
	params := make([]ir.Param, 0, len(specs))
	for _, p := range specs {
		typ, ok := b.typeRef(subject, p.Type, "")
		if !ok {
			return nil, false
		}
		params = append(params, ir.Param{Name: p.Name, Kind: parseParamKind(p.Kind), Type: typ})
	}
	return params, true
}

func parseParamKind(s string) ir.ParamKind {
	switch s {
	case "dispatch":
		return ir.ParamDispatchReceiver
	case "extension":
		return ir.ParamExtensionReceiver
	case "context":
		return ir.ParamContext
	}
	return ir.ParamRegular
}
