// Package initgen is the second generation phase.
//
// It finds every logger field stamped by package declgen, looks its strategy
// up by tag and attaches the factory call as the field initializer:
//
//	LoggerFactory.getLogger(Class.forName("pkg.Type"))   // class token
//	Logger.getLogger("pkg.Type")                         // plain text
//
// A missing factory is fatal for the whole module: by now the field is
// declared and other code may already refer to it. A field whose enclosing
// type name cannot be computed is skipped on its own.
package initgen

import (
	"context"
	"fmt"

	"treant/internal/diag"
	"treant/internal/ir"
	"treant/internal/origin"
	"treant/internal/overload"
	"treant/internal/strategy"
	"treant/internal/trace"
)

// TypeTokenResolver is the universal "class by name" operation used by the
// class-token convention.
var TypeTokenResolver = struct {
	Owner  ir.ClassID
	Method string
}{
	Owner:  ir.MustClassID("java/lang/Class"),
	Method: "forName",
}

// Synthesizer runs phase 2. Like declgen.Synthesizer it is read-only and
// can serve several modules at once.
type Synthesizer struct {
	reg *strategy.Registry
	cp  *ir.Classpath
}

func New(reg *strategy.Registry, cp *ir.Classpath) *Synthesizer {
	return &Synthesizer{reg: reg, cp: cp}
}

// Result lists what phase 2 did, in declaration order.
type Result struct {
	Initialized []ir.DeclID
	// Skipped fields already had an initializer.
	Skipped []ir.DeclID
	// Failed fields were left without an initializer.
	Failed []ir.DeclID
}

// Run attaches initializers to the stamped fields of m. A non-nil error is
// always a *diag.FatalError; the diagnostic it carries has been reported to
// r as well.
func (s *Synthesizer) Run(ctx context.Context, m *ir.Module, origins *origin.Table, r diag.Reporter) (Result, error) {
	_, root := trace.Start(ctx, trace.ScopePass, "initgen")
	if r == nil {
		r = diag.NopReporter{}
	}

	var res Result
	for _, field := range stampedFields(m, origins) {
		span := root.Child(trace.ScopeNode, "attach_initializer")
		outcome, err := s.attach(m, origins, r, field)
		span.WithExtra("field", fmt.Sprintf("%d", field)).End(outcome.String())
		if err != nil {
			root.Mark(trace.ScopePass, "fatal", err.Error())
			root.End("fatal")
			return res, err
		}
		switch outcome {
		case outcomeInitialized:
			res.Initialized = append(res.Initialized, field)
		case outcomeSkipped:
			res.Skipped = append(res.Skipped, field)
		default:
			res.Failed = append(res.Failed, field)
		}
	}
	root.End(fmt.Sprintf("%d initialized", len(res.Initialized)))
	return res, nil
}

type fieldOutcome uint8

const (
	outcomeInitialized fieldOutcome = iota
	outcomeSkipped
	outcomeFailed
	outcomeFatal
)

func (o fieldOutcome) String() string {
	switch o {
	case outcomeInitialized:
		return "initialized"
	case outcomeSkipped:
		return "skipped"
	case outcomeFailed:
		return "failed"
	}
	return "fatal"
}

func stampedFields(m *ir.Module, origins *origin.Table) []ir.DeclID {
	var out []ir.DeclID
	m.Walk(func(id ir.DeclID, d *ir.Decl) bool {
		if d.Kind != ir.DeclField {
			return true
		}
		if _, ok := origins.Lookup(id); ok {
			out = append(out, id)
		}
		return true
	})
	return out
}

// fieldSubject names a field by its holder, "pkg.Svc.Companion.log".
func fieldSubject(m *ir.Module, d *ir.Decl) string {
	if holder := m.Get(d.Parent); holder != nil && holder.Kind == ir.DeclClass {
		return holder.Class.ID.FqName().Child(d.Name).String()
	}
	return d.Name
}

func (s *Synthesizer) attach(m *ir.Module, origins *origin.Table, r diag.Reporter, field ir.DeclID) (fieldOutcome, error) {
	d := m.Get(field)
	if d.Field.Initializer != nil {
		return outcomeSkipped, nil
	}
	tag, _ := origins.Lookup(field)
	desc, ok := s.reg.ByTag(tag)
	if !ok {
		return outcomeFatal, s.fatal(r, diag.Fatal(diag.InitUnknownTag, m.Name, fieldSubject(m, d),
			fmt.Sprintf("generated field %q is stamped with unregistered strategy %s", d.Name, tag)))
	}

	subject, nameErr := EnclosingName(m, field)
	if nameErr != nil {
		subject = ""
	}

	fn, err := s.Factory(desc)
	if err != nil {
		err.Diagnostic.Module, err.Diagnostic.Subject = m.Name, subject.String()
		return outcomeFatal, s.fatal(r, err)
	}

	if nameErr != nil {
		diag.ReportError(r, diag.InitMalformedEnclosingName, m.Name, fieldSubject(m, d),
			fmt.Sprintf("%s: %v; logger field is left without initializer", desc.MarkerName(), nameErr)).Emit()
		return outcomeFailed, nil
	}

	arg, err := s.Argument(desc, subject)
	if err != nil {
		err.Diagnostic.Module, err.Diagnostic.Subject = m.Name, subject.String()
		return outcomeFatal, s.fatal(r, err)
	}

	d.Field.Initializer = &ir.Call{
		Owner:  desc.Recipe.FactoryType,
		Method: desc.Recipe.Method,
		Callee: fn,
		Args:   []ir.Expr{arg},
	}
	return outcomeInitialized, nil
}

func (s *Synthesizer) fatal(r diag.Reporter, err *diag.FatalError) error {
	r.Report(err.Diagnostic)
	return err
}

// Factory resolves the factory method of desc: the first overload, in
// declaration order, with one regular parameter of the convention's type.
// The returned error only carries code and message; the caller fills in
// module and subject.
func (s *Synthesizer) Factory(desc *strategy.Descriptor) (ir.DeclID, *diag.FatalError) {
	owner, ok := s.cp.Resolve(desc.Recipe.FactoryType)
	if !ok {
		return ir.NoDeclID, diag.Fatal(diag.InitMissingFactoryType, "", "", desc.MissingDependency)
	}
	accept, shape := overload.ClassTokenParam(), overload.ClassTypeName
	if desc.Recipe.Convention == strategy.PlainText {
		accept, shape = overload.PlainTextParam(), overload.StringTypeName
	}
	fn, ok := overload.Select(s.cp, owner, desc.Recipe.Method, accept)
	if !ok {
		fe := diag.Fatal(diag.InitMissingFactoryMethod, "", "",
			fmt.Sprintf("%s: %s has no %s(%s) overload", desc.MarkerName(), desc.Recipe.FactoryType.FqName(), desc.Recipe.Method, shape))
		fe.Diagnostic = fe.Diagnostic.WithNote("", desc.MissingDependency)
		return ir.NoDeclID, fe
	}
	return fn, nil
}

// Argument builds the single factory argument for the annotated type fq.
func (s *Synthesizer) Argument(desc *strategy.Descriptor, fq ir.FqName) (ir.Expr, *diag.FatalError) {
	literal := &ir.StringConst{Value: fq.String()}
	if desc.Recipe.Convention == strategy.PlainText {
		return literal, nil
	}
	resolver, ok := s.cp.Resolve(TypeTokenResolver.Owner)
	var forName ir.DeclID
	if ok {
		forName, ok = overload.Select(s.cp, resolver, TypeTokenResolver.Method, overload.PlainTextParam())
	}
	if !ok {
		return nil, diag.Fatal(diag.InitMissingTypeToken, "", "",
			fmt.Sprintf("%s requires %s.%s(String) on the classpath", desc.MarkerName(), TypeTokenResolver.Owner.FqName(), TypeTokenResolver.Method))
	}
	return &ir.Call{
		Owner:  TypeTokenResolver.Owner,
		Method: TypeTokenResolver.Method,
		Callee: forName,
		Args:   []ir.Expr{literal},
	}, nil
}

// EnclosingName returns the fully qualified name of the annotated type that
// owns field: the class enclosing the field's companion.
func EnclosingName(m *ir.Module, field ir.DeclID) (ir.FqName, error) {
	d := m.Get(field)
	if d == nil {
		return "", fmt.Errorf("unknown field %d", field)
	}
	holder := m.Get(d.Parent)
	if holder == nil || holder.Kind != ir.DeclClass {
		return "", fmt.Errorf("field %q is not declared in a class", d.Name)
	}
	owner := m.Get(holder.Parent)
	if owner == nil || owner.Kind != ir.DeclClass {
		return "", fmt.Errorf("%s has no enclosing class", holder.Class.ID.FqName())
	}
	if !owner.Class.ID.IsValid() {
		return "", fmt.Errorf("enclosing class of %s has no name", holder.Class.ID.FqName())
	}
	return owner.Class.ID.FqName(), nil
}
