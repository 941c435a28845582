// Package overload selects factory methods by parameter shape.
package overload

import (
	"treant/internal/ir"
)

// Simple names of the parameter types accepted by the two calling
// conventions.
const (
	ClassTypeName  = "Class"
	StringTypeName = "String"
)

// Predicate accepts or rejects a candidate function.
type Predicate func(fn *ir.Decl) bool

// RegularParams returns the value parameters of fn, skipping dispatch and
// extension receivers and context parameters.
func RegularParams(fn *ir.Decl) []ir.Param {
	if fn == nil {
		return nil
	}
	var out []ir.Param
	for _, p := range fn.Func.Params {
		if p.Kind == ir.ParamRegular {
			out = append(out, p)
		}
	}
	return out
}

// RegularParamCount counts the value parameters of fn.
func RegularParamCount(fn *ir.Decl) int {
	return len(RegularParams(fn))
}

// SimpleTypeName is the unqualified name of a parameter type.
func SimpleTypeName(p ir.Param) string {
	return p.Type.ShortName()
}

// SingleParamOf accepts functions with exactly one regular parameter whose
// type has the given simple name.
func SingleParamOf(typeName string) Predicate {
	return func(fn *ir.Decl) bool {
		params := RegularParams(fn)
		return len(params) == 1 && SimpleTypeName(params[0]) == typeName
	}
}

// ClassTokenParam accepts f(Class).
func ClassTokenParam() Predicate { return SingleParamOf(ClassTypeName) }

// PlainTextParam accepts f(String).
func PlainTextParam() Predicate { return SingleParamOf(StringTypeName) }

// Select returns the first function of owner called name that accept
// approves, in declaration order.
func Select(cp *ir.Classpath, owner ir.DeclID, name string, accept Predicate) (ir.DeclID, bool) {
	for _, id := range cp.Functions(owner, name) {
		if accept == nil || accept(cp.Get(id)) {
			return id, true
		}
	}
	return ir.NoDeclID, false
}
