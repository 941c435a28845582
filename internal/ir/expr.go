package ir

// Expr is an initializer expression attached to a field.
type Expr interface {
	exprNode()
}

// StringConst is a string literal.
type StringConst struct {
	Value string `msgpack:"value"`
}

// Call invokes a function declared on a classpath class. Callee is a
// Classpath DeclID; Owner and Method repeat its identity so that the
// expression can be rendered without the classpath.
type Call struct {
	Owner  ClassID `msgpack:"owner"`
	Method string  `msgpack:"method"`
	Callee DeclID  `msgpack:"callee"`
	Args   []Expr  `msgpack:"args"`
}

func (*StringConst) exprNode() {}
func (*Call) exprNode()        {}
