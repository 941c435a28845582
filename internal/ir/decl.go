package ir

// DeclKind classifies a declaration.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclClass
	DeclField
	DeclFunction
	DeclConstructor
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclField:
		return "field"
	case DeclFunction:
		return "function"
	case DeclConstructor:
		return "constructor"
	default:
		return "invalid"
	}
}

// ClassKind distinguishes class-like declarations.
type ClassKind uint8

const (
	ClassRegular ClassKind = iota
	ClassObject
	ClassInterface
	ClassAnnotation
)

func (k ClassKind) String() string {
	switch k {
	case ClassObject:
		return "object"
	case ClassInterface:
		return "interface"
	case ClassAnnotation:
		return "annotation class"
	default:
		return "class"
	}
}

// ParseClassKind maps manifest spellings to ClassKind.
func ParseClassKind(s string) (ClassKind, bool) {
	switch s {
	case "", "class":
		return ClassRegular, true
	case "object":
		return ClassObject, true
	case "interface":
		return ClassInterface, true
	case "annotation":
		return ClassAnnotation, true
	}
	return ClassRegular, false
}

// Visibility of a declaration.
type Visibility uint8

const (
	Public Visibility = iota
	Internal
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// ParseVisibility maps manifest spellings to Visibility.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "", "public":
		return Public, true
	case "internal":
		return Internal, true
	case "protected":
		return Protected, true
	case "private":
		return Private, true
	}
	return Public, false
}

// Origin tells where a declaration came from. It carries no information
// about which generator produced a declaration.
type Origin uint8

const (
	OriginSource Origin = iota
	OriginLibrary
	OriginGenerated
)

func (o Origin) String() string {
	switch o {
	case OriginLibrary:
		return "library"
	case OriginGenerated:
		return "generated"
	default:
		return "source"
	}
}

// ParamKind separates the regular value parameters of a callable from the
// implicit ones.
type ParamKind uint8

const (
	ParamRegular ParamKind = iota
	ParamDispatchReceiver
	ParamExtensionReceiver
	ParamContext
)

func (k ParamKind) String() string {
	switch k {
	case ParamDispatchReceiver:
		return "dispatch"
	case ParamExtensionReceiver:
		return "extension"
	case ParamContext:
		return "context"
	default:
		return "regular"
	}
}

// Param is one parameter of a function or constructor.
type Param struct {
	Name string    `msgpack:"name"`
	Kind ParamKind `msgpack:"kind"`
	Type ClassID   `msgpack:"type"`
}

// ClassData holds the class-specific part of a Decl.
type ClassData struct {
	ID          ClassID   `msgpack:"id"`
	Kind        ClassKind `msgpack:"kind"`
	Companion   bool      `msgpack:"companion"`
	Annotations []ClassID `msgpack:"annotations"`
	Members     []DeclID  `msgpack:"members"`
}

// FieldData holds the field-specific part of a Decl.
type FieldData struct {
	Type        ClassID `msgpack:"type"`
	Mutable     bool    `msgpack:"mutable"`
	Const       bool    `msgpack:"const"`
	Initializer Expr    `msgpack:"initializer"`
}

// FuncData holds the callable-specific part of a Decl.
type FuncData struct {
	Params  []Param `msgpack:"params"`
	Returns ClassID `msgpack:"returns"`
}

// Decl is a single declaration. Only the data block matching Kind is used.
type Decl struct {
	Kind       DeclKind   `msgpack:"kind"`
	Name       string     `msgpack:"name"`
	Parent     DeclID     `msgpack:"parent"`
	Visibility Visibility `msgpack:"visibility"`
	Origin     Origin     `msgpack:"origin"`
	Class      ClassData  `msgpack:"class"`
	Field      FieldData  `msgpack:"field"`
	Func       FuncData   `msgpack:"func"`
}

// IsCompanion reports whether the declaration is a companion object.
func (d *Decl) IsCompanion() bool {
	return d != nil && d.Kind == DeclClass && d.Class.Companion
}
