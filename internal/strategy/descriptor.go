package strategy

import "treant/internal/ir"

// Convention is the shape of the single argument passed to a logger factory.
type Convention uint8

const (
	// ClassToken passes a reflective class handle resolved from the
	// enclosing type's fully qualified name.
	ClassToken Convention = iota
	// PlainText passes the fully qualified name as a string literal.
	PlainText
)

func (c Convention) String() string {
	switch c {
	case PlainText:
		return "plain text"
	default:
		return "class token"
	}
}

// DefaultFieldName is the name of the generated logger field.
const DefaultFieldName = "log"

// Recipe describes the factory call that initializes the logger field.
type Recipe struct {
	FactoryType ir.ClassID
	Method      string
	Convention  Convention
}

// Descriptor describes one supported logging framework. Descriptors are
// immutable once registered.
type Descriptor struct {
	Tag        Tag
	Marker     ir.ClassID
	LoggerType ir.ClassID
	FieldName  string
	Recipe     Recipe
	// MissingDependency is reported verbatim when the factory type is
	// absent from the classpath.
	MissingDependency string
}

// MarkerName renders the marker the way users write it, e.g. "@Slf4j".
func (d *Descriptor) MarkerName() string {
	return "@" + d.Marker.ShortName()
}

func (d *Descriptor) fieldName() string {
	if d.FieldName == "" {
		return DefaultFieldName
	}
	return d.FieldName
}
