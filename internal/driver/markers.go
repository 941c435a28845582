package driver

import (
	"fmt"

	"treant/internal/declgen"
	"treant/internal/ir"
	"treant/internal/strategy"
)

// Marker says that a logger field exists for Class because of Strategy.
type Marker struct {
	Module   string
	Class    ir.FqName
	Strategy *strategy.Descriptor
	// Initialized is false when phase 2 left the field without a value.
	Initialized bool
}

func (m Marker) String() string {
	return fmt.Sprintf("%s logger generated for %s", m.Strategy.MarkerName(), m.Class)
}

// Markers lists the classes that got a logger field, unit by unit in
// declaration order.
func Markers(units []*Unit) []Marker {
	var out []Marker
	for _, u := range units {
		if u == nil {
			continue
		}
		for _, o := range u.Decl.Outcomes {
			if o.State != declgen.StateFieldDeclared {
				continue
			}
			out = append(out, Marker{
				Module:      u.Module.Name,
				Class:       o.ClassID.FqName(),
				Strategy:    o.Strategy,
				Initialized: u.Module.Get(o.Field).Field.Initializer != nil,
			})
		}
	}
	return out
}
