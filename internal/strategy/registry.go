package strategy

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"treant/internal/ir"
)

var (
	ErrDuplicateTag    = errors.New("duplicate strategy tag")
	ErrDuplicateMarker = errors.New("duplicate marker annotation")
	ErrInvalidStrategy = errors.New("invalid strategy descriptor")
)

// Registry is an ordered, read-only set of descriptors. Registration order
// is the iteration order of All.
type Registry struct {
	descs    []*Descriptor
	byTag    map[Tag]*Descriptor
	byMarker map[ir.ClassID]*Descriptor
}

// NewRegistry validates descs and builds a registry over copies of them.
// An empty FieldName defaults to DefaultFieldName.
func NewRegistry(descs ...*Descriptor) (*Registry, error) {
	r := &Registry{
		descs:    make([]*Descriptor, 0, len(descs)),
		byTag:    make(map[Tag]*Descriptor, len(descs)),
		byMarker: make(map[ir.ClassID]*Descriptor, len(descs)),
	}
	for _, d := range descs {
		if d == nil {
			return nil, fmt.Errorf("%w: nil descriptor", ErrInvalidStrategy)
		}
		if err := validate(d); err != nil {
			return nil, err
		}
		if _, dup := r.byTag[d.Tag]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTag, d.Tag)
		}
		if prev, dup := r.byMarker[d.Marker]; dup {
			return nil, fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateMarker, d.Marker, prev.Tag, d.Tag)
		}
		cp := *d
		cp.FieldName = d.fieldName()
		r.descs = append(r.descs, &cp)
		r.byTag[cp.Tag] = &cp
		r.byMarker[cp.Marker] = &cp
	}
	return r, nil
}

func validate(d *Descriptor) error {
	switch {
	case !d.Tag.IsValid():
		return fmt.Errorf("%w: missing tag", ErrInvalidStrategy)
	case !d.Marker.IsValid():
		return fmt.Errorf("%w: %s has no marker", ErrInvalidStrategy, d.Tag)
	case !d.LoggerType.IsValid():
		return fmt.Errorf("%w: %s has no logger type", ErrInvalidStrategy, d.Tag)
	case !d.Recipe.FactoryType.IsValid() || d.Recipe.Method == "":
		return fmt.Errorf("%w: %s has no factory recipe", ErrInvalidStrategy, d.Tag)
	}
	return nil
}

// All returns descriptors in registration order.
func (r *Registry) All() []*Descriptor { return slices.Clone(r.descs) }

// Len reports the number of registered strategies.
func (r *Registry) Len() int { return len(r.descs) }

// ByTag performs the reverse lookup used by the initializer phase.
func (r *Registry) ByTag(tag Tag) (*Descriptor, bool) {
	d, ok := r.byTag[tag]
	return d, ok
}

// ByMarker finds the strategy selected by a marker annotation.
func (r *Registry) ByMarker(marker ir.ClassID) (*Descriptor, bool) {
	d, ok := r.byMarker[marker]
	return d, ok
}

// Default returns the process-wide registry of built-in strategies.
var Default = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(Builtins()...)
	if err != nil {
		panic(fmt.Sprintf("strategy: built-in registry: %v", err))
	}
	return r
})
