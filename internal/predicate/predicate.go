// Package predicate matches annotated types to strategies.
//
// Every strategy marker is registered once in an Index. Building a Matcher
// walks a module tree a single time; afterwards each query is a map lookup.
package predicate

import (
	"errors"
	"fmt"
	"strings"

	"treant/internal/ir"
	"treant/internal/strategy"
)

// ErrConflictingMarkers is returned for a type carrying more than one
// registered marker.
var ErrConflictingMarkers = errors.New("conflicting logger markers")

// ConflictError lists the strategies whose markers were found on one type.
type ConflictError struct {
	Class      ir.ClassID
	Strategies []*strategy.Descriptor
}

func (e *ConflictError) Error() string {
	names := make([]string, 0, len(e.Strategies))
	for _, d := range e.Strategies {
		names = append(names, d.MarkerName())
	}
	return fmt.Sprintf("%s carries %s; only one logger marker is allowed", e.Class.FqName(), strings.Join(names, ", "))
}

func (e *ConflictError) Unwrap() error { return ErrConflictingMarkers }

// Index is the set of markers of interest. It is immutable after NewIndex
// and can be shared between modules.
type Index struct {
	reg     *strategy.Registry
	markers map[ir.ClassID]*strategy.Descriptor
}

func NewIndex(reg *strategy.Registry) *Index {
	idx := &Index{
		reg:     reg,
		markers: make(map[ir.ClassID]*strategy.Descriptor, reg.Len()),
	}
	for _, d := range reg.All() {
		idx.markers[d.Marker] = d
	}
	return idx
}

// Registry returns the registry the index was built from.
func (idx *Index) Registry() *strategy.Registry { return idx.reg }

// IsMarker reports whether id is a registered marker annotation.
func (idx *Index) IsMarker(id ir.ClassID) bool {
	_, ok := idx.markers[id]
	return ok
}

// Build records, for every class of m, the registered markers it carries.
// The matcher reflects the module as it was when Build ran.
func (idx *Index) Build(m *ir.Module) *Matcher {
	matcher := &Matcher{
		hits:    make(map[ir.DeclID][]*strategy.Descriptor),
		classes: make(map[ir.DeclID]ir.ClassID),
	}
	m.Walk(func(id ir.DeclID, d *ir.Decl) bool {
		if d.Kind != ir.DeclClass {
			return false
		}
		var found []*strategy.Descriptor
		for _, ann := range d.Class.Annotations {
			desc, ok := idx.markers[ann]
			if !ok || containsTag(found, desc.Tag) {
				continue
			}
			found = append(found, desc)
		}
		if len(found) > 0 {
			idx.sortByRegistry(found)
			matcher.hits[id] = found
			matcher.classes[id] = d.Class.ID
			matcher.order = append(matcher.order, id)
		}
		return true
	})
	return matcher
}

func (idx *Index) sortByRegistry(found []*strategy.Descriptor) {
	if len(found) < 2 {
		return
	}
	var sorted []*strategy.Descriptor
	for _, d := range idx.reg.All() {
		if containsTag(found, d.Tag) {
			sorted = append(sorted, d)
		}
	}
	copy(found, sorted)
}

func containsTag(descs []*strategy.Descriptor, tag strategy.Tag) bool {
	for _, d := range descs {
		if d.Tag == tag {
			return true
		}
	}
	return false
}

// Matcher answers match queries for one module.
type Matcher struct {
	hits    map[ir.DeclID][]*strategy.Descriptor
	classes map[ir.DeclID]ir.ClassID
	order   []ir.DeclID
}

// Match returns the strategy selected by the markers on class id:
// nil, nil when the type carries none, and a *ConflictError when it
// carries more than one.
func (m *Matcher) Match(id ir.DeclID) (*strategy.Descriptor, error) {
	found := m.hits[id]
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	}
	return nil, &ConflictError{Class: m.classes[id], Strategies: found}
}

// Annotated lists classes carrying at least one registered marker, in
// declaration order.
func (m *Matcher) Annotated() []ir.DeclID {
	out := make([]ir.DeclID, len(m.order))
	copy(out, m.order)
	return out
}
