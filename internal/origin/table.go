// Package origin records which strategy generated a declaration.
//
// Phase 1 stamps every declaration it creates with the strategy's tag;
// phase 2 reads the stamps back to find the fields it has to initialize.
// The table is owned by one compilation unit and is not safe for
// concurrent use.
package origin

import (
	"slices"

	"treant/internal/ir"
	"treant/internal/strategy"
)

// Table maps declaration identity to the originating strategy tag.
type Table struct {
	tags  map[ir.DeclID]strategy.Tag
	order []ir.DeclID
}

func NewTable() *Table {
	return &Table{tags: make(map[ir.DeclID]strategy.Tag)}
}

// Stamp records tag for decl. Re-stamping with the same tag is a no-op;
// a different tag replaces the previous one. Stamping a nil table records
// nothing.
func (t *Table) Stamp(decl ir.DeclID, tag strategy.Tag) {
	if t == nil || !decl.IsValid() || !tag.IsValid() {
		return
	}
	if _, ok := t.tags[decl]; !ok {
		t.order = append(t.order, decl)
	}
	t.tags[decl] = tag
}

// Lookup returns the tag decl was stamped with.
func (t *Table) Lookup(decl ir.DeclID) (strategy.Tag, bool) {
	if t == nil {
		return strategy.NoTag, false
	}
	tag, ok := t.tags[decl]
	return tag, ok
}

// Stamped returns stamped declarations in stamping order.
func (t *Table) Stamped() []ir.DeclID {
	if t == nil {
		return nil
	}
	return slices.Clone(t.order)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}
