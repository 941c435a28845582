package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Decls stores declarations in a compact slice-based arena.
type Decls struct {
	data []Decl
}

// NewDecls creates an arena with an optional capacity hint.
func NewDecls(capacity uint32) *Decls {
	if capacity == 0 {
		capacity = 64
	}
	return &Decls{
		data: make([]Decl, 1, capacity+1), // index 0 reserved for NoDeclID
	}
}

// New allocates a declaration and returns its ID.
func (a *Decls) New(d *Decl) DeclID {
	if d == nil {
		panic("ir.Decls.New: nil declaration")
	}
	value, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("declaration arena overflow: %w", err))
	}
	id := DeclID(value)
	a.data = append(a.data, *d)
	return id
}

// Get returns a declaration pointer or nil for an invalid ID.
// The pointer is invalidated by the next call to New.
func (a *Decls) Get(id DeclID) *Decl {
	if !id.IsValid() || int(id) >= len(a.data) {
		return nil
	}
	return &a.data[id]
}

// Len reports the number of stored declarations excluding the sentinel.
func (a *Decls) Len() int { return len(a.data) - 1 }
