package ir

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotNode is a declaration with its nested members expanded, so that a
// snapshot does not depend on arena contents outside the subtree.
type snapshotNode struct {
	Decl    Decl           `msgpack:"decl"`
	Members []snapshotNode `msgpack:"members"`
}

type moduleView struct {
	Name  string         `msgpack:"name"`
	Roots []snapshotNode `msgpack:"roots"`
}

func (m *Module) node(id DeclID) snapshotNode {
	d := m.Get(id)
	if d == nil {
		return snapshotNode{}
	}
	n := snapshotNode{Decl: *d}
	if d.Kind == DeclClass {
		n.Members = make([]snapshotNode, 0, len(d.Class.Members))
		for _, member := range d.Class.Members {
			n.Members = append(n.Members, m.node(member))
		}
	}
	return n
}

// Snapshot encodes a declaration subtree to msgpack. Two snapshots of the same
// subtree are byte-identical as long as nothing inside it changed.
func Snapshot(m *Module, id DeclID) ([]byte, error) {
	if m.Get(id) == nil {
		return nil, fmt.Errorf("snapshot: unknown declaration %d in module %s", id, m.Name)
	}
	data, err := msgpack.Marshal(m.node(id))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", m.Name, err)
	}
	return data, nil
}

// Encode writes the whole module as one msgpack document.
func Encode(w io.Writer, m *Module) error {
	view := moduleView{Name: m.Name, Roots: make([]snapshotNode, 0, len(m.roots))}
	for _, root := range m.roots {
		view.Roots = append(view.Roots, m.node(root))
	}
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&view); err != nil {
		return fmt.Errorf("encode module %s: %w", m.Name, err)
	}
	return nil
}
