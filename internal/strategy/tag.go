package strategy

import "go.uber.org/atomic"

var tagSeq atomic.Uint32

// Tag is an opaque identity token of a strategy. Two tags are equal only if
// they were produced by the same NewTag call.
type Tag struct {
	id   uint32
	name string
}

// NoTag is the zero Tag; it never identifies a strategy.
var NoTag Tag

// NewTag allocates a fresh tag. name is used for rendering only.
func NewTag(name string) Tag {
	return Tag{id: tagSeq.Inc(), name: name}
}

// IsValid reports whether t was allocated by NewTag.
func (t Tag) IsValid() bool { return t.id != 0 }

func (t Tag) String() string {
	if !t.IsValid() {
		return "<none>"
	}
	return t.name
}
