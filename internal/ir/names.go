package ir

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FqName is a dotted fully qualified name. The empty name is the root package.
type FqName string

// NewFqName normalizes s to NFC and trims surrounding dots and spaces.
func NewFqName(s string) FqName {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".")
	return FqName(norm.NFC.String(s))
}

// IsRoot reports whether the name is the root (empty) name.
func (n FqName) IsRoot() bool { return n == "" }

// Segments splits the name into its dotted parts.
func (n FqName) Segments() []string {
	if n.IsRoot() {
		return nil
	}
	return strings.Split(string(n), ".")
}

// ShortName returns the last segment.
func (n FqName) ShortName() string {
	s := string(n)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Parent drops the last segment. The parent of a single segment is the root.
func (n FqName) Parent() FqName {
	s := string(n)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return FqName(s[:i])
	}
	return ""
}

// Child appends one segment.
func (n FqName) Child(name string) FqName {
	if n.IsRoot() {
		return FqName(name)
	}
	return FqName(string(n) + "." + name)
}

func (n FqName) String() string { return string(n) }

// ClassID identifies a class by package and package-relative name.
// Relative is dotted for nested classes: "Outer.Inner".
type ClassID struct {
	Package  FqName `msgpack:"package"`
	Relative FqName `msgpack:"relative"`
}

// NewClassID builds a ClassID from dotted package and relative names.
func NewClassID(pkg, relative string) ClassID {
	return ClassID{Package: NewFqName(pkg), Relative: NewFqName(relative)}
}

// ParseClassID parses the "pkg/sub/Outer.Inner" form. A dotted package
// ("pkg.sub/Outer") is accepted as well.
func ParseClassID(s string) (ClassID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClassID{}, fmt.Errorf("empty class id")
	}
	idx := strings.LastIndexByte(s, '/')
	if idx < 0 {
		return ClassID{}, fmt.Errorf("class id %q: missing '/' between package and class name", s)
	}
	pkg := strings.ReplaceAll(s[:idx], "/", ".")
	rel := s[idx+1:]
	if rel == "" {
		return ClassID{}, fmt.Errorf("class id %q: empty class name", s)
	}
	for _, seg := range strings.Split(rel, ".") {
		if seg == "" {
			return ClassID{}, fmt.Errorf("class id %q: empty nested segment", s)
		}
	}
	return NewClassID(pkg, rel), nil
}

// MustClassID is ParseClassID for constants; it panics on malformed input.
func MustClassID(s string) ClassID {
	id, err := ParseClassID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsValid reports whether the ID names a class.
func (c ClassID) IsValid() bool { return !c.Relative.IsRoot() }

// FqName joins package and relative name: "pkg.sub.Outer.Inner".
func (c ClassID) FqName() FqName {
	if c.Package.IsRoot() {
		return c.Relative
	}
	return FqName(string(c.Package) + "." + string(c.Relative))
}

// ShortName returns the innermost class name.
func (c ClassID) ShortName() string { return c.Relative.ShortName() }

// Outer returns the enclosing class of a nested class.
func (c ClassID) Outer() (ClassID, bool) {
	parent := c.Relative.Parent()
	if parent.IsRoot() {
		return ClassID{}, false
	}
	return ClassID{Package: c.Package, Relative: parent}, true
}

// IsNested reports whether the class is declared inside another class.
func (c ClassID) IsNested() bool {
	_, ok := c.Outer()
	return ok
}

// Nested returns the ID of a class nested in c.
func (c ClassID) Nested(name string) ClassID {
	return ClassID{Package: c.Package, Relative: c.Relative.Child(name)}
}

// String renders the "pkg/sub/Outer.Inner" form.
func (c ClassID) String() string {
	return strings.ReplaceAll(string(c.Package), ".", "/") + "/" + string(c.Relative)
}
