package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const printIndent = "    "

// Print renders the module as Kotlin-like source text. Generated and
// user-written declarations are rendered the same way.
func Print(w io.Writer, m *Module) error {
	var sb strings.Builder
	pkg := FqName("-")
	for i, root := range m.roots {
		d := m.Get(root)
		if d == nil {
			continue
		}
		if d.Class.ID.Package != pkg {
			pkg = d.Class.ID.Package
			if i > 0 {
				sb.WriteString("\n")
			}
			if !pkg.IsRoot() {
				fmt.Fprintf(&sb, "package %s\n\n", pkg)
			}
		} else if i > 0 {
			sb.WriteString("\n")
		}
		printDecl(&sb, m, root, 0)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// PrintString is Print into a string.
func PrintString(m *Module) string {
	var sb strings.Builder
	_ = Print(&sb, m) //nolint:errcheck // strings.Builder never fails
	return sb.String()
}

func printDecl(sb *strings.Builder, m *Module, id DeclID, depth int) {
	d := m.Get(id)
	if d == nil {
		return
	}
	indent := strings.Repeat(printIndent, depth)
	switch d.Kind {
	case DeclClass:
		for _, ann := range d.Class.Annotations {
			fmt.Fprintf(sb, "%s@%s\n", indent, ann.FqName())
		}
		sb.WriteString(indent)
		sb.WriteString(visibilityPrefix(d.Visibility))
		sb.WriteString(classHeader(d))
		if len(d.Class.Members) == 0 {
			sb.WriteString("\n")
			return
		}
		sb.WriteString(" {\n")
		for _, member := range d.Class.Members {
			printDecl(sb, m, member, depth+1)
		}
		sb.WriteString(indent)
		sb.WriteString("}\n")
	case DeclField:
		sb.WriteString(indent)
		sb.WriteString(visibilityPrefix(d.Visibility))
		switch {
		case d.Field.Const:
			sb.WriteString("const val ")
		case d.Field.Mutable:
			sb.WriteString("var ")
		default:
			sb.WriteString("val ")
		}
		sb.WriteString(d.Name)
		if d.Field.Type.IsValid() {
			sb.WriteString(": ")
			sb.WriteString(d.Field.Type.FqName().String())
		}
		if d.Field.Initializer != nil {
			sb.WriteString(" = ")
			sb.WriteString(FormatExpr(d.Field.Initializer))
		}
		sb.WriteString("\n")
	case DeclFunction:
		sb.WriteString(indent)
		sb.WriteString(visibilityPrefix(d.Visibility))
		fmt.Fprintf(sb, "fun %s(%s)", d.Name, formatParams(d.Func.Params))
		if d.Func.Returns.IsValid() {
			sb.WriteString(": ")
			sb.WriteString(d.Func.Returns.FqName().String())
		}
		sb.WriteString("\n")
	case DeclConstructor:
		sb.WriteString(indent)
		sb.WriteString(visibilityPrefix(d.Visibility))
		fmt.Fprintf(sb, "constructor(%s)\n", formatParams(d.Func.Params))
	}
}

func classHeader(d *Decl) string {
	if d.Class.Companion {
		if d.Name == "Companion" {
			return "companion object"
		}
		return "companion object " + d.Name
	}
	return d.Class.Kind.String() + " " + d.Name
}

func visibilityPrefix(v Visibility) string {
	if v == Public {
		return ""
	}
	return v.String() + " "
}

func formatParams(params []Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Kind != ParamRegular {
			continue
		}
		parts = append(parts, p.Name+": "+p.Type.FqName().String())
	}
	return strings.Join(parts, ", ")
}

// FormatExpr renders an initializer expression.
func FormatExpr(e Expr) string {
	switch x := e.(type) {
	case *StringConst:
		return strconv.Quote(x.Value)
	case *Call:
		args := make([]string, len(x.Args))
		for i, arg := range x.Args {
			args[i] = FormatExpr(arg)
		}
		return fmt.Sprintf("%s.%s(%s)", x.Owner.FqName(), x.Method, strings.Join(args, ", "))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}
