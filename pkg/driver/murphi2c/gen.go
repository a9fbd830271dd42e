package murphi2c

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

// gen renders C types and names for one model. Record/Enum types get a
// synthesised C typedef name the first time they are encountered, walking
// the model in declaration order so the generated header's ordering is
// deterministic across runs of the same model.
type gen struct {
	types      map[ast.Type]string
	ordered    map[ast.Type]string
	order      []ast.Type
	nextRecord int
	nextEnum   int
}

func (g *gen) assignTypeNames(model *ast.Model) {
	g.ordered = map[ast.Type]string{}
	for _, v := range model.Vars {
		g.visit(v.Type)
	}
	for _, ta := range model.Types {
		g.visit(ta.Type)
	}
	for _, f := range model.Functions {
		g.visit(f.ResultType)
		for _, p := range f.Params {
			g.visit(p.Type)
		}
	}
	for _, p := range model.Procedures {
		for _, pr := range p.Params {
			g.visit(pr.Type)
		}
	}
}

func (g *gen) visit(t ast.Type) {
	if t == nil {
		return
	}
	switch t := t.(type) {
	case *ast.Record:
		if _, ok := g.types[t]; ok {
			return
		}
		for _, f := range t.Fields {
			g.visit(f.Type)
		}
		name := fmt.Sprintf("struct rumur_record_%d", g.nextRecord)
		g.nextRecord++
		g.types[t] = name
		g.ordered[t] = name
		g.order = append(g.order, t)
	case *ast.Enum:
		if _, ok := g.types[t]; ok {
			return
		}
		name := fmt.Sprintf("rumur_enum_%d", g.nextEnum)
		g.nextEnum++
		g.types[t] = name
		g.ordered[t] = name
		g.order = append(g.order, t)
	case *ast.Array:
		g.visit(t.Elem)
	case *ast.TypeRef:
		g.visit(t.Target)
	}
}

func (g *gen) renderTypeDecl(name string, t ast.Type) string {
	switch t := t.(type) {
	case *ast.Record:
		var b strings.Builder
		fmt.Fprintf(&b, "%s {\n", name)
		for _, f := range t.Fields {
			fmt.Fprintf(&b, "  %s %s;\n", g.typeName(f.Type), sanitize(f.Name))
		}
		b.WriteString("};\n")
		return b.String()
	case *ast.Enum:
		var b strings.Builder
		fmt.Fprintf(&b, "typedef enum {\n")
		for _, v := range t.Values {
			fmt.Fprintf(&b, "  %s,\n", sanitize(v))
		}
		fmt.Fprintf(&b, "} %s;\n", name)
		return b.String()
	default:
		return ""
	}
}

// typeName returns the C type spelling for t: a fixed-width scalar for
// Boolean/Range/Scalarset, the synthesised typedef for Enum, a named
// struct reference for Record, or the element spelling followed by `[]` for
// Array (the array's bound is not included in the spelling).
func (g *gen) typeName(t ast.Type) string {
	switch t := underlying(t).(type) {
	case nil:
		return "void"
	case *ast.Boolean:
		return "bool"
	case *ast.Range:
		return "int64_t"
	case *ast.Scalarset:
		return "int64_t"
	case *ast.Enum:
		return g.types[t]
	case *ast.Record:
		return g.types[t]
	case *ast.Array:
		return g.typeName(t.Elem) + "[]"
	default:
		return "void *"
	}
}

func underlying(t ast.Type) ast.Type {
	for {
		ref, ok := t.(*ast.TypeRef)
		if !ok {
			return t
		}
		t = ref.Target
	}
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (g *gen) renderPrototype(name string, params []ast.Param, resultType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(", resultType, name)
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		t := g.typeName(p.Type)
		if p.ByRef {
			t += " *"
		}
		fmt.Fprintf(&b, "%s %s", t, sanitize(p.Ident))
	}
	if len(params) == 0 {
		b.WriteString("void")
	}
	b.WriteString(")")
	return b.String()
}

func (g *gen) renderFunction(f *ast.FunctionDecl) string {
	proto := g.renderPrototype(f.Ident, f.Params, g.typeName(f.ResultType))
	return fmt.Sprintf("%s {\n%s}\n", proto, g.renderStmts(f.Body, 1))
}

func (g *gen) renderProcedure(p *ast.ProcedureDecl) string {
	proto := g.renderPrototype(p.Ident, p.Params, "void")
	return fmt.Sprintf("%s {\n%s}\n", proto, g.renderStmts(p.Body, 1))
}
