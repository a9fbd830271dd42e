package format

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

const indentUnit = "  "

func indent(n int) string { return strings.Repeat(indentUnit, n) }

func (p *printer) renderConst(c *ast.Constant) string {
	if c.IsBool {
		return fmt.Sprintf("const\n  %s : boolean := %t;", c.Ident, c.Bool)
	}
	return fmt.Sprintf("const\n  %s : %s;", c.Ident, intLitText(c.Value))
}

func (p *printer) renderTypeAlias(t *ast.TypeAlias) string {
	return fmt.Sprintf("type\n  %s : %s;", t.Ident, p.renderType(t.Type))
}

func (p *printer) renderVar(v *ast.Variable) string {
	return fmt.Sprintf("var\n  %s : %s;", v.Ident, p.renderType(v.Type))
}

func (p *printer) renderType(t ast.Type) string {
	switch t := t.(type) {
	case *ast.Boolean:
		return "boolean"
	case *ast.Range:
		return fmt.Sprintf("%s .. %s", intLitText(t.Low), intLitText(t.High))
	case *ast.Enum:
		return fmt.Sprintf("enum { %s }", strings.Join(t.Values, ", "))
	case *ast.Scalarset:
		return fmt.Sprintf("scalarset(%s)", intLitText(t.Size))
	case *ast.Array:
		return fmt.Sprintf("array [%s] of %s", p.renderType(t.Index), p.renderType(t.Elem))
	case *ast.Record:
		var b strings.Builder
		b.WriteString("record\n")
		for _, f := range t.Fields {
			fmt.Fprintf(&b, "%s%s : %s;\n", indent(2), f.Name, p.renderType(f.Type))
		}
		b.WriteString(indent(1) + "end")
		return b.String()
	case *ast.TypeRef:
		return t.Name
	default:
		return "?"
	}
}

func (p *printer) renderParams(params []ast.Param) string {
	var parts []string
	for _, pa := range params {
		prefix := ""
		if pa.ByRef {
			prefix = "var "
		}
		parts = append(parts, fmt.Sprintf("%s%s : %s", prefix, pa.Ident, p.renderType(pa.Type)))
	}
	return strings.Join(parts, "; ")
}

func (p *printer) renderProcedure(d *ast.ProcedureDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "procedure %s(%s);\nbegin\n", d.Ident, p.renderParams(d.Params))
	b.WriteString(p.renderStmts(d.Body, 1))
	b.WriteString("end;")
	return b.String()
}

func (p *printer) renderFunction(d *ast.FunctionDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "function %s(%s) : %s;\nbegin\n", d.Ident, p.renderParams(d.Params), p.renderType(d.ResultType))
	b.WriteString(p.renderStmts(d.Body, 1))
	b.WriteString("end;")
	return b.String()
}

func (p *printer) renderRule(r *ast.Rule, depth int) string {
	pad := indent(depth)
	switch r.Kind {
	case ast.RuleSetRule:
		var quant []string
		for _, q := range r.Quantifiers {
			quant = append(quant, fmt.Sprintf("%s : %s", q.Ident, p.renderType(q.Type)))
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%sruleset %s do\n", pad, strings.Join(quant, "; "))
		for _, n := range r.Nested {
			b.WriteString(p.renderRule(n, depth+1))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%sendruleset;", pad)
		return b.String()
	case ast.AliasRule:
		var b strings.Builder
		fmt.Fprintf(&b, "%salias %s : %s do\n", pad, r.AliasIdent, p.renderVarRead(r.AliasTarget))
		for _, n := range r.Nested {
			b.WriteString(p.renderRule(n, depth+1))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%sendalias;", pad)
		return b.String()
	case ast.StartstateRule:
		var b strings.Builder
		fmt.Fprintf(&b, "%sstartstate %q\nbegin\n", pad, r.Ident)
		b.WriteString(p.renderStmts(r.Body, depth+1))
		fmt.Fprintf(&b, "%sendstartstate;", pad)
		return b.String()
	case ast.InvariantRule:
		return fmt.Sprintf("%sinvariant %q\n%s  %s;", pad, r.Ident, pad, p.renderExpr(r.Guard))
	case ast.LivenessRule:
		return fmt.Sprintf("%sliveness %q\n%s  %s;", pad, r.Ident, pad, p.renderExpr(r.Guard))
	case ast.CoverRule:
		return fmt.Sprintf("%scover %q\n%s  %s;", pad, r.Ident, pad, p.renderExpr(r.Guard))
	default:
		var b strings.Builder
		if r.Guard != nil {
			fmt.Fprintf(&b, "%srule %q %s ==> begin\n", pad, r.Ident, p.renderExpr(r.Guard))
		} else {
			fmt.Fprintf(&b, "%srule %q\nbegin\n", pad, r.Ident)
		}
		b.WriteString(p.renderStmts(r.Body, depth+1))
		fmt.Fprintf(&b, "%sendrule;", pad)
		return b.String()
	}
}
