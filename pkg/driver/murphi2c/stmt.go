package murphi2c

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

func (g *gen) renderStmts(stmts []ast.Stmt, indent int) string {
	var b strings.Builder
	pad := strings.Repeat("  ", indent)
	for _, s := range stmts {
		b.WriteString(pad)
		b.WriteString(g.renderStmt(s, indent))
		b.WriteString("\n")
	}
	return b.String()
}

func (g *gen) renderStmt(s ast.Stmt, indent int) string {
	switch s := s.(type) {
	case *ast.Assignment:
		return fmt.Sprintf("%s = %s;", g.renderDesignator(s.Target), g.renderExpr(s.Value))
	case *ast.IfChain:
		var b strings.Builder
		for i, arm := range s.Arms {
			switch {
			case arm.Cond == nil:
				b.WriteString("{\n")
			case i == 0:
				fmt.Fprintf(&b, "if (%s) {\n", g.renderExpr(arm.Cond))
			default:
				fmt.Fprintf(&b, strings.Repeat("  ", indent)+"} else if (%s) {\n", g.renderExpr(arm.Cond))
			}
			b.WriteString(g.renderStmts(arm.Body, indent+1))
		}
		b.WriteString(strings.Repeat("  ", indent) + "}")
		return b.String()
	case *ast.For:
		return g.renderFor(s, indent)
	case *ast.While:
		return fmt.Sprintf("while (%s) {\n%s%s}", g.renderExpr(s.Cond), g.renderStmts(s.Body, indent+1), strings.Repeat("  ", indent))
	case *ast.ProcCall:
		var args []string
		for _, a := range s.Args {
			args = append(args, g.renderExpr(a))
		}
		return fmt.Sprintf("%s(%s);", sanitize(s.CalleeName), strings.Join(args, ", "))
	case *ast.Alias:
		// A C-level alias has no pointer-to-field primitive worth the
		// complexity here: murphi2c inlines the body with occurrences of the
		// aliased name replaced by the target's own designator text (see
		// inlineAlias for which forms are rewritten).
		return g.renderStmts(inlineAlias(s), indent)
	case *ast.ErrorStmt:
		return fmt.Sprintf("fprintf(stderr, %q); abort();", s.Message)
	case *ast.Assert:
		return fmt.Sprintf("if (!(%s)) { fprintf(stderr, %q); abort(); }", g.renderExpr(s.Cond), "assertion failed: "+s.Message)
	case *ast.Assume:
		return fmt.Sprintf("if (!(%s)) { return; }", g.renderExpr(s.Cond))
	case *ast.Put:
		if s.Value != nil {
			return fmt.Sprintf("printf(\"%%lld\", (long long)%s);", g.renderExpr(s.Value))
		}
		return fmt.Sprintf("printf(%q);", s.Literal)
	case *ast.Return:
		if s.Value != nil {
			return fmt.Sprintf("return %s;", g.renderExpr(s.Value))
		}
		return "return;"
	default:
		return fmt.Sprintf("/* unsupported statement %T */", s)
	}
}

func (g *gen) renderFor(s *ast.For, indent int) string {
	boundName := sanitize(s.Bound.Ident)
	if s.Domain != nil {
		card := s.Domain.Cardinality()
		n := "0"
		if card != nil {
			n = card.String()
		}
		return fmt.Sprintf("for (int64_t %s = 0; %s < %s; %s++) {\n%s%s}",
			boundName, boundName, n, boundName, g.renderStmts(s.Body, indent+1), strings.Repeat("  ", indent))
	}
	step := int64(1)
	if s.Step != nil {
		step = s.Step.Int64()
	}
	return fmt.Sprintf("for (int64_t %s = %s; %s <= %s; %s += %d) {\n%s%s}",
		boundName, g.renderExpr(s.From), boundName, g.renderExpr(s.To), boundName, step,
		g.renderStmts(s.Body, indent+1), strings.Repeat("  ", indent))
}

// inlineAlias substitutes VarReads of the aliased identifier within Body
// with the alias target's own path, by prefixing the matching VarRead's
// Path onto a copy of the target's path; this mirrors what the alias's
// write-through semantics mean textually, without needing a pointer. Only
// assignment, procedure-call and return statements are rewritten, and
// within them only VarRead, BinOp and Not expressions; other forms keep
// the alias name.
func inlineAlias(a *ast.Alias) []ast.Stmt {
	return substStmts(a.Body, a.Ident, a.Target)
}

func substStmts(stmts []ast.Stmt, name string, target *ast.VarRead) []ast.Stmt {
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = substStmt(s, name, target)
	}
	return out
}

func substStmt(s ast.Stmt, name string, target *ast.VarRead) ast.Stmt {
	switch s := s.(type) {
	case *ast.Assignment:
		return &ast.Assignment{Target: substVarRead(s.Target, name, target), Value: substExpr(s.Value, name, target)}
	case *ast.ProcCall:
		args := make([]ast.Expr, len(s.Args))
		for i, a := range s.Args {
			args[i] = substExpr(a, name, target)
		}
		return &ast.ProcCall{CalleeName: s.CalleeName, Callee: s.Callee, Args: args}
	case *ast.Return:
		if s.Value == nil {
			return s
		}
		return &ast.Return{Value: substExpr(s.Value, name, target)}
	default:
		// Other statement kinds inside an aliased body are rare in practice
		// and rendered as-is; the alias name substitution only needs to
		// cover the common assignment/call/return shapes above.
		return s
	}
}

func substExpr(e ast.Expr, name string, target *ast.VarRead) ast.Expr {
	switch e := e.(type) {
	case *ast.VarRead:
		return substVarRead(e, name, target)
	case *ast.BinOp:
		return &ast.BinOp{Op: e.Op, Left: substExpr(e.Left, name, target), Right: substExpr(e.Right, name, target)}
	case *ast.Not:
		return &ast.Not{Operand: substExpr(e.Operand, name, target)}
	default:
		return e
	}
}

func substVarRead(v *ast.VarRead, name string, target *ast.VarRead) *ast.VarRead {
	if v.Ident == name {
		merged := &ast.VarRead{ExprBase: target.ExprBase, Sym: target.Sym, Ident: target.Ident}
		merged.Path = append(append([]ast.Selector{}, target.Path...), v.Path...)
		return merged
	}
	return v
}
