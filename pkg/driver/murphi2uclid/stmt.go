package murphi2uclid

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

// renderStmt assumes checkStmt has already rejected every construct in this
// file's scope that Uclid5 cannot express (alias, put, isundefined, early
// return, non-unit step, composite clear); only the remaining shapes are
// handled here.
func (g *gen) renderStmt(s ast.Stmt, indent int) string {
	switch s := s.(type) {
	case *ast.Assignment:
		return fmt.Sprintf("%s = %s;", g.renderExpr(s.Target), g.renderExpr(s.Value))
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
		if s.Domain != nil {
			return fmt.Sprintf("for (%s : %s) {\n%s%s}", s.Bound.Ident, g.typeName(s.Domain),
				g.renderStmts(s.Body, indent+1), strings.Repeat("  ", indent))
		}
		return fmt.Sprintf("for (%s : %s) in range(%s, %s) {\n%s%s}", s.Bound.Ident, g.numType,
			g.renderExpr(s.From), g.renderExpr(s.To), g.renderStmts(s.Body, indent+1), strings.Repeat("  ", indent))
	case *ast.While:
		return fmt.Sprintf("while (%s) {\n%s%s}", g.renderExpr(s.Cond), g.renderStmts(s.Body, indent+1), strings.Repeat("  ", indent))
	case *ast.ProcCall:
		var args []string
		for _, a := range s.Args {
			args = append(args, g.renderExpr(a))
		}
		return fmt.Sprintf("call %s(%s);", s.CalleeName, strings.Join(args, ", "))
	case *ast.Clear:
		return fmt.Sprintf("%s = %s;", g.renderExpr(s.Target), zeroValue(s.Target.ResultType()))
	case *ast.ErrorStmt:
		return fmt.Sprintf("assert (false); /* %s */", s.Message)
	case *ast.Assert:
		return fmt.Sprintf("assert (%s);", g.renderExpr(s.Cond))
	case *ast.Assume:
		return fmt.Sprintf("assume (%s);", g.renderExpr(s.Cond))
	case *ast.Return:
		if s.Value != nil {
			return fmt.Sprintf("return %s;", g.renderExpr(s.Value))
		}
		return "return;"
	default:
		return fmt.Sprintf("/* unsupported statement %T */", s)
	}
}

func zeroValue(t ast.Type) string {
	switch underlying(t).(type) {
	case *ast.Boolean:
		return "false"
	default:
		return "0"
	}
}
