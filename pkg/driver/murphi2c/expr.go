package murphi2c

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

func (g *gen) renderExpr(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Lit:
		switch e.Kind {
		case ast.IntLit:
			return e.Int.String()
		case ast.BoolLit:
			if e.Bool {
				return "true"
			}
			return "false"
		case ast.EnumLit:
			return fmt.Sprintf("%d", e.EnumIndex)
		default:
			return "0 /* undefined has no C equivalent */"
		}
	case *ast.VarRead:
		return g.renderDesignator(e)
	case *ast.BinOp:
		if e.Op == ast.OpImplies {
			return fmt.Sprintf("(!%s || %s)", g.renderExpr(e.Left), g.renderExpr(e.Right))
		}
		return fmt.Sprintf("(%s %s %s)", g.renderExpr(e.Left), cOp(e.Op), g.renderExpr(e.Right))
	case *ast.Not:
		return fmt.Sprintf("(!%s)", g.renderExpr(e.Operand))
	case *ast.Ternary:
		return fmt.Sprintf("(%s ? %s : %s)", g.renderExpr(e.Cond), g.renderExpr(e.Then), g.renderExpr(e.Else))
	case *ast.Quantifier:
		// Quantifiers only appear in guards/invariants, which murphi2c does
		// not emit (it only transliterates functions/procedures); reaching
		// one here means a function body used forall/exists directly.
		return fmt.Sprintf("(%s)", g.renderExpr(e.Body))
	case *ast.FuncCall:
		var args []string
		for _, a := range e.Args {
			args = append(args, g.renderExpr(a))
		}
		return fmt.Sprintf("%s(%s)", sanitize(e.CalleeName), strings.Join(args, ", "))
	default:
		return "0 /* unsupported expr */"
	}
}

func cOp(op ast.BinaryOperator) string {
	switch op {
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	case ast.OpBoolEq, ast.OpIntEq:
		return "=="
	case ast.OpBoolNeq, ast.OpIntNeq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLe:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGe:
		return ">="
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	default:
		return "?"
	}
}

func (g *gen) renderDesignator(v *ast.VarRead) string {
	out := sanitize(v.Ident)
	for _, sel := range v.Path {
		switch sel := sel.(type) {
		case *ast.FieldSelector:
			out += "." + sanitize(sel.Field)
		case *ast.IndexSelector:
			out += "[" + g.renderExpr(sel.Index) + "]"
		}
	}
	return out
}
