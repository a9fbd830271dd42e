package murphi2uclid

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
			return fmt.Sprintf("%t", e.Bool)
		case ast.EnumLit:
			return fmt.Sprintf("%d", e.EnumIndex)
		default:
			return "0"
		}
	case *ast.VarRead:
		out := e.Ident
		for _, sel := range e.Path {
			switch sel := sel.(type) {
			case *ast.FieldSelector:
				out += "." + sel.Field
			case *ast.IndexSelector:
				out += fmt.Sprintf("[%s]", g.renderExpr(sel.Index))
			}
		}
		return out
	case *ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", g.renderExpr(e.Left), uclidOp(e.Op), g.renderExpr(e.Right))
	case *ast.Not:
		return fmt.Sprintf("(!%s)", g.renderExpr(e.Operand))
	case *ast.Ternary:
		return fmt.Sprintf("(if (%s) then %s else %s)", g.renderExpr(e.Cond), g.renderExpr(e.Then), g.renderExpr(e.Else))
	case *ast.Quantifier:
		kw := "forall"
		if e.Exists {
			kw = "exists"
		}
		return fmt.Sprintf("(%s (%s : %s) :: %s)", kw, e.Bound.Ident, g.typeName(e.Domain), g.renderExpr(e.Body))
	case *ast.FuncCall:
		var args []string
		for _, a := range e.Args {
			args = append(args, g.renderExpr(a))
		}
		return fmt.Sprintf("%s(%s)", e.CalleeName, strings.Join(args, ", "))
	default:
		return "0"
	}
}

func uclidOp(op ast.BinaryOperator) string {
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
	default:
		return "?"
	}
}
