package format

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

// intLitText renders an integer literal. The resolved AST only carries a
// *big.Int, with no record of the source radix it was written in, so every
// literal is rendered in decimal: a literal written in hex in the source is
// printed in decimal, not preserved as hex.
func intLitText(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func (p *printer) renderStmts(stmts []ast.Stmt, depth int) string {
	var b strings.Builder
	pad := indent(depth)
	for _, s := range stmts {
		b.WriteString(pad)
		b.WriteString(p.renderStmt(s, depth))
		b.WriteString("\n")
	}
	return b.String()
}

func (p *printer) renderStmt(s ast.Stmt, depth int) string {
	pad := indent(depth)
	switch s := s.(type) {
	case *ast.Assignment:
		return fmt.Sprintf("%s := %s;", p.renderVarRead(s.Target), p.renderExpr(s.Value))
	case *ast.IfChain:
		var b strings.Builder
		for i, arm := range s.Arms {
			switch {
			case arm.Cond == nil:
				b.WriteString("else\n")
			case i == 0:
				fmt.Fprintf(&b, "if %s then\n", p.renderExpr(arm.Cond))
			default:
				fmt.Fprintf(&b, "%selsif %s then\n", pad, p.renderExpr(arm.Cond))
			}
			b.WriteString(p.renderStmts(arm.Body, depth+1))
		}
		fmt.Fprintf(&b, "%sendif;", pad)
		return b.String()
	case *ast.For:
		if s.Domain != nil {
			var b strings.Builder
			fmt.Fprintf(&b, "for %s : %s do\n", s.Bound.Ident, p.renderType(s.Domain))
			b.WriteString(p.renderStmts(s.Body, depth+1))
			fmt.Fprintf(&b, "%sendfor;", pad)
			return b.String()
		}
		var b strings.Builder
		fmt.Fprintf(&b, "for %s := %s to %s", s.Bound.Ident, p.renderExpr(s.From), p.renderExpr(s.To))
		if s.Step != nil {
			fmt.Fprintf(&b, " by %s", intLitText(s.Step))
		}
		b.WriteString(" do\n")
		b.WriteString(p.renderStmts(s.Body, depth+1))
		fmt.Fprintf(&b, "%sendfor;", pad)
		return b.String()
	case *ast.While:
		var b strings.Builder
		fmt.Fprintf(&b, "while %s do\n", p.renderExpr(s.Cond))
		b.WriteString(p.renderStmts(s.Body, depth+1))
		fmt.Fprintf(&b, "%sendwhile;", pad)
		return b.String()
	case *ast.ProcCall:
		var args []string
		for _, a := range s.Args {
			args = append(args, p.renderExpr(a))
		}
		return fmt.Sprintf("%s(%s);", s.CalleeName, strings.Join(args, ", "))
	case *ast.Alias:
		var b strings.Builder
		fmt.Fprintf(&b, "alias %s : %s do\n", s.Ident, p.renderVarRead(s.Target))
		b.WriteString(p.renderStmts(s.Body, depth+1))
		fmt.Fprintf(&b, "%sendalias;", pad)
		return b.String()
	case *ast.Clear:
		return fmt.Sprintf("clear %s;", p.renderVarRead(s.Target))
	case *ast.ErrorStmt:
		return fmt.Sprintf("error %q;", s.Message)
	case *ast.Assert:
		if s.Message != "" {
			return fmt.Sprintf("assert %s %q;", p.renderExpr(s.Cond), s.Message)
		}
		return fmt.Sprintf("assert %s;", p.renderExpr(s.Cond))
	case *ast.Assume:
		return fmt.Sprintf("assume %s;", p.renderExpr(s.Cond))
	case *ast.Put:
		if s.Value != nil {
			return fmt.Sprintf("put %s;", p.renderExpr(s.Value))
		}
		return fmt.Sprintf("put %q;", s.Literal)
	case *ast.Return:
		if s.Value != nil {
			return fmt.Sprintf("return %s;", p.renderExpr(s.Value))
		}
		return "return;"
	default:
		return fmt.Sprintf("/* unsupported statement %T */", s)
	}
}

func (p *printer) renderVarRead(v *ast.VarRead) string {
	out := v.Ident
	for _, sel := range v.Path {
		switch sel := sel.(type) {
		case *ast.FieldSelector:
			out += "." + sel.Field
		case *ast.IndexSelector:
			out += "[" + p.renderExpr(sel.Index) + "]"
		}
	}
	return out
}

func (p *printer) renderExpr(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Lit:
		switch e.Kind {
		case ast.IntLit:
			return intLitText(e.Int)
		case ast.BoolLit:
			return fmt.Sprintf("%t", e.Bool)
		case ast.EnumLit:
			return fmt.Sprintf("%d", e.EnumIndex)
		default:
			return "undefined"
		}
	case *ast.VarRead:
		return p.renderVarRead(e)
	case *ast.BinOp:
		return fmt.Sprintf("%s %s %s", p.renderExpr(e.Left), binOpText(e.Op), p.renderExpr(e.Right))
	case *ast.Not:
		return "!" + p.renderExpr(e.Operand)
	case *ast.Ternary:
		return fmt.Sprintf("%s ? %s : %s", p.renderExpr(e.Cond), p.renderExpr(e.Then), p.renderExpr(e.Else))
	case *ast.Quantifier:
		kw := "forall"
		if e.Exists {
			kw = "exists"
		}
		return fmt.Sprintf("%s %s : %s do %s endforall", kw, e.Bound.Ident, p.renderType(e.Domain), p.renderExpr(e.Body))
	case *ast.IsUndefined:
		return "isundefined(" + p.renderVarRead(e.Operand) + ")"
	case *ast.FuncCall:
		var args []string
		for _, a := range e.Args {
			args = append(args, p.renderExpr(a))
		}
		return fmt.Sprintf("%s(%s)", e.CalleeName, strings.Join(args, ", "))
	default:
		return "?"
	}
}

func binOpText(op ast.BinaryOperator) string {
	switch op {
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
	case ast.OpEq, ast.OpBoolEq, ast.OpIntEq:
		return "="
	case ast.OpNeq, ast.OpBoolNeq, ast.OpIntNeq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLe:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGe:
		return ">="
	case ast.OpAnd:
		return "&"
	case ast.OpOr:
		return "|"
	case ast.OpImplies:
		return "->"
	default:
		return "?"
	}
}
