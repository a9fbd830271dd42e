package fold

import "github.com/Smattr/rumur/pkg/ast"

// reduceBinOp lowers the higher-level binary forms spec §4.D's strength
// reduction rewrites away, returning e itself (by identity) when no rewrite
// applies. Every rewrite here is re-folded by the caller, so e.g. `true -> x`
// ends up simplified all the way to `x` rather than stopping at `¬true ∨ x`.
func (f *folder) reduceBinOp(e *ast.BinOp) ast.Expr {
	switch e.Op {
	case ast.OpImplies:
		// a -> b => ¬a ∨ b
		f.stats.IdentitiesApplied++
		return or(e.Node, not(e.Node, e.Left), e.Right)
	case ast.OpLe:
		// a <= b => a < b ∨ a = b
		f.stats.IdentitiesApplied++
		return or(e.Node, lt(e.Node, e.Left, e.Right), intEq(e.Node, e.Left, e.Right))
	case ast.OpGt:
		// a > b => b < a
		f.stats.IdentitiesApplied++
		return lt(e.Node, e.Right, e.Left)
	case ast.OpGe:
		// a >= b => b < a ∨ a = b
		f.stats.IdentitiesApplied++
		return or(e.Node, lt(e.Node, e.Right, e.Left), intEq(e.Node, e.Left, e.Right))
	case ast.OpBoolEq:
		// a = b (boolean) => (a ∧ b) ∨ (¬a ∧ ¬b)
		f.stats.IdentitiesApplied++
		return or(e.Node,
			and(e.Node, e.Left, e.Right),
			and(e.Node, not(e.Node, e.Left), not(e.Node, e.Right)))
	case ast.OpBoolNeq:
		// a != b (boolean) => (a ∧ ¬b) ∨ (¬a ∧ b)
		f.stats.IdentitiesApplied++
		return or(e.Node,
			and(e.Node, e.Left, not(e.Node, e.Right)),
			and(e.Node, not(e.Node, e.Left), e.Right))
	default:
		return e
	}
}

func boolean(n ast.Node) *ast.Boolean { return &ast.Boolean{Node: n} }

func not(n ast.Node, operand ast.Expr) ast.Expr {
	r := &ast.Not{ExprBase: ast.ExprBase{Node: n}, Operand: operand}
	r.SetResultType(boolean(n))
	return r
}

func and(n ast.Node, l, r ast.Expr) ast.Expr {
	b := &ast.BinOp{ExprBase: ast.ExprBase{Node: n}, Op: ast.OpAnd, Left: l, Right: r}
	b.SetResultType(boolean(n))
	return b
}

func or(n ast.Node, l, r ast.Expr) ast.Expr {
	b := &ast.BinOp{ExprBase: ast.ExprBase{Node: n}, Op: ast.OpOr, Left: l, Right: r}
	b.SetResultType(boolean(n))
	return b
}

func lt(n ast.Node, l, r ast.Expr) ast.Expr {
	b := &ast.BinOp{ExprBase: ast.ExprBase{Node: n}, Op: ast.OpLt, Left: l, Right: r}
	b.SetResultType(boolean(n))
	return b
}

func intEq(n ast.Node, l, r ast.Expr) ast.Expr {
	b := &ast.BinOp{ExprBase: ast.ExprBase{Node: n}, Op: ast.OpIntEq, Left: l, Right: r}
	b.SetResultType(boolean(n))
	return b
}
