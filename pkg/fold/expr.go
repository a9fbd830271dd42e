package fold

import (
	"math/big"

	"github.com/Smattr/rumur/pkg/ast"
)

// foldExpr is the combined constant-folding/strength-reduction postorder
// rewrite (spec §4.D): children are folded first, then this expression is
// folded against literal operands, algebraic identities and the strength-
// reduction rewrites that lower higher-level forms (->, <=, >, >=, boolean
// (in)equality, exists) into the smaller set the code generator targets.
func (f *folder) foldExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Lit:
		return e
	case *ast.VarRead:
		for i, sel := range e.Path {
			if idx, ok := sel.(*ast.IndexSelector); ok {
				idx.Index = f.foldExpr(idx.Index)
				e.Path[i] = idx
			}
		}
		return e
	case *ast.BinOp:
		e.Left = f.foldExpr(e.Left)
		e.Right = f.foldExpr(e.Right)
		return f.foldBinOp(e)
	case *ast.Not:
		e.Operand = f.foldExpr(e.Operand)
		if inner, ok := e.Operand.(*ast.Not); ok {
			// ¬¬x → x
			f.stats.IdentitiesApplied++
			return inner.Operand
		}
		if lit, ok := e.Operand.(*ast.Lit); ok && lit.Kind == ast.BoolLit {
			f.stats.ConstantsFolded++
			return boolLit(e.Node, !lit.Bool)
		}
		return e
	case *ast.Ternary:
		e.Cond = f.foldExpr(e.Cond)
		e.Then = f.foldExpr(e.Then)
		e.Else = f.foldExpr(e.Else)
		if lit, ok := e.Cond.(*ast.Lit); ok && lit.Kind == ast.BoolLit {
			// if true then a else b → a; if false then a else b → b
			f.stats.IdentitiesApplied++
			if lit.Bool {
				return e.Then
			}
			return e.Else
		}
		if sameLiteralExpr(e.Then, e.Else) {
			// if c then a else a → a
			f.stats.IdentitiesApplied++
			return e.Then
		}
		return e
	case *ast.Quantifier:
		e.Body = f.foldExpr(e.Body)
		if e.Exists {
			// exists Q . P => ¬ forall Q . ¬P
			f.stats.IdentitiesApplied++
			negatedBody := &ast.Not{ExprBase: ast.ExprBase{Node: e.Node}, Operand: e.Body}
			negatedBody.SetResultType(e.Body.ResultType())
			inner := &ast.Quantifier{ExprBase: ast.ExprBase{Node: e.Node}, Bound: e.Bound, Domain: e.Domain,
				Exists: false, Body: negatedBody}
			inner.SetResultType(e.ResultType())
			outer := &ast.Not{ExprBase: ast.ExprBase{Node: e.Node}, Operand: inner}
			outer.SetResultType(e.ResultType())
			return outer
		}
		return e
	case *ast.IsUndefined:
		return e
	case *ast.FuncCall:
		for i, a := range e.Args {
			e.Args[i] = f.foldExpr(a)
		}
		return e
	default:
		return e
	}
}

func boolLit(n ast.Node, v bool) *ast.Lit {
	lit := &ast.Lit{ExprBase: ast.ExprBase{Node: n}, Kind: ast.BoolLit, Bool: v}
	lit.SetResultType(&ast.Boolean{Node: n})
	return lit
}

func intLit(n ast.Node, v *big.Int, typ ast.Type) *ast.Lit {
	lit := &ast.Lit{ExprBase: ast.ExprBase{Node: n}, Kind: ast.IntLit, Int: v}
	lit.SetResultType(typ)
	return lit
}

// sameLiteralExpr is a conservative syntactic equality check used only for
// the "if c then a else a" identity: both arms must be literals of the same
// kind and value. Identical non-literal arms are not recognised.
func sameLiteralExpr(a, b ast.Expr) bool {
	la, aok := a.(*ast.Lit)
	lb, bok := b.(*ast.Lit)
	if !aok || !bok || la.Kind != lb.Kind {
		return false
	}
	switch la.Kind {
	case ast.BoolLit:
		return la.Bool == lb.Bool
	case ast.IntLit:
		return la.Int != nil && lb.Int != nil && la.Int.Cmp(lb.Int) == 0
	case ast.EnumLit:
		return la.EnumType == lb.EnumType && la.EnumIndex == lb.EnumIndex
	}
	return false
}

func (f *folder) foldBinOp(e *ast.BinOp) ast.Expr {
	// Strength reduction: lower ->, <=, >, >= and the type-specialised
	// (in)equalities into the smaller operator set before attempting to
	// fold literals, so literal folding only ever has to handle +,-,*,/,
	// %, <, =, !=, & and |.
	if reduced := f.reduceBinOp(e); reduced != e {
		return f.foldExpr(reduced)
	}

	lhs, lok := e.Left.(*ast.Lit)
	rhs, rok := e.Right.(*ast.Lit)

	switch e.Op {
	case ast.OpAnd:
		if lok && lhs.Kind == ast.BoolLit {
			f.stats.IdentitiesApplied++
			if !lhs.Bool {
				return boolLit(e.Node, false) // x ∧ false → false
			}
			return e.Right // x ∧ true → x (commuted)
		}
		if rok && rhs.Kind == ast.BoolLit {
			f.stats.IdentitiesApplied++
			if !rhs.Bool {
				return boolLit(e.Node, false)
			}
			return e.Left
		}
	case ast.OpOr:
		if lok && lhs.Kind == ast.BoolLit {
			f.stats.IdentitiesApplied++
			if lhs.Bool {
				return boolLit(e.Node, true) // x ∨ true → true
			}
			return e.Right // x ∨ false → x
		}
		if rok && rhs.Kind == ast.BoolLit {
			f.stats.IdentitiesApplied++
			if rhs.Bool {
				return boolLit(e.Node, true)
			}
			return e.Left
		}
	case ast.OpAdd:
		if rok && rhs.Kind == ast.IntLit && rhs.Int.Sign() == 0 {
			f.stats.IdentitiesApplied++
			return e.Left // x + 0 → x
		}
		if lok && lhs.Kind == ast.IntLit && lhs.Int.Sign() == 0 {
			f.stats.IdentitiesApplied++
			return e.Right
		}
	case ast.OpSub:
		if rok && rhs.Kind == ast.IntLit && rhs.Int.Sign() == 0 {
			f.stats.IdentitiesApplied++
			return e.Left // x - 0 → x
		}
	case ast.OpMul:
		if rok && rhs.Kind == ast.IntLit {
			switch rhs.Int.Int64() {
			case 1:
				f.stats.IdentitiesApplied++
				return e.Left // x × 1 → x
			case 0:
				f.stats.IdentitiesApplied++
				return intLit(e.Node, big.NewInt(0), e.ResultType())
			}
		}
		if lok && lhs.Kind == ast.IntLit {
			switch lhs.Int.Int64() {
			case 1:
				f.stats.IdentitiesApplied++
				return e.Right
			case 0:
				f.stats.IdentitiesApplied++
				return intLit(e.Node, big.NewInt(0), e.ResultType())
			}
		}
	case ast.OpDiv:
		if rok && rhs.Kind == ast.IntLit && rhs.Int.Cmp(big.NewInt(1)) == 0 {
			f.stats.IdentitiesApplied++
			return e.Left // x / 1 → x
		}
	}

	if !lok || !rok || lhs.Int == nil || rhs.Int == nil {
		return e
	}
	// Division/modulo by a literal zero is a RUNTIME error (spec §4.D), not
	// a compile-time fold; leave the node for the code generator to emit
	// the checked division.
	if (e.Op == ast.OpDiv || e.Op == ast.OpMod) && rhs.Int.Sign() == 0 {
		return e
	}

	result := new(big.Int)
	switch e.Op {
	case ast.OpAdd:
		result.Add(lhs.Int, rhs.Int)
	case ast.OpSub:
		result.Sub(lhs.Int, rhs.Int)
	case ast.OpMul:
		result.Mul(lhs.Int, rhs.Int)
	case ast.OpDiv:
		result.Quo(lhs.Int, rhs.Int)
	case ast.OpMod:
		result.Mod(lhs.Int, rhs.Int)
	case ast.OpIntEq:
		f.stats.ConstantsFolded++
		return boolLit(e.Node, lhs.Int.Cmp(rhs.Int) == 0)
	case ast.OpIntNeq:
		f.stats.ConstantsFolded++
		return boolLit(e.Node, lhs.Int.Cmp(rhs.Int) != 0)
	case ast.OpLt:
		f.stats.ConstantsFolded++
		return boolLit(e.Node, lhs.Int.Cmp(rhs.Int) < 0)
	default:
		return e
	}
	f.stats.ConstantsFolded++
	return intLit(e.Node, result, e.ResultType())
}
