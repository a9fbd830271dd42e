package resolve

import (
	"math/big"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/source"
)

// positioned is implemented by every ast.Node (and hence every Expr/Stmt/Type)
// via embedding; it lets the resolver report a location without needing to
// know which concrete node it is looking at.
type positioned interface {
	Position() source.Position
}

func position(n positioned) source.Position { return n.Position() }

// underlying strips TypeRef indirection so callers can switch on the
// concrete type kind without chasing aliases themselves.
func underlying(t ast.Type) ast.Type {
	for {
		ref, ok := t.(*ast.TypeRef)
		if !ok || ref.Target == nil {
			return t
		}
		t = ref.Target
	}
}

func isBoolean(t ast.Type) bool {
	_, ok := underlying(t).(*ast.Boolean)
	return ok
}

func isRange(t ast.Type) (*ast.Range, bool) {
	r, ok := underlying(t).(*ast.Range)
	return r, ok
}

// sameType reports whether a and b denote the same type for the purposes of
// ternary-arm and assignment compatibility: identical concrete node, or two
// Ranges/Enums/Scalarsets/Booleans of matching shape.
func sameType(a, b ast.Type) bool {
	ua, ub := underlying(a), underlying(b)
	if ua == ub {
		return true
	}
	switch x := ua.(type) {
	case *ast.Boolean:
		_, ok := ub.(*ast.Boolean)
		return ok
	case *ast.Range:
		y, ok := ub.(*ast.Range)
		return ok && x.Low.Cmp(y.Low) == 0 && x.High.Cmp(y.High) == 0
	case *ast.Enum:
		y, ok := ub.(*ast.Enum)
		if !ok || len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if x.Values[i] != y.Values[i] {
				return false
			}
		}
		return true
	case *ast.Scalarset:
		y, ok := ub.(*ast.Scalarset)
		return ok && x.Size.Cmp(y.Size) == 0
	case *ast.Array:
		y, ok := ub.(*ast.Array)
		return ok && sameType(x.Index, y.Index) && sameType(x.Elem, y.Elem)
	case *ast.Record:
		y, ok := ub.(*ast.Record)
		return ok && x == y
	}
	return false
}

func boolType(pos ast.Node) *ast.Boolean { return &ast.Boolean{Node: pos} }

// rangeUnion returns the Range spanning both operand ranges under a binary
// arithmetic operator; spec §4.C requires a worst-case (not overflow-exact)
// result bound.
func rangeUnion(op ast.BinaryOperator, a, b *ast.Range) *ast.Range {
	lo, hi := new(big.Int), new(big.Int)
	switch op {
	case ast.OpAdd:
		lo.Add(a.Low, b.Low)
		hi.Add(a.High, b.High)
	case ast.OpSub:
		lo.Sub(a.Low, b.High)
		hi.Sub(a.High, b.Low)
	case ast.OpMul:
		candidates := []*big.Int{
			new(big.Int).Mul(a.Low, b.Low), new(big.Int).Mul(a.Low, b.High),
			new(big.Int).Mul(a.High, b.Low), new(big.Int).Mul(a.High, b.High),
		}
		lo.Set(candidates[0])
		hi.Set(candidates[0])
		for _, c := range candidates[1:] {
			if c.Cmp(lo) < 0 {
				lo.Set(c)
			}
			if c.Cmp(hi) > 0 {
				hi.Set(c)
			}
		}
	case ast.OpDiv:
		lo.Set(a.Low)
		hi.Set(a.High)
		if b.High.Sign() != 0 {
			lo.Quo(a.Low, b.High)
		}
	case ast.OpMod:
		lo.SetInt64(0)
		hi.Sub(b.High, big.NewInt(1))
		if hi.Sign() < 0 {
			hi.SetInt64(0)
		}
	}
	r := &ast.Range{Low: lo, High: hi}
	return r
}

func (r *resolver) expectBoolean(e ast.Expr) {
	if e.ResultType() != nil && !isBoolean(e.ResultType()) {
		if p, ok := e.(positioned); ok {
			r.errorf(position(p), "expected a boolean expression")
		}
	}
}

// resolveExpr computes e's result type, recursing into subexpressions first
// so every node's ResultType is set postorder, and returns the node that
// should replace e in its parent (itself, unless e was a bare enum-member
// reference the parser could not distinguish from a variable read).
func (r *resolver) resolveExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Lit:
		r.resolveLit(e)
		return e
	case *ast.VarRead:
		return r.resolveDesignatorExpr(e)
	case *ast.BinOp:
		r.resolveBinOp(e)
		return e
	case *ast.Not:
		e.Operand = r.resolveExpr(e.Operand)
		r.expectBoolean(e.Operand)
		e.SetResultType(boolType(e.Node))
		return e
	case *ast.Ternary:
		e.Cond = r.resolveExpr(e.Cond)
		r.expectBoolean(e.Cond)
		e.Then = r.resolveExpr(e.Then)
		e.Else = r.resolveExpr(e.Else)
		if e.Then.ResultType() != nil && e.Else.ResultType() != nil &&
			!sameType(e.Then.ResultType(), e.Else.ResultType()) {
			r.errorf(e.Position(), "ternary arms must have the same type")
		}
		e.SetResultType(e.Then.ResultType())
		return e
	case *ast.Quantifier:
		if e.Domain != nil {
			r.resolveType(e.Domain)
			r.checkSimpleType(e.Domain, e.Position())
		}
		e.Body = r.resolveExpr(e.Body)
		r.expectBoolean(e.Body)
		e.SetResultType(boolType(e.Node))
		return e
	case *ast.IsUndefined:
		r.resolveVarRead(e.Operand)
		e.SetResultType(boolType(e.Node))
		return e
	case *ast.FuncCall:
		r.resolveFuncCall(e)
		return e
	default:
		// Unknown expression kind; nothing further to check.
		return e
	}
}

// resolveDesignatorExpr resolves a VarRead used in expression (not l-value)
// position. A bare, path-less identifier that does not name a variable is
// checked against the module's declared constants, then every declared
// type's enum members, before being reported as undeclared: the parser
// cannot tell "N" the constant or "red" the enum member from a variable
// reference without having seen every const/type declaration.
func (r *resolver) resolveDesignatorExpr(v *ast.VarRead) ast.Expr {
	if v.Sym == nil && len(v.Path) == 0 {
		if lit := r.constLiteral(v); lit != nil {
			return lit
		}
		if lit := r.enumMemberLiteral(v); lit != nil {
			return lit
		}
	}
	r.resolveVarRead(v)
	return v
}

// constLiteral substitutes a reference to a module-level constant with its
// value, inline, the same way the parser substitutes any other literal:
// Murphi constants have no runtime storage, so by the time code generation
// sees an expression every constant reference must already be a Lit.
func (r *resolver) constLiteral(v *ast.VarRead) *ast.Lit {
	c, ok := r.model.Scope.LookupConst(v.Ident)
	if !ok {
		return nil
	}
	lit := &ast.Lit{ExprBase: ast.ExprBase{Node: v.Node}}
	if c.IsBool {
		lit.Kind = ast.BoolLit
		lit.Bool = c.Bool
		lit.SetResultType(boolType(v.Node))
	} else {
		lit.Kind = ast.IntLit
		lit.Int = c.Value
		lit.SetResultType(&ast.Range{Node: v.Node, Low: c.Value, High: c.Value})
	}
	return lit
}

// enumMemberLiteral searches every declared type for an Enum whose member
// list contains v's identifier text (v.Ident, which the parser keeps even
// when lookup fails).
func (r *resolver) enumMemberLiteral(v *ast.VarRead) *ast.Lit {
	name := v.Ident
	if name == "" {
		return nil
	}
	for _, alias := range r.model.Types {
		if en, ok := underlying(alias.Type).(*ast.Enum); ok {
			if idx := en.IndexOf(name); idx >= 0 {
				lit := &ast.Lit{ExprBase: ast.ExprBase{Node: v.Node}, Kind: ast.EnumLit, EnumType: en, EnumIndex: idx}
				lit.SetResultType(alias.Type)
				return lit
			}
		}
	}
	return nil
}

func (r *resolver) resolveLit(e *ast.Lit) {
	switch e.Kind {
	case ast.BoolLit:
		e.SetResultType(boolType(e.Node))
	case ast.IntLit:
		e.SetResultType(&ast.Range{Node: e.Node, Low: e.Int, High: e.Int})
	case ast.UndefinedLit:
		// Result type is determined by context (assignment target); leave
		// unset here and let the assignment/comparison site propagate it.
	}
}

// checkSimpleType enforces spec §4.C's restriction that quantifier domains
// (and, transitively, array index types) must be Range/Enum/Scalarset/
// Boolean — never Array/Record.
func (r *resolver) checkSimpleType(t ast.Type, pos source.Position) {
	switch underlying(t).(type) {
	case *ast.Range, *ast.Enum, *ast.Scalarset, *ast.Boolean:
	default:
		r.errorf(pos, "expected a simple type (range, enum, scalarset or boolean)")
	}
}

// resolveVarRead type-checks a designator: sym followed by zero or more
// field/index selectors, each of which must match the current type's shape.
func (r *resolver) resolveVarRead(v *ast.VarRead) {
	if v.Sym == nil {
		r.errorf(v.Position(), "undeclared identifier")
		return
	}
	t := v.Sym.Type
	for _, sel := range v.Path {
		switch sel := sel.(type) {
		case *ast.FieldSelector:
			rec, ok := underlying(t).(*ast.Record)
			if !ok {
				r.errorf(v.Position(), "'.%s' requires a record", sel.Field)
				return
			}
			f := rec.FieldByName(sel.Field)
			if f == nil {
				r.errorf(v.Position(), "record has no field '%s'", sel.Field)
				return
			}
			t = f.Type
		case *ast.IndexSelector:
			arr, ok := underlying(t).(*ast.Array)
			if !ok {
				r.errorf(v.Position(), "indexing requires an array")
				return
			}
			sel.Index = r.resolveExpr(sel.Index)
			if sel.Index.ResultType() != nil && !sameType(sel.Index.ResultType(), arr.Index) {
				r.errorf(v.Position(), "array index has the wrong type")
			}
			t = arr.Elem
		}
	}
	v.SetResultType(t)
}

var equalityOps = map[ast.BinaryOperator]bool{ast.OpEq: true, ast.OpNeq: true}
var ordering = map[ast.BinaryOperator]bool{ast.OpLt: true, ast.OpLe: true, ast.OpGt: true, ast.OpGe: true}
var arithmetic = map[ast.BinaryOperator]bool{ast.OpAdd: true, ast.OpSub: true, ast.OpMul: true, ast.OpDiv: true, ast.OpMod: true}

func (r *resolver) resolveBinOp(e *ast.BinOp) {
	e.Left = r.resolveExpr(e.Left)
	e.Right = r.resolveExpr(e.Right)
	lt, rt := e.Left.ResultType(), e.Right.ResultType()
	switch {
	case arithmetic[e.Op]:
		ll, lok := isRange(lt)
		rr, rok := isRange(rt)
		if !lok || !rok {
			r.errorf(e.Position(), "arithmetic operators require range operands")
			e.SetResultType(&ast.Range{Node: e.Node, Low: big.NewInt(0), High: big.NewInt(0)})
			return
		}
		e.SetResultType(rangeUnion(e.Op, ll, rr))
	case e.Op == ast.OpAnd || e.Op == ast.OpOr || e.Op == ast.OpImplies:
		r.expectBoolean(e.Left)
		r.expectBoolean(e.Right)
		e.SetResultType(boolType(e.Node))
	case ordering[e.Op]:
		if _, lok := isRange(lt); !lok {
			r.errorf(e.Position(), "ordering operators require range operands")
		}
		if _, rok := isRange(rt); !rok {
			r.errorf(e.Position(), "ordering operators require range operands")
		}
		e.SetResultType(boolType(e.Node))
	case equalityOps[e.Op]:
		if lt != nil && rt != nil && !sameType(lt, rt) {
			r.errorf(e.Position(), "comparison operands must have matching types")
		}
		// Rewrite the generic comparison into its type-specialised form
		// (spec §4.C); strength reduction downstream only ever sees these.
		if isBoolean(lt) || isBoolean(rt) {
			if e.Op == ast.OpEq {
				e.Op = ast.OpBoolEq
			} else {
				e.Op = ast.OpBoolNeq
			}
		} else {
			if e.Op == ast.OpEq {
				e.Op = ast.OpIntEq
			} else {
				e.Op = ast.OpIntNeq
			}
		}
		e.SetResultType(boolType(e.Node))
	default:
		e.SetResultType(boolType(e.Node))
	}
}

func (r *resolver) resolveFuncCall(e *ast.FuncCall) {
	for i, a := range e.Args {
		e.Args[i] = r.resolveExpr(a)
	}
	if e.Callee == nil {
		for _, f := range r.model.Functions {
			if f.Ident == e.CalleeName {
				e.Callee = f
				break
			}
		}
	}
	if e.Callee == nil {
		r.errorf(e.Position(), "call to undeclared function '%s'", e.CalleeName)
		return
	}
	if len(e.Args) != len(e.Callee.Params) {
		r.errorf(e.Position(), "function '%s' expects %d argument(s), got %d",
			e.CalleeName, len(e.Callee.Params), len(e.Args))
	}
	e.SetResultType(e.Callee.ResultType)
}
