package codegen

import (
	"fmt"

	"github.com/Smattr/rumur/pkg/ast"
)

// renderExpr renders e as a Go expression of type runtime.Maybe[int64]. ctx
// names the enclosing rule/procedure/function, attached to any ModelError
// panic raised by an undefined-value read or an out-of-range write reached
// while evaluating e.
func (g *gen) renderExpr(e ast.Expr, ctx string) string {
	switch e := e.(type) {
	case *ast.Lit:
		return g.renderLit(e)
	case *ast.VarRead:
		d := g.resolve(e, ctx)
		return g.readScalar(d)
	case *ast.BinOp:
		return g.renderBinOp(e, ctx)
	case *ast.Not:
		return fmt.Sprintf("boolMaybe(!%s)", g.requireBool(e.Operand, ctx))
	case *ast.Ternary:
		return fmt.Sprintf("func() runtime.Maybe[int64] {\nif %s {\nreturn %s\n}\nreturn %s\n}()",
			g.requireBool(e.Cond, ctx), g.renderExpr(e.Then, ctx), g.renderExpr(e.Else, ctx))
	case *ast.Quantifier:
		return g.renderQuantifier(e, ctx)
	case *ast.IsUndefined:
		d := g.resolve(e.Operand, ctx)
		return fmt.Sprintf("boolMaybe(!(%s))", g.isDefinedExpr(d))
	case *ast.FuncCall:
		return g.renderCall(e, ctx)
	default:
		return fmt.Sprintf("runtime.Undefined[int64]() /* unsupported expr %T */", e)
	}
}

func (g *gen) renderLit(l *ast.Lit) string {
	switch l.Kind {
	case ast.IntLit:
		return fmt.Sprintf("runtime.Just(int64(%s))", l.Int.String())
	case ast.BoolLit:
		if l.Bool {
			return "runtime.Just(int64(1))"
		}
		return "runtime.Just(int64(0))"
	case ast.EnumLit:
		return fmt.Sprintf("runtime.Just(int64(%d))", l.EnumIndex)
	case ast.UndefinedLit:
		return "runtime.Undefined[int64]()"
	default:
		return "runtime.Undefined[int64]()"
	}
}

// requireBool renders e (a Boolean-typed expression) as a native Go bool,
// panicking with a ModelError if e's value is undefined.
func (g *gen) requireBool(e ast.Expr, ctx string) string {
	return fmt.Sprintf("(%s.Require(%q) != 0)", g.renderExpr(e, ctx), ctx)
}

// isDefinedExpr renders a Go bool expression reporting whether d currently
// holds a value, without reading (and so without risking an undefined-read
// panic on) the value itself.
func (g *gen) isDefinedExpr(d designator) string {
	if !d.isState {
		return d.goExpr + ".Defined"
	}
	return fmt.Sprintf("st.IsDefined(%s)", d.definedExpr)
}

func (g *gen) renderBinOp(e *ast.BinOp, ctx string) string {
	l := g.renderExpr(e.Left, ctx)
	r := g.renderExpr(e.Right, ctx)
	switch e.Op {
	case ast.OpAnd:
		return fmt.Sprintf("boolMaybe(%s.Require(%q) != 0 && %s.Require(%q) != 0)", l, ctx, r, ctx)
	case ast.OpOr:
		return fmt.Sprintf("boolMaybe(%s.Require(%q) != 0 || %s.Require(%q) != 0)", l, ctx, r, ctx)
	case ast.OpBoolEq:
		return fmt.Sprintf("boolMaybe((%s.Require(%q) != 0) == (%s.Require(%q) != 0))", l, ctx, r, ctx)
	case ast.OpBoolNeq:
		return fmt.Sprintf("boolMaybe((%s.Require(%q) != 0) != (%s.Require(%q) != 0))", l, ctx, r, ctx)
	case ast.OpIntEq:
		return fmt.Sprintf("boolMaybe(%s.Require(%q) == %s.Require(%q))", l, ctx, r, ctx)
	case ast.OpIntNeq:
		return fmt.Sprintf("boolMaybe(%s.Require(%q) != %s.Require(%q))", l, ctx, r, ctx)
	case ast.OpLt:
		return fmt.Sprintf("boolMaybe(%s.Require(%q) < %s.Require(%q))", l, ctx, r, ctx)
	case ast.OpAdd:
		return fmt.Sprintf("runtime.Just(%s.Require(%q) + %s.Require(%q))", l, ctx, r, ctx)
	case ast.OpSub:
		return fmt.Sprintf("runtime.Just(%s.Require(%q) - %s.Require(%q))", l, ctx, r, ctx)
	case ast.OpMul:
		return fmt.Sprintf("runtime.Just(%s.Require(%q) * %s.Require(%q))", l, ctx, r, ctx)
	case ast.OpDiv:
		return fmt.Sprintf("runtime.Just(checkedDiv(%q, %s.Require(%q), %s.Require(%q)))", ctx, l, ctx, r, ctx)
	case ast.OpMod:
		return fmt.Sprintf("runtime.Just(checkedMod(%q, %s.Require(%q), %s.Require(%q)))", ctx, l, ctx, r, ctx)
	default:
		return fmt.Sprintf("runtime.Undefined[int64]() /* unsupported op %v */", e.Op)
	}
}

// renderQuantifier renders a forall expression (exists is rewritten away by
// pkg/fold's strength reduction) as an immediately-invoked Go closure
// iterating the bound variable's Domain and short-circuiting on the first
// false body.
func (g *gen) renderQuantifier(q *ast.Quantifier, ctx string) string {
	boundName := g.localName(q.Bound)
	card := q.Domain.Cardinality()
	n := int64(0)
	if card != nil && card.IsInt64() {
		n = card.Int64()
	}
	low := rangeLow(q.Domain)
	valExpr := "int64(_i)"
	if low != "" {
		valExpr = fmt.Sprintf("int64(_i) + (%s)", low)
	}
	return fmt.Sprintf(`func() runtime.Maybe[int64] {
for _i := int64(0); _i < %d; _i++ {
%s := runtime.Just(%s)
if !(%s) {
return runtime.Just(int64(0))
}
}
return runtime.Just(int64(1))
}()`, n, boundName, valExpr, g.requireBool(q.Body, ctx))
}

func (g *gen) renderCall(call *ast.FuncCall, ctx string) string {
	name := ident("Fn", call.CalleeName)
	args := g.renderArgs(call.Callee.Params, call.Args, ctx)
	prefix := ""
	if usesState(call.Callee.Body) {
		prefix = "st, "
	}
	return fmt.Sprintf("%s(%s%s)", name, prefix, args)
}

func (g *gen) renderArgs(params []ast.Param, args []ast.Expr, ctx string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		if i < len(params) && params[i].ByRef {
			if vr, ok := a.(*ast.VarRead); ok {
				d := g.resolve(vr, ctx)
				out += g.addressable(d, ctx)
				continue
			}
		}
		out += g.renderExpr(a, ctx)
	}
	return out
}

// addressable renders a Go expression of pointer type (including the
// leading &) suitable for a by-reference argument. A local designator is
// already an addressable Go lvalue. A scalar state-resident designator is
// not itself addressable (it lives behind bit-packed accessors), so it
// round-trips through a local shadow copy written back after the call
// returns: callees that alias the same state slot through two different
// by-reference parameters will not observe each other's writes until their
// respective calls return. A composite (record/array) state-resident
// designator is not supported as a by-reference argument; doing so would
// need a recursive leaf-by-leaf shadow copy symmetric with compositeAssign,
// tracked as a follow-up rather than built here.
func (g *gen) addressable(d designator, ctx string) string {
	if !d.isState {
		return "&" + d.goExpr
	}
	if !isScalarLeaf(d.typ) {
		return fmt.Sprintf("nil /* unsupported: composite by-reference argument aliasing state, %s */", ctx)
	}
	shadow := g.tmp()
	return fmt.Sprintf("func() *runtime.Maybe[int64] { %s := %s; return &%s }()", shadow, g.readScalar(d), shadow)
}

// usesState reports whether any statement in body touches a state-slot
// variable, so callers only pass the state pointer to functions/procedures
// that actually need it. It is a conservative syntactic walk, not a full
// data-flow analysis: any VarRead of a state-slot symbol anywhere in body
// (including nested call arguments) counts.
func usesState(body []ast.Stmt) bool {
	for _, s := range body {
		if stmtUsesState(s) {
			return true
		}
	}
	return false
}

func stmtUsesState(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.Assignment:
		return varReadUsesState(s.Target) || exprUsesState(s.Value)
	case *ast.IfChain:
		for _, arm := range s.Arms {
			if arm.Cond != nil && exprUsesState(arm.Cond) {
				return true
			}
			if usesState(arm.Body) {
				return true
			}
		}
	case *ast.For:
		if (s.From != nil && exprUsesState(s.From)) || (s.To != nil && exprUsesState(s.To)) {
			return true
		}
		return usesState(s.Body)
	case *ast.While:
		return exprUsesState(s.Cond) || usesState(s.Body)
	case *ast.ProcCall:
		for _, a := range s.Args {
			if exprUsesState(a) {
				return true
			}
		}
		return s.Callee != nil && usesState(s.Callee.Body)
	case *ast.Alias:
		return varReadUsesState(s.Target) || usesState(s.Body)
	case *ast.Clear:
		return varReadUsesState(s.Target)
	case *ast.Assert:
		return exprUsesState(s.Cond)
	case *ast.Assume:
		return exprUsesState(s.Cond)
	case *ast.Put:
		return s.Value != nil && exprUsesState(s.Value)
	case *ast.Return:
		return s.Value != nil && exprUsesState(s.Value)
	}
	return false
}

func exprUsesState(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.VarRead:
		return varReadUsesState(e)
	case *ast.BinOp:
		return exprUsesState(e.Left) || exprUsesState(e.Right)
	case *ast.Not:
		return exprUsesState(e.Operand)
	case *ast.Ternary:
		return exprUsesState(e.Cond) || exprUsesState(e.Then) || exprUsesState(e.Else)
	case *ast.Quantifier:
		return exprUsesState(e.Body)
	case *ast.IsUndefined:
		return varReadUsesState(e.Operand)
	case *ast.FuncCall:
		for _, a := range e.Args {
			if exprUsesState(a) {
				return true
			}
		}
		return e.Callee != nil && usesState(e.Callee.Body)
	}
	return false
}

func varReadUsesState(v *ast.VarRead) bool {
	if v.Sym == nil {
		return false
	}
	if v.Sym.Kind == ast.StateSlot {
		return true
	}
	for _, sel := range v.Path {
		if idx, ok := sel.(*ast.IndexSelector); ok && exprUsesState(idx.Index) {
			return true
		}
	}
	return false
}
