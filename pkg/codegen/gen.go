package codegen

import (
	"fmt"

	"github.com/Smattr/rumur/pkg/ast"
)

// gen holds the state threaded through one Generate call: the type registry,
// and a stable Go name for every local/parameter/bound variable encountered
// so two variables that shadow each other in Murphi (legal: nested scopes)
// never collide in the flattened Go function body every rule/procedure/
// function compiles to.
type gen struct {
	model   *ast.Model
	types   *typer
	names   map[*ast.Variable]string
	nextTmp int
}

func newGen(model *ast.Model, types *typer) *gen {
	return &gen{model: model, types: types, names: map[*ast.Variable]string{}}
}

func (g *gen) localName(v *ast.Variable) string {
	if name, ok := g.names[v]; ok {
		return name
	}
	name := fmt.Sprintf("v%d_%s", len(g.names), sanitize(v.Ident))
	g.names[v] = name
	return name
}

func (g *gen) tmp() string {
	g.nextTmp++
	return fmt.Sprintf("_t%d", g.nextTmp)
}

// readScalar renders a Go expression of type runtime.Maybe[int64] reading
// the scalar leaf addressed by d.
func (g *gen) readScalar(d designator) string {
	if !d.isState {
		return d.goExpr
	}
	low := rangeLow(d.typ)
	if low == "" {
		return fmt.Sprintf("runtime.Maybe[int64]{Defined: st.IsDefined(%s), V: int64(st.GetUint(%s, %d))}",
			d.definedExpr, d.offsetExpr, d.width)
	}
	return fmt.Sprintf("runtime.Maybe[int64]{Defined: st.IsDefined(%s), V: int64(st.GetUint(%s, %d)) + (%s)}",
		d.definedExpr, d.offsetExpr, d.width, low)
}

// writeScalar renders a Go statement writing valueExpr (a runtime.Maybe[int64])
// into the scalar leaf addressed by d, performing a range check against the
// designator's type when it is a Range (spec §4.F: "a runtime range check
// that triggers error(...) ... on violation").
func (g *gen) writeScalar(d designator, valueExpr, ctx string) string {
	if !d.isState {
		return fmt.Sprintf("%s = %s", d.goExpr, valueExpr)
	}
	v := g.tmp()
	var b string
	b += fmt.Sprintf("%s := %s\n", v, valueExpr)
	b += fmt.Sprintf("if !%s.Defined {\n\tst.SetDefined(%s, false)\n} else {\n", v, d.definedExpr)
	if r, ok := underlying(d.typ).(*ast.Range); ok {
		b += fmt.Sprintf("\tif %s.V < %s || %s.V > %s {\n\t\tpanic(&runtime.ModelError{RuleName: %q, Message: \"value out of range\"})\n\t}\n",
			v, r.Low.String(), v, r.High.String(), ctx)
	}
	low := rangeLow(d.typ)
	raw := fmt.Sprintf("%s.V", v)
	if low != "" {
		raw = fmt.Sprintf("(%s - (%s))", raw, low)
	}
	b += fmt.Sprintf("\tst.SetUint(%s, %d, uint64(%s))\n\tst.SetDefined(%s, true)\n}", d.offsetExpr, d.width, raw, d.definedExpr)
	return b
}

// rangeLow returns the Go literal for a Range type's Low bound (the offset
// subtracted on write and re-added on read), or "" for types with no such
// bound (Boolean/Enum/Scalarset are already zero-based ordinals).
func rangeLow(t ast.Type) string {
	if r, ok := underlying(t).(*ast.Range); ok && r.Low.Sign() != 0 {
		return r.Low.String()
	}
	return ""
}
