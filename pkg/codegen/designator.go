package codegen

import (
	"fmt"
	"strconv"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/layout"
)

// designator is the compiled address of an l-value: either a location in the
// packed runtime.State (offsetExpr/definedExpr are Go expressions computing
// the final bit offset, evaluated at generated-program runtime since an
// array index need not be a compile-time constant) or a native Go storage
// location (goExpr, a Go lvalue string, possibly already dereferenced).
type designator struct {
	isState bool

	// State-resident fields.
	offsetExpr  string
	definedExpr string
	width       uint

	// Local/parameter fields.
	goExpr string

	// typ is the Murphi type of the designated value after applying every
	// selector in the VarRead's Path.
	typ ast.Type
}

// resolve walks v.Sym and v.Path, narrowing a designator one selector at a
// time. Index selectors on a state designator fold a runtime multiplication
// by the element's static width/leaf-count into the offset expressions;
// field selectors on a state designator add the field's static Offset/
// DefinedOffset (already final, post-reordering, from pkg/layout).
func (g *gen) resolve(v *ast.VarRead, ctx string) designator {
	var d designator
	d.typ = v.Sym.Type

	switch v.Sym.Kind {
	case ast.StateSlot:
		d.isState = true
		d.offsetExpr = strconv.FormatUint(uint64(v.Sym.BitOffset), 10)
		d.definedExpr = strconv.FormatUint(uint64(v.Sym.DefinedOffset), 10)
		d.width = v.Sym.Type.Width()
	default:
		name := g.localName(v.Sym)
		if v.Sym.Kind == ast.ByReferenceParam {
			name = "(*" + name + ")"
		}
		d.goExpr = name
	}

	for _, sel := range v.Path {
		switch s := sel.(type) {
		case *ast.FieldSelector:
			d = g.applyField(d, s.Field)
		case *ast.IndexSelector:
			d = g.applyIndex(d, s.Index, ctx)
		}
	}
	return d
}

func (g *gen) applyField(d designator, field string) designator {
	rec, ok := underlying(d.typ).(*ast.Record)
	if !ok {
		panic(fmt.Sprintf("codegen: field selector %q applied to non-record type", field))
	}
	f := rec.FieldByName(field)
	if f == nil {
		panic(fmt.Sprintf("codegen: unknown field %q", field))
	}
	if d.isState {
		d.offsetExpr = fmt.Sprintf("(%s + %d)", d.offsetExpr, f.Offset)
		d.definedExpr = fmt.Sprintf("(%s + %d)", d.definedExpr, f.DefinedOffset)
		d.width = f.Type.Width()
	} else {
		d.goExpr = d.goExpr + "." + fieldName(f.Name)
	}
	d.typ = f.Type
	return d
}

func (g *gen) applyIndex(d designator, index ast.Expr, ctx string) designator {
	arr, ok := underlying(d.typ).(*ast.Array)
	if !ok {
		panic("codegen: index selector applied to non-array type")
	}
	idxExpr := g.renderIndex(index, arr.Index, ctx)
	elemWidth := arr.Elem.Width()
	elemLeaves := layout.LeafCount(arr.Elem)
	if d.isState {
		d.offsetExpr = fmt.Sprintf("(%s + (%s)*%d)", d.offsetExpr, idxExpr, elemWidth)
		d.definedExpr = fmt.Sprintf("(%s + (%s)*%d)", d.definedExpr, idxExpr, elemLeaves)
		d.width = elemWidth
	} else {
		d.goExpr = fmt.Sprintf("%s[%s]", d.goExpr, idxExpr)
	}
	d.typ = arr.Elem
	return d
}

// renderIndex renders an array index expression as a zero-based Go int
// expression, subtracting a Range index type's Low bound the same way a
// state read does.
func (g *gen) renderIndex(index ast.Expr, indexType ast.Type, ctx string) string {
	raw := fmt.Sprintf("%s.Require(%q)", g.renderExpr(index, ctx), ctx)
	if r, ok := underlying(indexType).(*ast.Range); ok && r.Low.Sign() != 0 {
		return fmt.Sprintf("int(%s - (%s))", raw, r.Low.String())
	}
	return fmt.Sprintf("int(%s)", raw)
}

func underlying(t ast.Type) ast.Type {
	for {
		ref, ok := t.(*ast.TypeRef)
		if !ok || ref.Target == nil {
			return t
		}
		t = ref.Target
	}
}

// isScalarLeaf reports whether t is one of the scalar types represented as
// runtime.Maybe[int64] (as opposed to a Record/Array composite).
func isScalarLeaf(t ast.Type) bool {
	switch underlying(t).(type) {
	case *ast.Boolean, *ast.Range, *ast.Enum, *ast.Scalarset:
		return true
	default:
		return false
	}
}
