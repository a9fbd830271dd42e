package codegen

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

// typer assigns a stable Go type name to every Record reachable from the
// model (named struct types emitted once, up front) and renders any type
// expression to the Go type used for it in local/parameter position.
//
// Every scalar leaf (Boolean, Range, Enum, Scalarset) is represented in
// generated Go by runtime.Maybe[int64]: a single uniform carrier for both
// state-resident and local values lets every other codegen stage (locals,
// parameters, function results, array elements) share one representation of
// "value, or undefined" instead of special-casing state slots. Only when a
// value is read out of or written into the packed runtime.State does the
// generator convert between Maybe[int64] and the raw bits (see readScalar
// and writeScalar in gen.go).
type typer struct {
	recordNames map[*ast.Record]string
	nextRecord  int
	decls       []string // emitted struct declarations, in discovery order
}

func newTyper() *typer {
	return &typer{recordNames: map[*ast.Record]string{}}
}

// collect walks every type reachable from the model so every Record gets a
// name and a struct declaration before any expression needs to reference it.
func (t *typer) collect(model *ast.Model) {
	for _, v := range model.Vars {
		t.visit(v.Type)
	}
	for _, alias := range model.Types {
		t.visit(alias.Type)
	}
	for _, proc := range model.Procedures {
		for _, p := range proc.Params {
			t.visit(p.Type)
		}
	}
	for _, fn := range model.Functions {
		for _, p := range fn.Params {
			t.visit(p.Type)
		}
		if fn.ResultType != nil {
			t.visit(fn.ResultType)
		}
	}
}

func (t *typer) visit(ty ast.Type) {
	switch ut := ty.(type) {
	case *ast.Array:
		t.visit(ut.Index)
		t.visit(ut.Elem)
	case *ast.Record:
		if _, ok := t.recordNames[ut]; ok {
			return
		}
		for i := range ut.Fields {
			t.visit(ut.Fields[i].Type)
		}
		name := fmt.Sprintf("Record%d", t.nextRecord)
		t.nextRecord++
		t.recordNames[ut] = name
		t.decls = append(t.decls, t.renderStruct(name, ut))
	case *ast.TypeRef:
		if ut.Target != nil {
			t.visit(ut.Target)
		}
	}
}

func (t *typer) renderStruct(name string, r *ast.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, f := range r.Fields {
		fmt.Fprintf(&b, "\t%s %s\n", fieldName(f.Name), t.goType(f.Type))
	}
	b.WriteString("}\n")
	return b.String()
}

// goType renders the Go type used to hold a value of ty outside the packed
// state representation: in locals, parameters and function results.
func (t *typer) goType(ty ast.Type) string {
	switch ut := ty.(type) {
	case *ast.Boolean, *ast.Range, *ast.Enum, *ast.Scalarset:
		return "runtime.Maybe[int64]"
	case *ast.Array:
		return "[]" + t.goType(ut.Elem)
	case *ast.Record:
		t.visit(ut)
		return t.recordNames[ut]
	case *ast.TypeRef:
		if ut.Target != nil {
			return t.goType(ut.Target)
		}
	}
	return "runtime.Maybe[int64]"
}

// arrayLen returns the Go slice length expression for an Array type's fixed
// size, computed from its index type's cardinality.
func arrayLen(a *ast.Array) (int64, bool) {
	card := a.Index.Cardinality()
	if card == nil || !card.IsInt64() {
		return 0, false
	}
	return card.Int64(), true
}

// structDecls returns every Record struct declaration discovered by collect,
// in the order they were first seen.
func (t *typer) structDecls() []string { return t.decls }
