package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/parser"
	"github.com/Smattr/rumur/pkg/resolve"
	"github.com/Smattr/rumur/pkg/source"
	"github.com/Smattr/rumur/pkg/util/assert"
)

func planned(t *testing.T, text string) (*ast.Model, Stats) {
	file := source.NewSourceFile("test.m", []byte(text))
	model, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := resolve.Resolve(model); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	stats, err := Plan(model)
	if err != nil {
		t.Fatalf("unexpected layout error: %v", err)
	}
	return model, stats
}

func Test_Layout_BooleanWidth_00(t *testing.T) {
	model, stats := planned(t, "var x: boolean;")
	assert.True(t, stats.StateWidth >= 1)
	assert.Equal(t, uint(1), model.Vars[0].Type.Width())
}

func Test_Layout_RangeWidth_00(t *testing.T) {
	model, _ := planned(t, "var x: 0..7;")
	// Cardinality 8 needs 3 bits.
	assert.Equal(t, uint(3), model.Vars[0].Type.Width())
}

func Test_Layout_RecordFieldsReordered_00(t *testing.T) {
	model, stats := planned(t, `
type big: record
  a: 0..1;
  b: 0..1023;
  c: 0..15;
end;
var r: big;
`)
	if stats.RecordsReordered < 1 {
		t.Fatalf("expected the record's fields to be reported as reordered")
	}
	rec, ok := model.Vars[0].Type.(*ast.Record)
	if !ok {
		t.Fatalf("expected var r's type to still be a *ast.Record")
	}
	// Descending width: b (10 bits) first, then c (4 bits), then a (1 bit).
	var gotOrder []string
	for _, f := range rec.Fields {
		gotOrder = append(gotOrder, f.Name)
	}
	wantOrder := []string{"b", "c", "a"}
	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func Test_Layout_StateOffsetsDoNotOverlap_00(t *testing.T) {
	model, _ := planned(t, `
var x: 0..7;
var y: boolean;
var z: 0..255;
`)
	seen := make(map[uint]bool)
	for _, v := range model.Vars {
		for b := v.BitOffset; b < v.BitOffset+v.Type.Width(); b++ {
			if seen[b] {
				t.Fatalf("bit %d assigned to more than one variable", b)
			}
			seen[b] = true
		}
	}
}
