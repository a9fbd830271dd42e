package resolve

import (
	"testing"

	"go.uber.org/multierr"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/parser"
	"github.com/Smattr/rumur/pkg/source"
	"github.com/Smattr/rumur/pkg/util/assert"
)

func parseModel(t *testing.T, text string) *ast.Model {
	file := source.NewSourceFile("test.m", []byte(text))
	model, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return model
}

func Test_Resolve_SimpleModel_00(t *testing.T) {
	model := parseModel(t, `
var x: boolean;

startstate
begin
  x := false;
end;

rule "flip"
  true ==>
  begin
    x := !x;
  end;

invariant "x is always defined" !isundefined(x);
`)
	err := Resolve(model)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(model.Vars))
	assert.True(t, model.Rules[len(model.Rules)-1].Guard.ResultType() != nil)
}

func Test_Resolve_UndeclaredIdentifier_00(t *testing.T) {
	model := parseModel(t, `
var x: boolean;

rule "bad"
  y ==>
  begin
    x := !x;
  end;
`)
	err := Resolve(model)
	if err == nil {
		t.Fatalf("expected resolve to fail on undeclared identifier 'y'")
	}
}

func Test_Resolve_TernaryTypeMismatch_00(t *testing.T) {
	model := parseModel(t, `
type color: enum {red, green};
var c: color;
var b: boolean;

rule "bad"
  true ==>
  begin
    b := true ? true : c;
  end;
`)
	err := Resolve(model)
	if err == nil {
		t.Fatalf("expected resolve to fail on mismatched ternary arm types")
	}
}

func Test_Resolve_RecordFieldAccess_00(t *testing.T) {
	model := parseModel(t, `
type point: record
  x: 0..7;
  y: 0..7;
end;
var p: point;

startstate
begin
  p.x := 0;
  p.y := 0;
end;

invariant "x in range" p.x >= 0;
`)
	err := Resolve(model)
	assert.Equal(t, nil, err)
}

func Test_Resolve_MultipleErrorsAccumulate_00(t *testing.T) {
	model := parseModel(t, `
var x: boolean;

rule "bad"
  y ==>
  begin
    x := z;
  end;
`)
	err := Resolve(model)
	if err == nil {
		t.Fatalf("expected errors")
	}
	// Both the guard's 'y' and the body's 'z' should be reported, not just
	// the first (spec §7: resolution accumulates, it does not stop early).
	if n := len(multierr.Errors(err)); n < 2 {
		t.Fatalf("expected at least 2 accumulated errors, got %d", n)
	}
}
