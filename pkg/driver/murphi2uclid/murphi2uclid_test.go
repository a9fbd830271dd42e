package murphi2uclid

import (
	"strings"
	"testing"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/parser"
	"github.com/Smattr/rumur/pkg/resolve"
	"github.com/Smattr/rumur/pkg/source"
	"github.com/Smattr/rumur/pkg/util/assert"
)

func resolvedModel(t *testing.T, text string) *ast.Model {
	file := source.NewSourceFile("test.m", []byte(text))
	model, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := resolve.Resolve(model); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	return model
}

func Test_Generate_SimpleModelRendersModule_00(t *testing.T) {
	model := resolvedModel(t, `
var x: boolean;

rule "flip"
  true ==>
  begin
    x := !x;
  end;
`)
	out, err := Generate(model, Options{})
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(out, "module main {"))
	assert.True(t, strings.Contains(out, "var x : boolean;"))
}

func Test_Generate_NumericTypeSelectsBitvector_00(t *testing.T) {
	model := resolvedModel(t, "var x: 0..15;")
	out, err := Generate(model, Options{NumericType: BV8})
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(out, "var x : bv8;"))
}

func Test_Generate_RejectsDivision_00(t *testing.T) {
	model := resolvedModel(t, `
var x: 0..15;

procedure halve();
begin
  x := x / 2;
end;
`)
	_, err := Generate(model, Options{})
	if err == nil {
		t.Fatalf("expected Generate to reject division")
	}
	ue, ok := err.(*UnsupportedError)
	if !ok {
		t.Fatalf("expected *UnsupportedError, got %T", err)
	}
	assert.Equal(t, "/", ue.Construct)
}

func Test_Generate_RejectsIsUndefined_00(t *testing.T) {
	model := resolvedModel(t, `
var x: boolean;

procedure check();
begin
  if isundefined(x) then
    x := false;
  endif;
end;
`)
	_, err := Generate(model, Options{})
	if err == nil {
		t.Fatalf("expected Generate to reject isundefined")
	}
	ue, ok := err.(*UnsupportedError)
	if !ok {
		t.Fatalf("expected *UnsupportedError, got %T", err)
	}
	assert.Equal(t, "isundefined", ue.Construct)
}

func Test_Generate_RejectsLivenessInsideRuleset_00(t *testing.T) {
	model := resolvedModel(t, `
var x: 0..3;

ruleset n: 0..3 do
  liveness "eventually n"
    x = n;
endruleset;
`)
	_, err := Generate(model, Options{})
	if err == nil {
		t.Fatalf("expected Generate to reject liveness nested in a ruleset")
	}
	ue, ok := err.(*UnsupportedError)
	if !ok {
		t.Fatalf("expected *UnsupportedError, got %T", err)
	}
	assert.Equal(t, "liveness inside ruleset", ue.Construct)
}
