package parser

import (
	"testing"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/source"
	"github.com/Smattr/rumur/pkg/util/assert"
)

func parse(t *testing.T, text string) *ast.Model {
	file := source.NewSourceFile("test.m", []byte(text))
	model, err := Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return model
}

func Test_Parser_ConstDecl_00(t *testing.T) {
	model := parse(t, "const N: 3;")
	assert.Equal(t, 1, len(model.Consts))
	assert.Equal(t, "N", model.Consts[0].Ident)
}

func Test_Parser_TypeDecl_00(t *testing.T) {
	model := parse(t, "type color: enum {red, green, blue};")
	assert.Equal(t, 1, len(model.Types))
	assert.Equal(t, "color", model.Types[0].Ident)
	if _, ok := model.Types[0].Type.(*ast.Enum); !ok {
		t.Fatalf("expected color to resolve to an Enum type")
	}
}

func Test_Parser_VarDecl_00(t *testing.T) {
	model := parse(t, "var x, y: boolean;")
	assert.Equal(t, 2, len(model.Vars))
	assert.Equal(t, "x", model.Vars[0].Ident)
	assert.Equal(t, "y", model.Vars[1].Ident)
}

func Test_Parser_SimpleRule_00(t *testing.T) {
	model := parse(t, `
var x: boolean;

rule "flip"
  true ==>
  begin
    x := !x;
  end;
`)
	assert.Equal(t, 1, len(model.Rules))
	assert.Equal(t, ast.SimpleRule, model.Rules[0].Kind)
	assert.Equal(t, "flip", model.Rules[0].Ident)
	assert.Equal(t, 1, len(model.Rules[0].Body))
}

func Test_Parser_Startstate_00(t *testing.T) {
	model := parse(t, `
var x: boolean;

startstate
begin
  x := false;
end;
`)
	assert.Equal(t, 1, len(model.Rules))
	assert.Equal(t, ast.StartstateRule, model.Rules[0].Kind)
}

func Test_Parser_Invariant_00(t *testing.T) {
	model := parse(t, `
var x: boolean;

invariant "x holds" x;
`)
	assert.Equal(t, 1, len(model.Rules))
	assert.Equal(t, ast.InvariantRule, model.Rules[0].Kind)
}

func Test_Parser_IfElsifElse_00(t *testing.T) {
	model := parse(t, `
var x: 0 .. 10;

rule
  true ==>
  begin
    if x = 0 then
      x := 1;
    elsif x = 1 then
      x := 2;
    else
      x := 0;
    endif;
  end;
`)
	ifstmt, ok := model.Rules[0].Body[0].(*ast.IfChain)
	if !ok {
		t.Fatalf("expected an IfChain statement")
	}
	assert.Equal(t, 3, len(ifstmt.Arms))
}

func Test_Parser_RuleSet_00(t *testing.T) {
	model := parse(t, `
type idx: 0 .. 2;
var a: array[idx] of boolean;

ruleset i: idx do
  rule
    true ==>
    begin
      a[i] := true;
    end;
endruleset;
`)
	assert.Equal(t, 1, len(model.Rules))
	assert.Equal(t, ast.RuleSetRule, model.Rules[0].Kind)
	assert.Equal(t, 1, len(model.Rules[0].Nested))
}

func Test_Parser_ProcedureDecl_00(t *testing.T) {
	model := parse(t, `
procedure inc(var x: 0 .. 10);
begin
  x := x + 1;
end;
`)
	assert.Equal(t, 1, len(model.Procedures))
	assert.Equal(t, "inc", model.Procedures[0].Ident)
	assert.Equal(t, 1, len(model.Procedures[0].Params))
	assert.Equal(t, true, model.Procedures[0].Params[0].ByRef)
}

func Test_Parser_FunctionDecl_00(t *testing.T) {
	model := parse(t, `
function double(x: 0 .. 10): 0 .. 20;
begin
  return x * 2;
end;
`)
	assert.Equal(t, 1, len(model.Functions))
	assert.Equal(t, "double", model.Functions[0].Ident)
}

func Test_Parser_SyntaxError_00(t *testing.T) {
	file := source.NewSourceFile("test.m", []byte("const N"))
	_, err := Parse(file)
	if err == nil {
		t.Fatalf("expected a syntax error for a truncated const declaration")
	}
}
