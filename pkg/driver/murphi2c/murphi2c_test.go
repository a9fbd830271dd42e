package murphi2c

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

func Test_Generate_FunctionAndProcedure_00(t *testing.T) {
	model := resolvedModel(t, `
function double(n: 0..100): 0..200;
begin
  return n * 2;
end;

procedure reset(var n: 0..100);
begin
  n := 0;
end;
`)
	out, err := Generate(model)
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(out, "#include <stdbool.h>"))
	assert.True(t, strings.Contains(out, "double"))
	assert.True(t, strings.Contains(out, "reset"))
}

func Test_Generate_RejectsIsUndefined_00(t *testing.T) {
	model := resolvedModel(t, `
var x: boolean;

procedure check();
begin
  if isundefined(x) then
    x := false;
  end;
end;
`)
	_, err := Generate(model)
	if err == nil {
		t.Fatalf("expected Generate to reject a procedure using isundefined")
	}
	if _, ok := err.(*ErrUsesIsUndefined); !ok {
		t.Fatalf("expected *ErrUsesIsUndefined, got %T", err)
	}
}

func Test_GenerateHeader_DeclaresNoMain_00(t *testing.T) {
	model := resolvedModel(t, `
function identity(n: 0..10): 0..10;
begin
  return n;
end;
`)
	out, err := GenerateHeader(model)
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(out, "#ifndef RUMUR_MODEL_H"))
	assert.False(t, strings.Contains(out, "int main"))
}

func Test_Generate_DeterministicTypedefOrder_00(t *testing.T) {
	model := resolvedModel(t, `
type a: enum {a0, a1};
type b: enum {b0, b1, b2};
type c: enum {c0};
var x: a;
var y: b;
var z: c;
`)
	first, err := Generate(model)
	assert.Equal(t, nil, err)
	second, err := Generate(model)
	assert.Equal(t, nil, err)
	assert.Equal(t, first, second)
}
