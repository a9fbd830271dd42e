package murphi2xml

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

func Test_Generate_HasXMLHeaderAndRoot_00(t *testing.T) {
	model := resolvedModel(t, `
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
`)
	out, err := Generate(model)
	assert.Equal(t, nil, err)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0"`))
	assert.True(t, strings.Contains(out, "<murphi-model>"))
	assert.True(t, strings.Contains(out, `kind="startstate"`))
	assert.True(t, strings.Contains(out, `kind="rule"`))
}

func Test_Generate_RecordFieldsAndRange_00(t *testing.T) {
	model := resolvedModel(t, `
type point: record
  x: 0..7;
  y: 0..7;
end;
var p: point;
`)
	out, err := Generate(model)
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(out, `kind="record"`))
	assert.True(t, strings.Contains(out, `kind="range"`))
	assert.True(t, strings.Contains(out, `low="0"`))
	assert.True(t, strings.Contains(out, `high="7"`))
}

func Test_Generate_IfChainNestsAsElse_00(t *testing.T) {
	model := resolvedModel(t, `
var x: boolean;
var y: boolean;

procedure check();
begin
  if x then
    y := true;
  elsif !x then
    y := false;
  else
    y := true;
  endif;
end;
`)
	out, err := Generate(model)
	assert.Equal(t, nil, err)
	// One "if" element per arm, chained through nested "else" elements.
	assert.Equal(t, 3, strings.Count(out, `kind="if"`))
}
