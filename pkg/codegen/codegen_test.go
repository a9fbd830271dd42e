package codegen

import (
	"strings"
	"testing"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/fold"
	"github.com/Smattr/rumur/pkg/layout"
	"github.com/Smattr/rumur/pkg/parser"
	"github.com/Smattr/rumur/pkg/resolve"
	"github.com/Smattr/rumur/pkg/source"
	"github.com/Smattr/rumur/pkg/util/assert"
)

func pipeline(t *testing.T, text string) *ast.Model {
	file := source.NewSourceFile("test.m", []byte(text))
	model, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := resolve.Resolve(model); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if _, err := fold.Fold(model, nil); err != nil {
		t.Fatalf("unexpected fold error: %v", err)
	}
	if _, err := layout.Plan(model); err != nil {
		t.Fatalf("unexpected layout error: %v", err)
	}
	return model
}

const toggleModel = `
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
`

func Test_Generate_RejectsUnplannedModel_00(t *testing.T) {
	file := source.NewSourceFile("test.m", []byte(toggleModel))
	model, err := parser.Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := resolve.Resolve(model); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if _, err := fold.Fold(model, nil); err != nil {
		t.Fatalf("unexpected fold error: %v", err)
	}
	// Deliberately skip pkg/layout.Plan.
	if _, err := Generate(model, Options{}); err == nil {
		t.Fatalf("expected Generate to reject a model that has not been through pkg/layout.Plan")
	}
}

func Test_Generate_PlainOutput_00(t *testing.T) {
	model := pipeline(t, toggleModel)
	out, err := Generate(model, Options{Threads: 4, SymmetryReduction: true, OutputFormat: "plain"})
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(out, "package main"))
	assert.True(t, strings.Contains(out, "func main()"))
	assert.True(t, strings.Contains(out, "runtime.NewChecker"))
	assert.True(t, strings.Contains(out, "term.IsTerminal"))
	assert.True(t, strings.Contains(out, "machineReadable := false"))
}

func Test_Generate_MachineReadableOutput_00(t *testing.T) {
	model := pipeline(t, toggleModel)
	out, err := Generate(model, Options{Threads: 1, OutputFormat: "machine-readable"})
	assert.Equal(t, nil, err)
	assert.True(t, strings.Contains(out, "xml.MarshalIndent"))
	assert.True(t, strings.Contains(out, "rules_fired"))
}
