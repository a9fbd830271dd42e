package fold

import (
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

func Test_Fold_DoubleNegationIdentity_00(t *testing.T) {
	model := resolvedModel(t, `
var x: boolean;

rule "r"
  !(!x) ==>
  begin
    x := x;
  end;
`)
	stats, err := Fold(model, nil)
	assert.Equal(t, nil, err)
	if stats.IdentitiesApplied < 1 {
		t.Fatalf("expected at least one identity rewrite, got %+v", stats)
	}
	if _, ok := model.Rules[0].Guard.(*ast.Not); ok {
		t.Fatalf("expected !!x to fold down to a bare VarRead, still had a Not")
	}
}

func Test_Fold_ConstantGuardPrunesBranch_00(t *testing.T) {
	model := resolvedModel(t, `
var x: boolean;

rule "r"
  true ==>
  begin
    if true then
      x := true;
    else
      x := false;
    endif;
  end;
`)
	_, err := Fold(model, nil)
	assert.Equal(t, nil, err)
	// The always-true arm's body is inlined and the unreachable else arm is
	// dropped, so a two-armed if collapses to the one surviving assignment.
	assert.Equal(t, 1, len(model.Rules[0].Body))
}

func Test_Fold_TernarySameArmsCollapse_00(t *testing.T) {
	model := resolvedModel(t, `
var x: boolean;
var y: boolean;

rule "r"
  true ==>
  begin
    x := y ? true : true;
  end;
`)
	_, err := Fold(model, nil)
	assert.Equal(t, nil, err)
	assign, ok := model.Rules[0].Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected an assignment, got %T", model.Rules[0].Body[0])
	}
	if _, ok := assign.Value.(*ast.Lit); !ok {
		t.Fatalf("expected y ? true : true to collapse to a literal, got %T", assign.Value)
	}
}
