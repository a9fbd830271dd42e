// Package fold implements the Murphi constant folder, strength reducer and
// dead-code eliminator (spec §4.D): a sequence of postorder rewrites over an
// already-resolved ast.Model. Each pass mutates expressions and statement
// lists in place (replacing nodes via their parent's field, the same
// return-and-reassign style pkg/resolve uses) so that downstream passes
// (pkg/layout, pkg/codegen) only ever see the simplified tree.
package fold

import (
	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/smt"
)

// Stats records what each pass did. Fold returns it to its caller; the
// rumur command in pkg/cmd discards it. Scenario 5's "sorted fields" count
// is reported separately, by pkg/layout.
type Stats struct {
	ConstantsFolded   int
	IdentitiesApplied int
	BranchesPruned    int
	SMTBranchesPruned int
	DeadCodeRemoved   int
}

// Fold runs constant folding, strength reduction and dead-code elimination
// over model in place. solver is accepted but never queried: no branch is
// pruned via SMT, and Stats.SMTBranchesPruned stays zero.
func Fold(model *ast.Model, solver *smt.Solver) (Stats, error) {
	f := &folder{solver: solver}
	for _, p := range model.Procedures {
		p.Body = f.foldStmts(p.Body)
	}
	for _, fn := range model.Functions {
		fn.Body = f.foldStmts(fn.Body)
	}
	var rules []*ast.Rule
	for _, rule := range model.Rules {
		rules = append(rules, f.foldRule(rule)...)
	}
	model.Rules = rules
	return f.stats, nil
}

type folder struct {
	solver *smt.Solver
	stats  Stats
}

// foldRule applies strength reduction's invariant -> rule rewrite (spec
// §4.D) in addition to folding the rule's own guard/body, expanding a single
// InvariantRule into the SimpleRule form the code generator understands.
func (f *folder) foldRule(rule *ast.Rule) []*ast.Rule {
	if rule.Guard != nil {
		rule.Guard = f.foldExpr(rule.Guard)
	}
	rule.Body = f.foldStmts(rule.Body)
	var nested []*ast.Rule
	for _, n := range rule.Nested {
		nested = append(nested, f.foldRule(n)...)
	}
	rule.Nested = nested

	if rule.Kind != ast.InvariantRule {
		return []*ast.Rule{rule}
	}
	cond := rule.Guard
	if cond == nil {
		cond = &ast.Lit{Kind: ast.BoolLit, Bool: true}
		cond.SetResultType(&ast.Boolean{})
	}
	negated := f.foldExpr(&ast.Not{Operand: cond})
	converted := &ast.Rule{
		Node:  rule.Node,
		Kind:  ast.SimpleRule,
		Ident: rule.Ident,
		Guard: negated,
		Body: []ast.Stmt{&ast.ErrorStmt{
			Message: "Invariant violated: " + rule.Ident,
		}},
		Scope: rule.Scope,
	}
	return []*ast.Rule{converted}
}
