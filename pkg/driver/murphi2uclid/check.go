package murphi2uclid

import (
	"math/big"

	"github.com/Smattr/rumur/pkg/ast"
)

var bigOne = big.NewInt(1)

// checkModel walks every procedure, function and rule body for a construct
// Uclid5 has no equivalent for, returning the first one found.
func (g *gen) checkModel(model *ast.Model) error {
	for _, p := range model.Procedures {
		if err := g.checkStmts(p.Body, false); err != nil {
			return err
		}
	}
	for _, f := range model.Functions {
		if err := g.checkStmts(f.Body, true); err != nil {
			return err
		}
	}
	for _, r := range model.Rules {
		if err := g.checkRule(r, false); err != nil {
			return err
		}
	}
	return nil
}

func (g *gen) checkRule(r *ast.Rule, insideRuleset bool) error {
	if r.Kind == ast.LivenessRule && insideRuleset {
		return &UnsupportedError{Construct: "liveness inside ruleset"}
	}
	if r.Kind == ast.CoverRule {
		return &UnsupportedError{Construct: "cover"}
	}
	if r.Guard != nil {
		if err := g.checkExpr(r.Guard); err != nil {
			return err
		}
	}
	if err := g.checkStmts(r.Body, false); err != nil {
		return err
	}
	nestedInRuleset := insideRuleset || r.Kind == ast.RuleSetRule
	for _, n := range r.Nested {
		if err := g.checkRule(n, nestedInRuleset); err != nil {
			return err
		}
	}
	return nil
}

// checkStmts walks a statement list. An early (non-final) Return is
// rejected in every statement list, whether or not inFunc is set (inFunc is
// not consulted) — Uclid5 procedures have no mid-body return.
func (g *gen) checkStmts(stmts []ast.Stmt, inFunc bool) error {
	for i, s := range stmts {
		isLast := i == len(stmts)-1
		if _, ok := s.(*ast.Return); ok && !isLast {
			return &UnsupportedError{Construct: "early return"}
		}
		if err := g.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (g *gen) checkStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Assignment:
		return g.checkExpr(s.Value)
	case *ast.IfChain:
		for _, arm := range s.Arms {
			if arm.Cond != nil {
				if err := g.checkExpr(arm.Cond); err != nil {
					return err
				}
			}
			if err := g.checkStmts(arm.Body, false); err != nil {
				return err
			}
		}
	case *ast.For:
		if s.Step != nil && s.Step.CmpAbs(bigOne) != 0 {
			return &UnsupportedError{Construct: "non-unit quantifier step"}
		}
		return g.checkStmts(s.Body, false)
	case *ast.While:
		if err := g.checkExpr(s.Cond); err != nil {
			return err
		}
		return g.checkStmts(s.Body, false)
	case *ast.ProcCall:
		for _, a := range s.Args {
			if err := g.checkExpr(a); err != nil {
				return err
			}
		}
	case *ast.Alias:
		return &UnsupportedError{Construct: "alias statement"}
	case *ast.Clear:
		if !isScalar(s.Target.ResultType()) {
			return &UnsupportedError{Construct: "clear of composite type"}
		}
	case *ast.Assert:
		return g.checkExpr(s.Cond)
	case *ast.Assume:
		return g.checkExpr(s.Cond)
	case *ast.Put:
		return &UnsupportedError{Construct: "put"}
	case *ast.Return:
		if s.Value != nil {
			return g.checkExpr(s.Value)
		}
	}
	return nil
}

func (g *gen) checkExpr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.BinOp:
		if e.Op == ast.OpDiv {
			return &UnsupportedError{Construct: "/"}
		}
		if e.Op == ast.OpMod {
			return &UnsupportedError{Construct: "%"}
		}
		if err := g.checkExpr(e.Left); err != nil {
			return err
		}
		return g.checkExpr(e.Right)
	case *ast.Not:
		return g.checkExpr(e.Operand)
	case *ast.Ternary:
		if err := g.checkExpr(e.Cond); err != nil {
			return err
		}
		if err := g.checkExpr(e.Then); err != nil {
			return err
		}
		return g.checkExpr(e.Else)
	case *ast.Quantifier:
		return g.checkExpr(e.Body)
	case *ast.IsUndefined:
		return &UnsupportedError{Construct: "isundefined"}
	case *ast.FuncCall:
		for _, a := range e.Args {
			if err := g.checkExpr(a); err != nil {
				return err
			}
		}
	}
	return nil
}

func isScalar(t ast.Type) bool {
	switch underlying(t).(type) {
	case *ast.Boolean, *ast.Range, *ast.Enum, *ast.Scalarset:
		return true
	default:
		return false
	}
}
