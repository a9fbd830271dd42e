package resolve

import "github.com/Smattr/rumur/pkg/ast"

// resolveStmts type-checks a statement list. retType is the enclosing
// function's declared return type, or nil inside a procedure (spec §4.C:
// "return in a function must supply an expression of the declared return
// type; in a procedure it must not").
func (r *resolver) resolveStmts(stmts []ast.Stmt, retType ast.Type) {
	for _, s := range stmts {
		r.resolveStmt(s, retType)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt, retType ast.Type) {
	switch s := s.(type) {
	case *ast.Assignment:
		r.resolveVarRead(s.Target)
		s.Value = r.resolveExpr(s.Value)
		if lit, ok := s.Value.(*ast.Lit); ok && lit.Kind == ast.UndefinedLit {
			lit.SetResultType(s.Target.ResultType())
		} else if s.Target.ResultType() != nil && s.Value.ResultType() != nil &&
			!sameType(s.Target.ResultType(), s.Value.ResultType()) {
			r.errorf(s.Position(), "assignment type mismatch")
		}
	case *ast.IfChain:
		for _, arm := range s.Arms {
			if arm.Cond != nil {
				arm.Cond = r.resolveExpr(arm.Cond)
				r.expectBoolean(arm.Cond)
			}
			r.resolveStmts(arm.Body, retType)
		}
	case *ast.SwitchChain:
		s.Selector = r.resolveExpr(s.Selector)
		for _, c := range s.Cases {
			for li, l := range c.Labels {
				l = r.resolveExpr(l)
				c.Labels[li] = l
				if l.ResultType() != nil && s.Selector.ResultType() != nil &&
					!sameType(l.ResultType(), s.Selector.ResultType()) {
					r.errorf(s.Position(), "case label type does not match switch selector")
				}
			}
			r.resolveStmts(c.Body, retType)
		}
	case *ast.For:
		if s.Domain != nil {
			r.resolveType(s.Domain)
			r.checkSimpleType(s.Domain, s.Position())
		}
		if s.From != nil {
			s.From = r.resolveExpr(s.From)
			s.To = r.resolveExpr(s.To)
			if _, ok := isRange(s.From.ResultType()); s.From.ResultType() != nil && !ok {
				r.errorf(s.Position(), "for-loop bounds must be ranges")
			}
		}
		r.resolveStmts(s.Body, retType)
	case *ast.While:
		s.Cond = r.resolveExpr(s.Cond)
		r.expectBoolean(s.Cond)
		r.resolveStmts(s.Body, retType)
	case *ast.ProcCall:
		r.resolveProcCall(s)
	case *ast.Alias:
		r.resolveVarRead(s.Target)
		if s.Variable != nil {
			s.Variable.Type = s.Target.ResultType()
		}
		r.resolveStmts(s.Body, retType)
	case *ast.Clear:
		r.resolveVarRead(s.Target)
	case *ast.ErrorStmt:
		// Nothing to resolve; Message is a literal string.
	case *ast.Assert:
		s.Cond = r.resolveExpr(s.Cond)
		r.expectBoolean(s.Cond)
	case *ast.Assume:
		s.Cond = r.resolveExpr(s.Cond)
		r.expectBoolean(s.Cond)
	case *ast.Put:
		if s.Value != nil {
			s.Value = r.resolveExpr(s.Value)
		}
	case *ast.Return:
		switch {
		case retType == nil && s.Value != nil:
			r.errorf(s.Position(), "procedures may not return a value")
		case retType != nil && s.Value == nil:
			r.errorf(s.Position(), "function must return a value")
		case retType != nil && s.Value != nil:
			s.Value = r.resolveExpr(s.Value)
			if s.Value.ResultType() != nil && !sameType(s.Value.ResultType(), retType) {
				r.errorf(s.Position(), "return type does not match function's declared result type")
			}
		}
	}
}

func (r *resolver) resolveProcCall(s *ast.ProcCall) {
	for i, a := range s.Args {
		s.Args[i] = r.resolveExpr(a)
	}
	if s.Callee == nil {
		for _, p := range r.model.Procedures {
			if p.Ident == s.CalleeName {
				s.Callee = p
				break
			}
		}
	}
	if s.Callee == nil {
		r.errorf(s.Position(), "call to undeclared procedure '%s'", s.CalleeName)
		return
	}
	if len(s.Args) != len(s.Callee.Params) {
		r.errorf(s.Position(), "procedure '%s' expects %d argument(s), got %d",
			s.CalleeName, len(s.Callee.Params), len(s.Args))
	}
	for i, param := range s.Callee.Params {
		if !param.ByRef || i >= len(s.Args) {
			continue
		}
		if _, ok := s.Args[i].(*ast.VarRead); !ok {
			r.errorf(s.Position(), "argument %d of '%s' is by-reference and requires a variable", i+1, s.CalleeName)
		}
	}
}
