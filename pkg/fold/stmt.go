package fold

import (
	"math/big"

	"github.com/Smattr/rumur/pkg/ast"
)

// foldStmts folds every expression inside stmts, lowers switch and clear
// into the smaller statement forms spec §4.D names, and removes statements
// dead-code elimination can prove have no effect. The returned slice may be
// shorter (DCE), longer (clear -> assignment tree) or contain different
// node types (switch -> if) than stmts.
func (f *folder) foldStmts(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, f.foldStmt(s)...)
	}
	return out
}

// foldStmt folds one statement, returning zero or more replacement
// statements (zero when DCE proves s has no effect).
func (f *folder) foldStmt(s ast.Stmt) []ast.Stmt {
	switch s := s.(type) {
	case *ast.Assignment:
		s.Value = f.foldExpr(s.Value)
		return []ast.Stmt{s}

	case *ast.IfChain:
		var arms []ast.IfArm
		for _, arm := range s.Arms {
			if arm.Cond != nil {
				arm.Cond = f.foldExpr(arm.Cond)
			}
			arm.Body = f.foldStmts(arm.Body)
			if lit, ok := arm.Cond.(*ast.Lit); ok && lit.Kind == ast.BoolLit {
				if !lit.Bool {
					// dead arm: condition is always false
					f.stats.DeadCodeRemoved++
					continue
				}
				// condition is always true: this arm fires unconditionally
				// and every later arm is unreachable.
				arm.Cond = nil
				arms = append(arms, arm)
				break
			}
			arms = append(arms, arm)
		}
		if len(arms) == 0 {
			f.stats.DeadCodeRemoved++
			return nil
		}
		if len(arms) == 1 && arms[0].Cond == nil {
			// Sole surviving arm is an unconditional else: inline its body.
			return arms[0].Body
		}
		s.Arms = arms
		return []ast.Stmt{s}

	case *ast.SwitchChain:
		return f.foldStmt(f.switchToIf(s))

	case *ast.For:
		s.Body = f.foldStmts(s.Body)
		if s.From != nil {
			s.From = f.foldExpr(s.From)
			s.To = f.foldExpr(s.To)
		}
		if len(s.Body) == 0 {
			f.stats.DeadCodeRemoved++
			return nil
		}
		return []ast.Stmt{s}

	case *ast.While:
		s.Cond = f.foldExpr(s.Cond)
		s.Body = f.foldStmts(s.Body)
		if lit, ok := s.Cond.(*ast.Lit); ok && lit.Kind == ast.BoolLit && lit.Bool && !hasExit(s.Body) {
			// A literally-true guard with no break/return/error inside is an
			// infinite loop. It is replaced by an error statement, so the
			// generated checker reports it when the loop is reached; Fold
			// itself raises no compile-time error for it.
			f.stats.DeadCodeRemoved++
			return []ast.Stmt{&ast.ErrorStmt{Message: "while true loop never terminates"}}
		}
		return []ast.Stmt{s}

	case *ast.ProcCall:
		for i, a := range s.Args {
			s.Args[i] = f.foldExpr(a)
		}
		return []ast.Stmt{s}

	case *ast.Alias:
		s.Body = f.foldStmts(s.Body)
		return []ast.Stmt{s}

	case *ast.Clear:
		return f.clearToAssignments(s.Target)

	case *ast.Assert:
		s.Cond = f.foldExpr(s.Cond)
		return []ast.Stmt{s}

	case *ast.Assume:
		s.Cond = f.foldExpr(s.Cond)
		return []ast.Stmt{s}

	case *ast.Put:
		if s.Value != nil {
			s.Value = f.foldExpr(s.Value)
		}
		if s.Value == nil && s.Literal == "" {
			f.stats.DeadCodeRemoved++
			return nil
		}
		return []ast.Stmt{s}

	case *ast.Return:
		if s.Value != nil {
			s.Value = f.foldExpr(s.Value)
		}
		return []ast.Stmt{s}

	default:
		return []ast.Stmt{s}
	}
}

// hasExit reports whether body contains a statement that could terminate a
// surrounding while loop (return, error, or a nested break-equivalent);
// Murphi has no explicit break, so only Return/ErrorStmt count, including
// inside nested if/switch/for/while/alias bodies.
func hasExit(body []ast.Stmt) bool {
	for _, s := range body {
		switch s := s.(type) {
		case *ast.Return, *ast.ErrorStmt:
			return true
		case *ast.IfChain:
			for _, arm := range s.Arms {
				if hasExit(arm.Body) {
					return true
				}
			}
		case *ast.SwitchChain:
			for _, c := range s.Cases {
				if hasExit(c.Body) {
					return true
				}
			}
		case *ast.For:
			if hasExit(s.Body) {
				return true
			}
		case *ast.While:
			if hasExit(s.Body) {
				return true
			}
		case *ast.Alias:
			if hasExit(s.Body) {
				return true
			}
		}
	}
	return false
}

// switchToIf lowers a switch statement into the equivalent chain of
// if/elsif/else statements (spec §4.D): each case's label set becomes a
// disjunction of equality tests against the selector, and the (at most one)
// label-less case becomes the trailing else arm.
func (f *folder) switchToIf(s *ast.SwitchChain) *ast.IfChain {
	chain := &ast.IfChain{}
	chain.Pos = s.Pos
	for _, c := range s.Cases {
		if len(c.Labels) == 0 {
			chain.Arms = append(chain.Arms, ast.IfArm{Cond: nil, Body: c.Body})
			continue
		}
		var cond ast.Expr
		for _, label := range c.Labels {
			eq := caseEquals(s.Selector, label)
			if cond == nil {
				cond = eq
			} else {
				cond = or(s.Node, cond, eq)
			}
		}
		chain.Arms = append(chain.Arms, ast.IfArm{Cond: cond, Body: c.Body})
	}
	return chain
}

func caseEquals(selector, label ast.Expr) ast.Expr {
	if isBoolean(selector.ResultType()) {
		return boolOpEq(selector, label)
	}
	return intOpEq(selector, label)
}

// underlying and isBoolean mirror pkg/resolve's helpers of the same name;
// duplicated here rather than imported since pkg/fold must not depend on
// pkg/resolve (the resolver runs once, before folding, and has no further
// role afterwards).
func underlying(t ast.Type) ast.Type {
	for {
		ref, ok := t.(*ast.TypeRef)
		if !ok || ref.Target == nil {
			return t
		}
		t = ref.Target
	}
}

func isBoolean(t ast.Type) bool {
	_, ok := underlying(t).(*ast.Boolean)
	return ok
}

func boolOpEq(l, r ast.Expr) ast.Expr {
	b := &ast.BinOp{Op: ast.OpBoolEq, Left: l, Right: r}
	b.SetResultType(&ast.Boolean{})
	return b
}

func intOpEq(l, r ast.Expr) ast.Expr {
	b := &ast.BinOp{Op: ast.OpIntEq, Left: l, Right: r}
	b.SetResultType(&ast.Boolean{})
	return b
}

// clearToAssignments expands `clear lv` into an explicit element-wise
// assignment tree walking target's type structure (spec §4.D): records
// clear each field, bounded arrays clear each index, and every other
// (scalar) type resolves to a single assignment of the undefined value.
// Only an array whose index cardinality is too large to unroll keeps a
// single Clear node, which pkg/codegen lowers to a packed-memory loop.
func (f *folder) clearToAssignments(target *ast.VarRead) []ast.Stmt {
	return f.clearValue(target, target.ResultType())
}

func (f *folder) clearValue(designator *ast.VarRead, t ast.Type) []ast.Stmt {
	switch ut := underlying(t).(type) {
	case *ast.Record:
		var out []ast.Stmt
		for _, field := range ut.Fields {
			path := append(append([]ast.Selector{}, designator.Path...), &ast.FieldSelector{Field: field.Name})
			fieldRead := &ast.VarRead{ExprBase: ast.ExprBase{Node: designator.Node}, Sym: designator.Sym, Path: path}
			fieldRead.SetResultType(field.Type)
			out = append(out, f.clearValue(fieldRead, field.Type)...)
		}
		return out

	case *ast.Array:
		count := ut.Index.Cardinality()
		if count == nil || !count.IsInt64() || count.Int64() > 4096 {
			// Unbounded or implausibly large: fall back to a single
			// designator-level clear the runtime performs with a loop over
			// the packed representation directly.
			clear := &ast.Clear{Target: designator}
			return []ast.Stmt{clear}
		}
		var out []ast.Stmt
		n := count.Int64()
		for i := int64(0); i < n; i++ {
			idx := indexLiteral(ut.Index, i)
			path := append(append([]ast.Selector{}, designator.Path...), &ast.IndexSelector{Index: idx})
			elemRead := &ast.VarRead{ExprBase: ast.ExprBase{Node: designator.Node}, Sym: designator.Sym, Path: path}
			elemRead.SetResultType(ut.Elem)
			out = append(out, f.clearValue(elemRead, ut.Elem)...)
		}
		return out

	default:
		undef := &ast.Lit{Kind: ast.UndefinedLit}
		undef.SetResultType(t)
		return []ast.Stmt{&ast.Assignment{Target: designator, Value: undef}}
	}
}

// indexLiteral builds the i'th value of a simple index type as a literal
// expression usable as an IndexSelector.
func indexLiteral(indexType ast.Type, i int64) ast.Expr {
	switch it := underlying(indexType).(type) {
	case *ast.Range:
		v := new(big.Int).Add(it.Low, big.NewInt(i))
		lit := &ast.Lit{Kind: ast.IntLit, Int: v}
		lit.SetResultType(it)
		return lit
	case *ast.Enum:
		lit := &ast.Lit{Kind: ast.EnumLit, EnumType: it, EnumIndex: int(i)}
		lit.SetResultType(it)
		return lit
	case *ast.Scalarset:
		// Scalarset members have no literal syntax; internally they are
		// plain ordinals 0..Size-1, with symmetry handled later by the
		// runtime's canonicaliser rather than at this representation.
		lit := &ast.Lit{Kind: ast.IntLit, Int: big.NewInt(i)}
		lit.SetResultType(it)
		return lit
	default:
		lit := &ast.Lit{Kind: ast.IntLit, Int: big.NewInt(i)}
		lit.SetResultType(indexType)
		return lit
	}
}
