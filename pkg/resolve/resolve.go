// Package resolve implements the Murphi resolver and type checker (spec
// §4.C): it binds the procedure/function calls the parser left unresolved,
// computes every expression's result type, and enforces Murphi's type
// rules. Errors are accumulated with go.uber.org/multierr the same way the
// teacher's resolution passes do, so a single run reports every problem
// rather than stopping at the first.
package resolve

import (
	"fmt"
	"math/big"

	"go.uber.org/multierr"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/source"
)

// Resolve runs the resolver/type-checker over model in place, returning the
// accumulated errors (nil if there were none). Per spec §7 this is the last
// pass that can turn user input into a compile-time failure; everything
// downstream (pkg/fold, pkg/layout, pkg/codegen) assumes every Expr.ResultType
// is non-nil and every FuncCall/ProcCall.Callee is bound.
func Resolve(model *ast.Model) error {
	r := &resolver{model: model}
	r.resolveTypeAliases()
	r.resolveConsts()
	for _, p := range model.Procedures {
		r.resolveProcedure(p)
	}
	for _, f := range model.Functions {
		r.resolveFunction(f)
	}
	for _, v := range model.Vars {
		r.resolveType(v.Type)
	}
	for _, rule := range model.Rules {
		r.resolveRule(rule)
	}
	return r.errs
}

type resolver struct {
	model *ast.Model
	errs  error
}

func (r *resolver) errorf(pos source.Position, format string, args ...any) {
	r.errs = multierr.Append(r.errs, pos.SyntaxError(fmt.Sprintf(format, args...)))
}

// resolveTypeAliases patches up any TypeRef left with a nil Target because
// its alias appeared later in the file than the reference (the parser
// resolves aliases eagerly but cannot see forward declarations).
func (r *resolver) resolveTypeAliases() {
	for _, t := range r.model.Types {
		r.resolveType(t.Type)
	}
}

func (r *resolver) resolveType(t ast.Type) {
	switch t := t.(type) {
	case *ast.TypeRef:
		if t.Target == nil {
			for _, alias := range r.model.Types {
				if alias.Ident == t.Name {
					t.Target = alias.Type
					return
				}
			}
			r.errorf(t.Position(), "undeclared type '%s'", t.Name)
		}
	case *ast.Array:
		r.resolveType(t.Index)
		r.resolveType(t.Elem)
	case *ast.Record:
		for i := range t.Fields {
			r.resolveType(t.Fields[i].Type)
		}
	}
}

func (r *resolver) resolveConsts() {
	for _, c := range r.model.Consts {
		if c.Type != nil {
			r.resolveType(c.Type)
		}
	}
}

func (r *resolver) resolveProcedure(p *ast.ProcedureDecl) {
	for i := range p.Params {
		r.resolveType(p.Params[i].Type)
	}
	r.resolveStmts(p.Body, nil)
}

func (r *resolver) resolveFunction(f *ast.FunctionDecl) {
	for i := range f.Params {
		r.resolveType(f.Params[i].Type)
	}
	r.resolveType(f.ResultType)
	r.resolveStmts(f.Body, f.ResultType)
}

func (r *resolver) resolveRule(rule *ast.Rule) {
	for _, q := range rule.Quantifiers {
		r.resolveType(q.Type)
	}
	if rule.Guard != nil {
		rule.Guard = r.resolveExpr(rule.Guard)
		r.expectBoolean(rule.Guard)
	}
	r.resolveStmts(rule.Body, nil)
	for _, nested := range rule.Nested {
		r.resolveRule(nested)
	}
}

func intCardinality(c *big.Int) int64 {
	if c == nil || !c.IsInt64() {
		return -1
	}
	return c.Int64()
}
