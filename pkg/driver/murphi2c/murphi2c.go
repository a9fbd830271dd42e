// Package murphi2c implements the murphi2c driver (spec §4.H): a pure-C
// transliteration of a model's type decls, const decls, functions and
// procedures. It shares pkg/codegen's AST but none of its code — C has no
// Maybe[T] undefined sentinel, so the two renderers diverge at every
// expression and statement.
package murphi2c

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

// ErrUsesIsUndefined is returned when a model uses isundefined anywhere in a
// function or procedure body: C has no undefined-value sentinel to test
// against, so such a model cannot be transliterated (spec §4.H: "Models
// using isundefined must be rejected").
type ErrUsesIsUndefined struct {
	Context string
}

func (e *ErrUsesIsUndefined) Error() string {
	return fmt.Sprintf("murphi2c: %s uses isundefined, which has no C equivalent", e.Context)
}

// Generate renders model's type decls, const decls, functions and
// procedures as C source.
func Generate(model *ast.Model) (string, error) {
	g := &gen{types: map[ast.Type]string{}}
	g.assignTypeNames(model)

	var b strings.Builder
	b.WriteString("/* Code generated by rumur (murphi2c). DO NOT EDIT. */\n")
	b.WriteString("#include <stdbool.h>\n#include <stdint.h>\n\n")

	for _, ty := range g.order {
		b.WriteString(g.renderTypeDecl(g.ordered[ty], ty))
		b.WriteString("\n")
	}

	for _, c := range model.Consts {
		if c.IsBool {
			fmt.Fprintf(&b, "static const bool %s = %t;\n", c.Ident, c.Bool)
		} else if c.Value != nil {
			fmt.Fprintf(&b, "static const int64_t %s = %s;\n", c.Ident, c.Value.String())
		}
	}
	b.WriteString("\n")

	for _, f := range model.Functions {
		if err := checkNoIsUndefined(f.Body); err != nil {
			return "", &ErrUsesIsUndefined{Context: "function " + f.Ident}
		}
		b.WriteString(g.renderFunction(f))
		b.WriteString("\n")
	}
	for _, p := range model.Procedures {
		if err := checkNoIsUndefined(p.Body); err != nil {
			return "", &ErrUsesIsUndefined{Context: "procedure " + p.Ident}
		}
		b.WriteString(g.renderProcedure(p))
		b.WriteString("\n")
	}

	return b.String(), nil
}

// GenerateHeader renders the --header variant (spec §4.H): a public header
// valid as both C and C++, whose entry point compiles standalone as
// `int main(void){return 0;}` when the header is #included with nothing
// else — i.e. the header itself must not define main, only declare types
// and function prototypes.
func GenerateHeader(model *ast.Model) (string, error) {
	g := &gen{types: map[ast.Type]string{}}
	g.assignTypeNames(model)

	var b strings.Builder
	b.WriteString("/* Code generated by rumur (murphi2c --header). DO NOT EDIT. */\n")
	b.WriteString("#ifndef RUMUR_MODEL_H\n#define RUMUR_MODEL_H\n\n")
	b.WriteString("#include <stdbool.h>\n#include <stdint.h>\n\n")
	b.WriteString("#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n")

	for _, ty := range g.order {
		b.WriteString(g.renderTypeDecl(g.ordered[ty], ty))
		b.WriteString("\n")
	}
	for _, f := range model.Functions {
		if err := checkNoIsUndefined(f.Body); err != nil {
			return "", &ErrUsesIsUndefined{Context: "function " + f.Ident}
		}
		b.WriteString(g.renderPrototype(f.Ident, f.Params, g.typeName(f.ResultType)) + ";\n")
	}
	for _, p := range model.Procedures {
		if err := checkNoIsUndefined(p.Body); err != nil {
			return "", &ErrUsesIsUndefined{Context: "procedure " + p.Ident}
		}
		b.WriteString(g.renderPrototype(p.Ident, p.Params, "void") + ";\n")
	}

	b.WriteString("\n#ifdef __cplusplus\n}\n#endif\n\n")
	b.WriteString("#endif /* RUMUR_MODEL_H */\n")
	return b.String(), nil
}

func checkNoIsUndefined(body []ast.Stmt) error {
	for _, s := range body {
		if stmtHasIsUndefined(s) {
			return fmt.Errorf("uses isundefined")
		}
	}
	return nil
}

func stmtHasIsUndefined(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.Assignment:
		return exprHasIsUndefined(s.Value)
	case *ast.IfChain:
		for _, arm := range s.Arms {
			if arm.Cond != nil && exprHasIsUndefined(arm.Cond) {
				return true
			}
			for _, b := range arm.Body {
				if stmtHasIsUndefined(b) {
					return true
				}
			}
		}
	case *ast.For:
		for _, b := range s.Body {
			if stmtHasIsUndefined(b) {
				return true
			}
		}
	case *ast.While:
		if exprHasIsUndefined(s.Cond) {
			return true
		}
		for _, b := range s.Body {
			if stmtHasIsUndefined(b) {
				return true
			}
		}
	case *ast.ProcCall:
		for _, a := range s.Args {
			if exprHasIsUndefined(a) {
				return true
			}
		}
	case *ast.Alias:
		for _, b := range s.Body {
			if stmtHasIsUndefined(b) {
				return true
			}
		}
	case *ast.Assert:
		return exprHasIsUndefined(s.Cond)
	case *ast.Assume:
		return exprHasIsUndefined(s.Cond)
	case *ast.Put:
		return s.Value != nil && exprHasIsUndefined(s.Value)
	case *ast.Return:
		return s.Value != nil && exprHasIsUndefined(s.Value)
	}
	return false
}

func exprHasIsUndefined(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IsUndefined:
		return true
	case *ast.BinOp:
		return exprHasIsUndefined(e.Left) || exprHasIsUndefined(e.Right)
	case *ast.Not:
		return exprHasIsUndefined(e.Operand)
	case *ast.Ternary:
		return exprHasIsUndefined(e.Cond) || exprHasIsUndefined(e.Then) || exprHasIsUndefined(e.Else)
	case *ast.Quantifier:
		return exprHasIsUndefined(e.Body)
	case *ast.FuncCall:
		for _, a := range e.Args {
			if exprHasIsUndefined(a) {
				return true
			}
		}
	}
	return false
}
