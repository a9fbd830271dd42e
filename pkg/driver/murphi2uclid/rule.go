package murphi2uclid

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

// renderRule renders one top-level rule as a Uclid5 "transition" procedure.
// Uclid5 has no native ruleset construct, so a RuleSetRule's quantifiers are
// carried down to each nested rule and emitted as ordinary procedure
// parameters (matching how murphi2uclid's real counterpart flattens
// rulesets at translation time rather than modelling them as a first-class
// construct) — the caller is responsible for instantiating one call per
// element of the quantified type, since Uclid5 has no bounded forall over
// procedure calls.
func (g *gen) renderRule(r *ast.Rule, quant []ast.Param, index int) (string, error) {
	var b strings.Builder
	switch r.Kind {
	case ast.RuleSetRule, ast.AliasRule:
		nested := append(append([]ast.Param{}, quant...), r.Quantifiers...)
		for _, n := range r.Nested {
			text, err := g.renderRule(n, nested, index)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
		}
	case ast.LivenessRule:
		// Only reaches here at module (non-ruleset) scope; checkModel
		// rejects "liveness inside ruleset" before this point. Uclid5 has
		// no first-class liveness property form wired up here, so this is
		// surfaced as a named comment rather than dropped silently.
		fmt.Fprintf(&b, "  /* liveness %q not translated */\n", r.Ident)
	default:
		name := fmt.Sprintf("rule_%d_%s", index, sanitize(r.Ident))
		var params []string
		for _, q := range quant {
			params = append(params, fmt.Sprintf("%s : %s", q.Ident, g.typeName(q.Type)))
		}
		fmt.Fprintf(&b, "  procedure %s(%s)\n", name, strings.Join(params, ", "))
		fmt.Fprintf(&b, "    modifies %s;\n", "state")
		if r.Guard != nil {
			fmt.Fprintf(&b, "  {\n    assume (%s);\n", g.renderExpr(r.Guard))
		} else {
			b.WriteString("  {\n")
		}
		b.WriteString(g.renderStmts(r.Body, 2))
		b.WriteString("  }\n")
	}
	return b.String(), nil
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
