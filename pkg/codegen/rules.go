package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

// emitProcedures renders every user-defined procedure as a Go function
// taking *runtime.State first only when its body touches state.
func (g *gen) emitProcedures() string {
	var b strings.Builder
	for _, p := range g.model.Procedures {
		b.WriteString(g.emitCallable(ident("Proc", p.Ident), p.Params, nil, p.Body))
		b.WriteString("\n")
	}
	return b.String()
}

// emitFunctions renders every user-defined function as a Go function
// returning the function's declared result type.
func (g *gen) emitFunctions() string {
	var b strings.Builder
	for _, f := range g.model.Functions {
		b.WriteString(g.emitCallable(ident("Fn", f.Ident), f.Params, f.ResultType, f.Body))
		b.WriteString("\n")
	}
	return b.String()
}

func (g *gen) emitCallable(name string, params []ast.Param, resultType ast.Type, body []ast.Stmt) string {
	var sig strings.Builder
	sig.WriteString("func " + name + "(")
	if usesState(body) {
		sig.WriteString("st *runtime.State")
		if len(params) > 0 {
			sig.WriteString(", ")
		}
	}
	for i, p := range params {
		if i > 0 {
			sig.WriteString(", ")
		}
		goType := g.types.goType(p.Type)
		if p.ByRef {
			goType = "*" + goType
		}
		sig.WriteString(g.localName(p.Variable) + " " + goType)
	}
	sig.WriteString(")")
	if resultType != nil {
		sig.WriteString(" " + g.types.goType(resultType))
	}

	var b strings.Builder
	b.WriteString(sig.String())
	b.WriteString(" {\n")
	b.WriteString(g.renderStmts(body, name))
	b.WriteString("\n}\n")
	return b.String()
}

// ruleEntry is one concrete (fully quantifier-instantiated) rule ready to be
// appended to the generated rule table.
type ruleEntry struct {
	name  *ast.Rule
	quant []quantBinding
}

type quantBinding struct {
	goName string
	domain ast.Type
}

// emitRuleTables renders the Go source for two functions, buildStartStates
// and buildTransitions, each returning a []runtime.RuleFunc built by walking
// model.Rules and expanding every RuleSetRule by the Cartesian product of
// its quantifiers (spec §4.F item 7). Expansion happens via nested Go for
// loops at the generated program's init time rather than by unrolling each
// instance into the source text, so a large quantifier domain produces a
// large table at runtime, not a large generated file.
func (g *gen) emitRuleTables() string {
	var starts, transitions strings.Builder
	starts.WriteString("func buildStartStates() []runtime.RuleFunc {\nvar out []runtime.RuleFunc\n")
	transitions.WriteString("func buildTransitions() []runtime.RuleFunc {\nvar out []runtime.RuleFunc\n")

	for i, rule := range g.model.Rules {
		g.emitRuleTree(rule, nil, i, &starts, &transitions)
	}

	starts.WriteString("return out\n}\n")
	transitions.WriteString("return out\n}\n")
	return starts.String() + "\n" + transitions.String()
}

func (g *gen) emitRuleTree(rule *ast.Rule, quant []quantBinding, index int, starts, transitions *strings.Builder) {
	switch rule.Kind {
	case ast.RuleSetRule, ast.AliasRule:
		var loopOpen, loopClose strings.Builder
		nested := quant
		for qi, q := range rule.Quantifiers {
			goName := fmt.Sprintf("_q%d_%d", index, qi)
			card := q.Type.Cardinality()
			n := int64(0)
			if card != nil && card.IsInt64() {
				n = card.Int64()
			}
			fmt.Fprintf(&loopOpen, "for %s := int64(0); %s < %s; %s++ {\n", goName, goName, strconv.FormatInt(n, 10), goName)
			loopClose.WriteString("}\n")
			g.localNameOverride(q.Variable, goName)
			nested = append(nested, quantBinding{goName: goName, domain: q.Type})
		}
		starts.WriteString(loopOpen.String())
		transitions.WriteString(loopOpen.String())
		for _, n := range rule.Nested {
			g.emitRuleTree(n, nested, index, starts, transitions)
		}
		starts.WriteString(loopClose.String())
		transitions.WriteString(loopClose.String())

	case ast.LivenessRule, ast.CoverRule:
		// Liveness properties need a fair-cycle search the BFS explicit-state
		// checker does not perform, and cover conditions are a coverage
		// measurement, not a transition: neither belongs in the rule table a
		// firing transition is picked from. Both still parse, resolve and
		// fold; they are simply not exercised at verification time. A known
		// limitation, not a silent acceptance: emitting either
		// one as an ordinary transition would have been actively wrong
		// (its body is not meant to execute as a state-changing step).

	default:
		entry := g.emitRuleEntry(rule, quant, index)
		if rule.Kind == ast.StartstateRule {
			starts.WriteString(entry)
		} else {
			transitions.WriteString(entry)
		}
	}
}

// localNameOverride binds v's generated Go name directly, bypassing the
// usual first-reference-wins allocation in localName: quantifier bound
// variables are named after the loop variable emitRuleTree already opened
// rather than a freshly synthesised name.
func (g *gen) localNameOverride(v *ast.Variable, name string) { g.names[v] = name }

func (g *gen) emitRuleEntry(rule *ast.Rule, quant []quantBinding, index int) string {
	ctx := ruleFuncName("Rule", index, rule.Ident)
	nameExpr := fmt.Sprintf("%q", rule.Ident)
	if len(quant) > 0 {
		var parts []string
		var args []string
		for _, q := range quant {
			parts = append(parts, "%d")
			args = append(args, q.goName)
		}
		nameExpr = fmt.Sprintf("fmt.Sprintf(%q, %s)", rule.Ident+"("+strings.Join(parts, ",")+")", strings.Join(args, ", "))
	}

	guardExpr := "nil"
	if rule.Guard != nil {
		guardExpr = fmt.Sprintf("func(st *runtime.State) bool {\nreturn %s\n}", g.requireBool(rule.Guard, ctx))
	}

	body := fmt.Sprintf(`func(st *runtime.State) (*runtime.State, *runtime.ModelError) {
st = st.Clone()
%s
return st, nil
}`, g.renderStmts(rule.Body, ctx))

	return fmt.Sprintf("out = append(out, runtime.RuleFunc{Name: %s, Guard: %s, Fire: %s})\n", nameExpr, guardExpr, body)
}
