// Package codegen lowers a resolved, folded, laid-out ast.Model into a
// standalone Go program that links against pkg/runtime (spec §4.F): the
// generated source embeds the model's constants, type widths and layout
// offsets, one guard/body function pair per rule, a ruleset-expanded rule
// table, and a small main that wires CLI flags to runtime.Checker
// (DESIGN.md's Open Question resolution: the generator emits Go, not C, so
// the teacher's own language is both the compiler's implementation and its
// target).
package codegen

import (
	"fmt"
	"strings"
)

// goKeywords is consulted by ident so a Murphi identifier that happens to
// collide with a Go keyword still produces valid source.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
	"error": true, "state": true, "nil": true, "true": true, "false": true,
}

// ident renders a Murphi identifier as a safe, exported Go identifier. Murphi
// allows identifiers Go doesn't (leading underscores aside, the two
// languages mostly agree) but rule/procedure/variable names may collide with
// Go keywords or builtin names used by the generated prologue, so a
// disambiguating suffix is appended rather than silently shadowing them.
func ident(prefix, name string) string {
	out := prefix + sanitize(name)
	if goKeywords[out] {
		out += "_"
	}
	return out
}

func sanitize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return capitalize(b.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// fieldName renders a Murphi record field name as a Go struct field name.
func fieldName(name string) string { return sanitize(name) }

// ruleFuncName builds the name of the guard or body function generated for
// one rule, disambiguated by its position so that two differently-quantified
// rules named identically in the source (legal inside distinct rulesets)
// never collide.
func ruleFuncName(kind string, index int, ruleName string) string {
	return fmt.Sprintf("%s%d_%s", kind, index, sanitize(ruleName))
}
