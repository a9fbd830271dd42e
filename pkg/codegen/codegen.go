package codegen

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
)

// Options configures the emitted checker program (spec §6's generator CLI
// surface, threaded through to the runtime at generation time rather than
// parsed again by the checker binary itself, except --threads which the
// checker also accepts as an override).
type Options struct {
	Threads           int
	SymmetryReduction bool
	Sandbox           bool
	OutputFormat      string // "plain" or "machine-readable"
}

// Generate lowers a resolved, folded, layout-planned model into a complete
// Go source file implementing the checker described by spec §4.F–§4.G: a
// prologue importing pkg/runtime, the model's types/constants/layout,
// user functions and procedures, a Cartesian-product-expanded rule table,
// and a main wiring Options to runtime.Checker.
func Generate(model *ast.Model, opts Options) (string, error) {
	if model.StateWidth == 0 && len(model.Vars) > 0 {
		return "", fmt.Errorf("codegen: model has not been through pkg/layout.Plan")
	}

	types := newTyper()
	types.collect(model)
	g := newGen(model, types)

	var b strings.Builder
	b.WriteString(prologue)
	b.WriteString("\n// --- model types ---\n\n")
	for _, decl := range types.structDecls() {
		b.WriteString(decl)
		b.WriteString("\n")
	}

	b.WriteString("\n// --- model constants ---\n\n")
	b.WriteString(emitConsts(model))

	b.WriteString("\n// --- state layout ---\n\n")
	b.WriteString(emitLayout(model))

	b.WriteString("\n// --- functions and procedures ---\n\n")
	b.WriteString(g.emitFunctions())
	b.WriteString(g.emitProcedures())

	b.WriteString("\n// --- rules ---\n\n")
	b.WriteString(g.emitRuleTables())

	b.WriteString("\n// --- scalarset symmetry fields ---\n\n")
	b.WriteString(emitScalarsetFields(model))

	b.WriteString("\n// --- entry point ---\n\n")
	b.WriteString(emitMain(model, opts))

	return b.String(), nil
}

// prologue is the verbatim header every generated program starts with
// (spec §4.F item 1): package clause, imports, and the two small helpers
// (boolMaybe, checkedDiv/checkedMod) every generated function body calls
// into, kept here rather than in pkg/runtime since they are expression-level
// conveniences tied to how codegen renders operators, not reusable runtime
// machinery.
const prologue = `// Code generated by rumur from a Murphi model. DO NOT EDIT.
package main

import (
	"context"
	"encoding/xml"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/Smattr/rumur/pkg/runtime"
)

// xmlSummary and xmlError mirror the spec's verifier.rng: a <result> root
// with a <summary> always present and an optional <error> trace.
type xmlSummary struct {
	RulesFired uint64 `xml:"rules_fired,attr"`
	States     uint64 `xml:"states,attr"`
}

type xmlTraceStep struct {
	Rule string `xml:"rule,attr"`
}

type xmlError struct {
	Message string         `xml:"message,attr"`
	Steps   []xmlTraceStep `xml:"step"`
}

type xmlResult struct {
	XMLName xml.Name    `xml:"result"`
	Summary xmlSummary  `xml:"summary"`
	Error   *xmlError   `xml:"error,omitempty"`
}

func boolMaybe(b bool) runtime.Maybe[int64] {
	if b {
		return runtime.Just(int64(1))
	}
	return runtime.Just(int64(0))
}

func checkedDiv(ctx string, a, b int64) int64 {
	if b == 0 {
		panic(&runtime.ModelError{RuleName: ctx, Message: "division by zero"})
	}
	return a / b
}

func checkedMod(ctx string, a, b int64) int64 {
	if b == 0 {
		panic(&runtime.ModelError{RuleName: ctx, Message: "modulo by zero"})
	}
	return a % b
}
`

func emitConsts(model *ast.Model) string {
	var b strings.Builder
	for _, c := range model.Consts {
		name := ident("Const", c.Ident)
		if c.IsBool {
			fmt.Fprintf(&b, "const %s = %t\n", name, c.Bool)
		} else if c.Value != nil {
			fmt.Fprintf(&b, "const %s = %s\n", name, c.Value.String())
		}
	}
	return b.String()
}

// emitLayout documents every state variable's bit offset, width and
// defined-bit offset as named constants (spec §4.F item 3): "type-width
// constants and layout offsets". The generated read/write call sites bake
// these same numbers in directly rather than referencing the constants by
// name, since a designator's offset is usually itself an arithmetic
// expression (field/array composition) rather than a bare variable
// reference; the constants exist for the generated source's own
// documentation value and for external tooling (e.g. a trace pretty
// printer) that wants the layout without re-running the planner.
func emitLayout(model *ast.Model) string {
	var b strings.Builder
	fmt.Fprintf(&b, "const StateWidthBits = %d\n", model.StateWidth)
	fmt.Fprintf(&b, "const StateDefinedBits = %d\n", model.DefinedCount)
	for _, v := range model.Vars {
		if v.Kind != ast.StateSlot {
			continue
		}
		name := ident("State", v.Ident)
		fmt.Fprintf(&b, "const %sOffset = %d\nconst %sWidth = %d\nconst %sDefinedOffset = %d\n",
			name, v.BitOffset, name, v.Type.Width(), name, v.DefinedOffset)
	}
	return b.String()
}

// emitScalarsetFields renders the runtime.ScalarsetField table symmetry
// reduction needs: one entry per state-variable slot whose type is a
// Scalarset. Nested scalarsets inside records/arrays are not
// located individually — only a top-level scalarset-typed state variable is
// covered — matching pkg/runtime/symmetry.go's documented limitation that
// scalarset-indexed composite structures are not canonicalised.
func emitScalarsetFields(model *ast.Model) string {
	var b strings.Builder
	b.WriteString("var scalarsetFields = []runtime.ScalarsetField{\n")
	for _, v := range model.Vars {
		if v.Kind != ast.StateSlot {
			continue
		}
		if ss, ok := underlying(v.Type).(*ast.Scalarset); ok {
			members := 0
			if ss.Size != nil && ss.Size.IsInt64() {
				members = int(ss.Size.Int64())
			}
			fmt.Fprintf(&b, "\t{Offset: %d, Width: %d, Members: %d},\n", v.BitOffset, v.Type.Width(), members)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func emitMain(model *ast.Model, opts Options) string {
	threads := opts.Threads
	if threads <= 0 {
		threads = 1
	}
	machineReadable := opts.OutputFormat == "machine-readable"
	return fmt.Sprintf(`func main() {
threads := flag.Int("threads", %d, "number of worker goroutines")
help := flag.Bool("help", false, "print usage and exit")
version := flag.Bool("version", false, "print version and exit")
flag.Parse()
if *help {
flag.Usage()
os.Exit(0)
}
if *version {
fmt.Println(os.Getenv("RUMUR_VERSION"))
os.Exit(0)
}

model := runtime.Model{
Width:           StateWidthBits,
StartStates:     buildStartStates(),
Transitions:     buildTransitions(),
ScalarsetFields: scalarsetFields,
}
checker := runtime.NewChecker(model, *threads, %t, nil)

ctx := context.Background()
start := time.Now()
result, err := checker.Run(ctx)
if err != nil {
fmt.Fprintln(os.Stderr, err)
os.Exit(2)
}

machineReadable := %t
if machineReadable {
	out := xmlResult{Summary: xmlSummary{RulesFired: uint64(result.RulesFired), States: uint64(result.StatesExplored)}}
	if result.Error != nil {
		xe := &xmlError{Message: result.Error.Error()}
		for _, step := range result.Trace {
			xe.Steps = append(xe.Steps, xmlTraceStep{Rule: step.RuleName})
		}
		out.Error = xe
	}
	body, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println(xml.Header + string(body))
} else if result.Error != nil {
	prefix := "error: "
	if term.IsTerminal(int(os.Stdout.Fd())) {
		prefix = "\x1b[31merror:\x1b[0m "
	}
	fmt.Printf("%%s%%s\n", prefix, result.Error.Error())
	for _, step := range result.Trace {
		fmt.Printf("Rule %%q\n", step.RuleName)
	}
} else {
	fmt.Printf("%%d states explored in %%s, no counterexample found\n", result.StatesExplored, time.Since(start))
}
if result.Error != nil {
os.Exit(1)
}
os.Exit(0)
}
`, threads, opts.SymmetryReduction, machineReadable)
}
