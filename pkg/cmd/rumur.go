package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Smattr/rumur/pkg/codegen"
	"github.com/Smattr/rumur/pkg/fold"
	"github.com/Smattr/rumur/pkg/layout"
	"github.com/Smattr/rumur/pkg/parser"
	"github.com/Smattr/rumur/pkg/resolve"
	"github.com/Smattr/rumur/pkg/smt"
	"github.com/Smattr/rumur/pkg/source"
)

// NewRumurCommand builds the top-level generator CLI (spec §6): parse,
// resolve, fold, layout, then codegen, writing the emitted Go checker
// program to --output/-o (default stdout).
func NewRumurCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rumur [options] input.m",
		Short: "Compile a Murphi model into an explicit-state model checker",
		Args:  cobra.ExactArgs(1),
		RunE:  runRumur,
	}

	root.Flags().StringP("output", "o", "", "write generated source to PATH (default stdout)")
	root.Flags().Bool("debug", false, "enable verbose diagnostics")
	root.Flags().Int("threads", 0, "default worker count in the emitted checker (0 or less: 1)")
	root.Flags().String("output-format", "plain", "emitted checker's counter-example format: plain|machine-readable")
	root.Flags().String("sandbox", "on", "enable the emitted checker's platform sandbox: on|off")
	root.Flags().String("smt-path", "", "path to an external SMT solver executable")
	root.Flags().StringArray("smt-arg", nil, "extra argument passed to the SMT solver (repeatable)")
	root.Flags().String("smt-prelude", "", "text prepended to every SMT query")
	root.Flags().String("smt-logic", "", "SMT-LIB logic name (e.g. QF_LIA)")
	root.Flags().String("smt-bitvectors", "off", "encode integers as SMT bitvectors rather than Ints: on|off")
	root.Flags().String("symmetry-reduction", "on", "enable scalarset symmetry reduction: on|off")
	root.Flags().Bool("version", false, "print the version and exit")

	return root
}

func runRumur(cmd *cobra.Command, args []string) error {
	if GetFlag(cmd, "version") {
		fmt.Println("rumur", Version)
		return nil
	}
	if GetFlag(cmd, "debug") {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	filename, data := readInput(args)
	file := source.NewSourceFile(filename, data)

	model, err := parser.Parse(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := resolve.Resolve(model); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	solver := smt.New(smt.Config{
		Path:       GetString(cmd, "smt-path"),
		Args:       GetStringArray(cmd, "smt-arg"),
		Prelude:    GetString(cmd, "smt-prelude"),
		Logic:      GetString(cmd, "smt-logic"),
		Bitvectors: onOff(GetString(cmd, "smt-bitvectors")),
	})
	if _, err := fold.Fold(model, solver); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := layout.Plan(model); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := codegen.Options{
		Threads:           GetInt(cmd, "threads"),
		SymmetryReduction: onOff(GetString(cmd, "symmetry-reduction")),
		Sandbox:           onOff(GetString(cmd, "sandbox")),
		OutputFormat:      GetString(cmd, "output-format"),
	}
	out, err := codegen.Generate(model, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeOutput(GetString(cmd, "output"), out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return nil
}

func onOff(v string) bool { return v == "on" }
