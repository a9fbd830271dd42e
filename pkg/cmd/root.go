// Package cmd implements the CLI surfaces for rumur and its sibling driver
// binaries (spec §6), following the teacher's pkg/cmd/root.go shape: one
// cobra.Command tree per binary, built in its own constructor function and
// executed from a thin cmd/<name>/main.go.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/parser"
	"github.com/Smattr/rumur/pkg/resolve"
	"github.com/Smattr/rumur/pkg/source"
)

// Version is filled in at build time via -ldflags, or overridden by the
// RUMUR_VERSION environment variable (spec §6); "(unknown version)" is the
// fallback for a plain "go run"/"go build" invocation.
var Version = "(unknown version)"

func init() {
	if v := os.Getenv("RUMUR_VERSION"); v != "" {
		Version = v
	}
}

// GetFlag gets an expected bool flag, or exits if the flag is not registered.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

// GetString gets an expected string flag.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

// GetInt gets an expected int flag.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

// GetStringArray gets an expected repeatable string flag.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

// readInput reads the single positional Murphi source argument, or exits
// with a spec §7 IOError-style message.
func readInput(args []string) (string, []byte) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "exactly one input file is required")
		os.Exit(2)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	return args[0], data
}

// writeOutput writes text to the --output/-o path, or to stdout when path
// is empty (spec §6's default).
func writeOutput(path, text string) error {
	if path == "" {
		_, err := fmt.Print(text)
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}

// parseAndResolve runs the parse+resolve prefix shared by the driver
// commands murphi2c/murphi2xml/murphi2uclid, which all operate on a
// resolved but not folded/laid-out model: none of them expand rulesets or
// need a packed state vector. (murphi-format parses through format.Format
// instead.) Exits the process on the first error, per
// spec §7's "no partial output" rule.
func parseAndResolve(args []string) *ast.Model {
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
	return model
}
