package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Smattr/rumur/pkg/driver/murphi2c"
)

// NewMurphi2CCommand builds the murphi2c driver CLI (spec §4.H).
func NewMurphi2CCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "murphi2c [options] input.m",
		Short: "Transliterate a Murphi model's functions and procedures into pure C",
		Args:  cobra.ExactArgs(1),
		RunE:  runMurphi2C,
	}
	root.Flags().StringP("output", "o", "", "write C source to PATH (default stdout)")
	root.Flags().Bool("header", false, "emit a public C/C++ header instead of a source file")
	return root
}

func runMurphi2C(cmd *cobra.Command, args []string) error {
	model := parseAndResolve(args)

	// murphi2c only transliterates functions/procedures, which never need
	// ruleset expansion or layout-dependent designators, so it runs
	// straight off the resolver's output without pkg/fold/pkg/layout.
	var (
		out string
		err error
	)
	if GetFlag(cmd, "header") {
		out, err = murphi2c.GenerateHeader(model)
	} else {
		out, err = murphi2c.Generate(model)
	}
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
