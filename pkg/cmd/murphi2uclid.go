package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Smattr/rumur/pkg/driver/murphi2uclid"
)

// NewMurphi2UclidCommand builds the murphi2uclid driver CLI (spec §4.H).
func NewMurphi2UclidCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "murphi2uclid [options] input.m",
		Short: "Translate a Murphi model into a Uclid5 module",
		Args:  cobra.ExactArgs(1),
		RunE:  runMurphi2Uclid,
	}
	root.Flags().StringP("output", "o", "", "write the Uclid5 module to PATH (default stdout)")
	root.Flags().String("numeric-type", "integer", "output integer encoding: integer|bv8|bv16|bv32|bv64")
	return root
}

func runMurphi2Uclid(cmd *cobra.Command, args []string) error {
	model := parseAndResolve(args)
	opts := murphi2uclid.Options{NumericType: murphi2uclid.NumericType(GetString(cmd, "numeric-type"))}
	out, err := murphi2uclid.Generate(model, opts)
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
