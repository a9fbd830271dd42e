package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Smattr/rumur/pkg/driver/murphi2xml"
)

// NewMurphi2XMLCommand builds the murphi2xml driver CLI (spec §4.H).
func NewMurphi2XMLCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "murphi2xml input.m",
		Short: "Dump a Murphi model's resolved IR as XML",
		Args:  cobra.ExactArgs(1),
		RunE:  runMurphi2XML,
	}
	root.Flags().StringP("output", "o", "", "write XML to PATH (default stdout)")
	return root
}

func runMurphi2XML(cmd *cobra.Command, args []string) error {
	model := parseAndResolve(args)
	out, err := murphi2xml.Generate(model)
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
