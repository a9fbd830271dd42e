package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Smattr/rumur/pkg/driver/format"
	"github.com/Smattr/rumur/pkg/source"
)

// NewMurphiFormatCommand builds the murphi-format driver CLI (spec §4.H).
func NewMurphiFormatCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "murphi-format [options] input.m",
		Short: "Pretty-print a Murphi source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runMurphiFormat,
	}
	root.Flags().BoolP("in-place", "i", false, "rewrite the input file instead of printing to stdout")
	return root
}

func runMurphiFormat(cmd *cobra.Command, args []string) error {
	filename, data := readInput(args)
	file := source.NewSourceFile(filename, data)
	out, err := format.Format(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if GetFlag(cmd, "in-place") {
		if err := os.WriteFile(filename, []byte(out), 0644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return nil
	}
	fmt.Print(out)
	return nil
}
