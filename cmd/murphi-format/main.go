// Command murphi-format is a round-tripping Murphi source pretty printer
// (spec §4.H).
package main

import (
	"os"

	"github.com/Smattr/rumur/pkg/cmd"
)

func main() {
	if err := cmd.NewMurphiFormatCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
