// Command murphi2c transliterates a Murphi model's functions and
// procedures into pure C (spec §4.H).
package main

import (
	"os"

	"github.com/Smattr/rumur/pkg/cmd"
)

func main() {
	if err := cmd.NewMurphi2CCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
