// Command murphi2uclid translates a Murphi model into a Uclid5 module
// (spec §4.H).
package main

import (
	"os"

	"github.com/Smattr/rumur/pkg/cmd"
)

func main() {
	if err := cmd.NewMurphi2UclidCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
