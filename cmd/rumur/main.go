// Command rumur compiles a Murphi model into a standalone Go checker
// program (spec §6).
package main

import (
	"os"

	"github.com/Smattr/rumur/pkg/cmd"
)

func main() {
	if err := cmd.NewRumurCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
