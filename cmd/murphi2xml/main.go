// Command murphi2xml dumps a Murphi model's resolved IR as XML (spec §4.H).
package main

import (
	"os"

	"github.com/Smattr/rumur/pkg/cmd"
)

func main() {
	if err := cmd.NewMurphi2XMLCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
