// Command murphi-comment-ls runs the Murphi comment/diagnostics language
// server over stdio (SPEC_FULL.md's [MURPHI-COMMENT-LS]).
package main

import (
	"os"

	"github.com/Smattr/rumur/pkg/cmd"
)

func main() {
	if err := cmd.NewMurphiCommentLSCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
