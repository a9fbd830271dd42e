package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Smattr/rumur/pkg/lsp"
)

// NewMurphiCommentLSCommand builds the murphi-comment-ls driver CLI
// (SPEC_FULL.md's [MURPHI-COMMENT-LS]): a stdio LSP server.
func NewMurphiCommentLSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "murphi-comment-ls",
		Short: "Run the Murphi comment/diagnostics language server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stderr, "murphi-comment-ls: ", log.LstdFlags)
			return lsp.NewServer(os.Stdin, os.Stdout, logger).Run()
		},
	}
}
