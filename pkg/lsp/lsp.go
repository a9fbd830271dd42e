// Package lsp implements murphi-comment-ls (SPEC_FULL.md's [MURPHI-COMMENT-LS]):
// a minimal language server exposing a Murphi source file's comments (which
// never reach pkg/parser's AST — see pkg/lex's Comment type) and its
// ParseError/TypeError diagnostics over LSP. Transport is a hand-rolled
// Content-Length-framed JSON-RPC codec (pkg/lsp/rpc.go) rather than
// go.lsp.dev, which is an indirect-only dependency in the teacher's go.mod
// with no direct use anywhere in the retrieval pack (see DESIGN.md).
package lsp

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"go.uber.org/multierr"

	"github.com/Smattr/rumur/pkg/lex"
	"github.com/Smattr/rumur/pkg/parser"
	"github.com/Smattr/rumur/pkg/resolve"
	"github.com/Smattr/rumur/pkg/source"
)

// Server holds one LSP session's open documents. Documents are keyed by
// their LSP URI string; there is no workspace-wide state beyond that.
type Server struct {
	codec     *codec
	logger    *log.Logger
	documents map[string]*document
	shutdown  bool
}

type document struct {
	text     string
	file     *source.File
	comments []lex.Comment
	diags    []diagnostic
}

// NewServer constructs a server reading JSON-RPC requests from r and writing
// responses/notifications to w.
func NewServer(r io.Reader, w io.Writer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{codec: newCodec(r, w), logger: logger, documents: map[string]*document{}}
}

// Run processes requests until exit is received or the transport closes.
func (s *Server) Run() error {
	for {
		msg, err := s.codec.readMessage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if msg.Method == "exit" {
			return nil
		}
		s.dispatch(msg)
	}
}

func (s *Server) dispatch(msg *message) {
	switch msg.Method {
	case "initialize":
		s.reply(msg.ID, map[string]any{
			"capabilities": map[string]any{
				"textDocumentSync": 1, // full-document sync
				"experimental": map[string]any{
					"murphiComments": true,
				},
			},
		}, nil)
	case "initialized":
		// notification, no response
	case "textDocument/didOpen":
		var p didOpenParams
		if err := json.Unmarshal(msg.Params, &p); err == nil {
			s.openDocument(p.TextDocument.URI, p.TextDocument.Text)
		}
	case "textDocument/didChange":
		var p didChangeParams
		if err := json.Unmarshal(msg.Params, &p); err == nil && len(p.ContentChanges) > 0 {
			s.openDocument(p.TextDocument.URI, p.ContentChanges[len(p.ContentChanges)-1].Text)
		}
	case "textDocument/didClose":
		var p didCloseParams
		if err := json.Unmarshal(msg.Params, &p); err == nil {
			delete(s.documents, p.TextDocument.URI)
		}
	case "murphi/comments":
		s.handleComments(msg)
	case "shutdown":
		s.shutdown = true
		s.reply(msg.ID, nil, nil)
	default:
		if len(msg.ID) > 0 {
			s.reply(msg.ID, nil, &rpcError{Code: -32601, Message: fmt.Sprintf("method not found: %s", msg.Method)})
		}
	}
}

func (s *Server) reply(id json.RawMessage, result any, rpcErr *rpcError) {
	if len(id) == 0 {
		return
	}
	if err := s.codec.writeMessage(&message{ID: id, Result: result, Error: rpcErr}); err != nil {
		s.logger.Printf("lsp: write reply: %v", err)
	}
}

func (s *Server) notify(method string, params any) {
	raw, err := json.Marshal(params)
	if err != nil {
		s.logger.Printf("lsp: marshal notification params: %v", err)
		return
	}
	if err := s.codec.writeMessage(&message{Method: method, Params: raw}); err != nil {
		s.logger.Printf("lsp: write notification: %v", err)
	}
}

// openDocument (re-)parses text and publishes fresh diagnostics, matching
// spec §7's "a compile error is fatal and no subsequent pass runs": if
// parsing fails, the resolver never runs and only the parse error is
// reported.
func (s *Server) openDocument(uri, text string) {
	file := source.NewSourceFile(uri, []byte(text))
	var diags []diagnostic

	model, err := parser.Parse(file)
	if err != nil {
		diags = append(diags, diagnosticsFromError(err)...)
	} else if err := resolve.Resolve(model); err != nil {
		diags = append(diags, diagnosticsFromError(err)...)
	}
	// parser.Parse re-lexes internally but does not expose the Lexer it
	// used, so the comment table is recovered with a second, otherwise
	// redundant lex pass.
	commentLexer := lex.New(file)
	_, _ = commentLexer.Tokenize()

	s.documents[uri] = &document{text: text, file: file, comments: commentLexer.Comments(), diags: diags}
	s.publishDiagnostics(uri, diags)
}

func diagnosticsFromError(err error) []diagnostic {
	var out []diagnostic
	for _, e := range multierr.Errors(err) {
		if se, ok := e.(*source.SyntaxError); ok {
			out = append(out, diagnosticFromSyntaxError(se))
			continue
		}
		out = append(out, diagnostic{Message: e.Error(), Severity: 1})
	}
	return out
}

func (s *Server) publishDiagnostics(uri string, diags []diagnostic) {
	s.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{URI: uri, Diagnostics: diags})
}

func (s *Server) handleComments(msg *message) {
	var p commentsParams
	if err := json.Unmarshal(msg.Params, &p); err != nil {
		s.reply(msg.ID, nil, &rpcError{Code: -32602, Message: "invalid params"})
		return
	}
	doc, ok := s.documents[p.URI]
	if !ok {
		s.reply(msg.ID, nil, &rpcError{Code: -32001, Message: fmt.Sprintf("document not open: %s", p.URI)})
		return
	}
	var lines []string
	for _, c := range doc.comments {
		startLine, startCol := doc.file.Position(c.Span.Start())
		_, endCol := doc.file.Position(c.Span.End())
		lines = append(lines, fmt.Sprintf("%d.%d-%d: %s", startLine, startCol, endCol, c.Text))
	}
	s.reply(msg.ID, commentsResult{Comments: lines}, nil)
}
