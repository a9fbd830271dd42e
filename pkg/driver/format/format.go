// Package format implements murphi-format (spec §4.H): a round-tripping
// pretty printer. It never drops a comment, always emits a trailing
// newline, and applies the teacher-independent spacing/indentation rules
// spec.md names (two-space indentation; operators padded by a single space
// except unary; `==> begin` stays joined; `end` always starts a fresh
// line). Integer literals are printed in decimal; hex literals are not
// preserved (see intLitText).
//
// Known, bounded simplification: there is no
// concrete syntax tree, so comments are reattached to the nearest preceding
// top-level declaration by source line rather than to the exact statement
// they annotated inside a procedure/function/rule body — every comment is
// still emitted, in original order, exactly once, but a comment nested deep
// inside a body surfaces just before the declaration containing it rather
// than inline at its original statement.
package format

import (
	"fmt"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/lex"
	"github.com/Smattr/rumur/pkg/parser"
	"github.com/Smattr/rumur/pkg/source"
)

const offDirective = "-- murphi-format: off"
const onDirective = "-- murphi-format: on"

// Format re-lexes and parses file, then renders it as pretty-printed
// Murphi source honoring `-- murphi-format: off`/`on` regions.
func Format(file *source.File) (string, error) {
	lexer := lex.New(file)
	if _, err := lexer.Tokenize(); err != nil {
		return "", err
	}
	model, err := parser.Parse(file)
	if err != nil {
		return "", err
	}

	comments := lexer.Comments()
	off := offRegions(file, comments)
	p := &printer{file: file, comments: comments, off: off}

	var b strings.Builder
	decls := collectDecls(model)
	copied := map[int]bool{}
	for _, d := range decls {
		if p.isOff(d.span) {
			// An off region is copied once, verbatim, with the comments inside it.
			for _, o := range p.off {
				if d.span.Start() < o.Start() || d.span.End() > o.End() || copied[o.Start()] {
					continue
				}
				copied[o.Start()] = true
				line, _ := file.Position(o.Start())
				p.emitCommentsBefore(&b, line+1)
				text := string(file.Contents()[o.Start():o.End()])
				b.WriteString(strings.TrimRight(strings.TrimLeft(text, "\n"), " \t\n") + "\n")
				for p.emitted < len(p.comments) && p.comments[p.emitted].Span.Start() < o.End() {
					p.emitted++
				}
			}
			continue
		}
		p.emitCommentsBefore(&b, d.line)
		b.WriteString(d.render(p))
		b.WriteString("\n")
	}
	p.emitRemainingComments(&b)

	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// decl is one top-level declaration in source order, carrying its own
// renderer so format.go can stay declaration-kind-agnostic.
type decl struct {
	line  int
	span  source.Span
	render func(*printer) string
}

func collectDecls(m *ast.Model) []decl {
	var out []decl
	for _, c := range m.Consts {
		c := c
		out = append(out, decl{line: line(c.Pos), span: c.Pos.Span, render: func(p *printer) string { return p.renderConst(c) }})
	}
	for _, t := range m.Types {
		t := t
		out = append(out, decl{line: line(t.Pos), span: t.Pos.Span, render: func(p *printer) string { return p.renderTypeAlias(t) }})
	}
	for _, v := range m.Vars {
		v := v
		out = append(out, decl{line: line(v.Pos), span: v.Pos.Span, render: func(p *printer) string { return p.renderVar(v) }})
	}
	for _, pr := range m.Procedures {
		pr := pr
		out = append(out, decl{line: line(pr.Pos), span: pr.Pos.Span, render: func(p *printer) string { return p.renderProcedure(pr) }})
	}
	for _, f := range m.Functions {
		f := f
		out = append(out, decl{line: line(f.Pos), span: f.Pos.Span, render: func(p *printer) string { return p.renderFunction(f) }})
	}
	for _, r := range m.Rules {
		r := r
		out = append(out, decl{line: line(r.Pos), span: r.Pos.Span, render: func(p *printer) string { return p.renderRule(r, 0) }})
	}
	sortDecls(out)
	return out
}

func sortDecls(decls []decl) {
	for i := 1; i < len(decls); i++ {
		for j := i; j > 0 && decls[j].line < decls[j-1].line; j-- {
			decls[j], decls[j-1] = decls[j-1], decls[j]
		}
	}
}

func line(pos source.Position) int {
	if pos.File == nil {
		return 0
	}
	l, _ := pos.File.Position(pos.Span.Start())
	return l
}

type printer struct {
	file     *source.File
	comments []lex.Comment
	off      []source.Span
	emitted  int
}

func (p *printer) isOff(span source.Span) bool {
	for _, o := range p.off {
		if span.Start() >= o.Start() && span.End() <= o.End() {
			return true
		}
	}
	return false
}

// emitCommentsBefore flushes every not-yet-emitted comment whose line is
// strictly before upTo.
func (p *printer) emitCommentsBefore(b *strings.Builder, upTo int) {
	for p.emitted < len(p.comments) {
		c := p.comments[p.emitted]
		cl, _ := p.file.Position(c.Span.Start())
		if cl >= upTo {
			return
		}
		fmt.Fprintf(b, "%s\n", strings.TrimRight(c.Text, " \t"))
		p.emitted++
	}
}

func (p *printer) emitRemainingComments(b *strings.Builder) {
	for ; p.emitted < len(p.comments); p.emitted++ {
		fmt.Fprintf(b, "%s\n", strings.TrimRight(p.comments[p.emitted].Text, " \t"))
	}
}

// offRegions pairs every "-- murphi-format: off" comment with the next
// "-- murphi-format: on" (or EOF), returning the covered source spans.
func offRegions(file *source.File, comments []lex.Comment) []source.Span {
	var out []source.Span
	var start *int
	for _, c := range comments {
		text := strings.TrimSpace(c.Text)
		switch text {
		case offDirective:
			if start == nil {
				s := c.Span.End()
				start = &s
			}
		case onDirective:
			if start != nil {
				out = append(out, source.NewSpan(*start, c.Span.Start()))
				start = nil
			}
		}
	}
	if start != nil {
		out = append(out, source.NewSpan(*start, len(file.Contents())))
	}
	return out
}
