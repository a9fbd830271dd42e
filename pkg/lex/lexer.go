package lex

import (
	"strings"
	"unicode"

	"github.com/Smattr/rumur/pkg/source"
)

// Comment records a single-line ("--") or block ("/* ... */") comment
// alongside the span it occupied in the original source.  Comments never
// reach the parser; they are stashed here so that tools like
// murphi-comment-ls and murphi-format (which must never lose one, per §4.H)
// can recover them by position.
type Comment struct {
	Span source.Span
	Text string
}

// Token is a single lexical token: its kind, its span in the source file,
// and (for IDENT/INTLIT/STRINGLIT) its literal text.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// operator and punctuation rules, longest sequence first so that e.g. "==>"
// is recognised before "=", and unicode equivalents are recognised alongside
// their ASCII spellings (§4.A).
var punctRules = []struct {
	scanner source.Scanner[rune]
	kind    Kind
}{
	{source.Literal[rune](0, []rune("==>")...), IMPLIES},
	{source.Literal[rune](0, []rune("->")...), ARROW},
	{source.Literal[rune](0, []rune(":=")...), ASSIGN},
	{source.Literal[rune](0, []rune("..")...), DOTDOT},
	{source.Literal[rune](0, []rune("<=")...), LE},
	{source.Literal[rune](0, []rune(">=")...), GE},
	{source.Literal[rune](0, []rune("!=")...), NEQ},
	{source.One[rune](0, '≔'), ASSIGN},
	{source.One[rune](0, '¬'), NOT},
	{source.One[rune](0, '∧'), AND},
	{source.One[rune](0, '∨'), OR},
	{source.One[rune](0, '≠'), NEQ},
	{source.One[rune](0, '≤'), LE},
	{source.One[rune](0, '≥'), GE},
	{source.One[rune](0, '×'), STAR},
	{source.One[rune](0, '÷'), SLASH},
	{source.One[rune](0, '∕'), SLASH},
	{source.One[rune](0, '−'), MINUS},
	{source.One[rune](0, ';'), SEMI},
	{source.One[rune](0, ':'), COLON},
	{source.One[rune](0, ','), COMMA},
	{source.One[rune](0, '.'), DOT},
	{source.One[rune](0, '('), LPAREN},
	{source.One[rune](0, ')'), RPAREN},
	{source.One[rune](0, '['), LBRACKET},
	{source.One[rune](0, ']'), RBRACKET},
	{source.One[rune](0, '{'), LBRACE},
	{source.One[rune](0, '}'), RBRACE},
	{source.One[rune](0, '+'), PLUS},
	{source.One[rune](0, '-'), MINUS},
	{source.One[rune](0, '*'), STAR},
	{source.One[rune](0, '/'), SLASH},
	{source.One[rune](0, '%'), PERCENT},
	{source.One[rune](0, '='), EQ},
	{source.One[rune](0, '<'), LT},
	{source.One[rune](0, '>'), GT},
	{source.One[rune](0, '&'), AND},
	{source.One[rune](0, '|'), OR},
	{source.One[rune](0, '!'), NOT},
	{source.One[rune](0, '?'), QUESTION},
}

// Lexer tokenises one Murphi source file, accumulating comments in a
// side-channel table as it goes (§4.A).
type Lexer struct {
	file     *source.File
	text     []rune
	index    int
	comments []Comment
}

// New constructs a lexer over a given source file.
func New(file *source.File) *Lexer {
	return &Lexer{file: file, text: file.Contents()}
}

// Comments returns every comment encountered so far, ordered by position.
func (l *Lexer) Comments() []Comment {
	return l.comments
}

// Tokenize scans the entire file into a token slice terminated by an EOF
// token, or returns the first lexical error encountered (unterminated
// string/comment, or an unrecognised character).
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	//
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespaceAndComments()
	//
	start := l.index
	//
	if l.index >= len(l.text) {
		return Token{EOF, source.NewSpan(start, start), ""}, nil
	}
	//
	c := l.text[l.index]
	//
	switch {
	case isIdentStart(c):
		return l.scanIdent(), nil
	case unicode.IsDigit(c):
		return l.scanNumber()
	case c == '"' || c == '“':
		return l.scanString(c)
	default:
		return l.scanPunct()
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.index < len(l.text) {
		c := l.text[l.index]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.index++
		case c == '-' && l.peek(1) == '-':
			l.scanLineComment()
		case c == '/' && l.peek(1) == '*':
			l.scanBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) peek(n int) rune {
	if l.index+n < len(l.text) {
		return l.text[l.index+n]
	}
	return 0
}

func (l *Lexer) scanLineComment() {
	start := l.index
	for l.index < len(l.text) && l.text[l.index] != '\n' {
		l.index++
	}
	l.recordComment(start)
}

func (l *Lexer) scanBlockComment() {
	start := l.index
	l.index += 2
	//
	for l.index < len(l.text) {
		if l.text[l.index] == '*' && l.peek(1) == '/' {
			l.index += 2
			l.recordComment(start)
			return
		}
		l.index++
	}
	// Unterminated; still record what we saw so murphi-format never loses it.
	l.recordComment(start)
}

func (l *Lexer) recordComment(start int) {
	span := source.NewSpan(start, l.index)
	l.comments = append(l.comments, Comment{span, string(l.text[start:l.index])})
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isIdentCont(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func (l *Lexer) scanIdent() Token {
	start := l.index
	for l.index < len(l.text) && isIdentCont(l.text[l.index]) {
		l.index++
	}
	//
	text := string(l.text[start:l.index])
	span := source.NewSpan(start, l.index)
	//
	if kind, ok := keywords[strings.ToLower(text)]; ok {
		return Token{kind, span, text}
	}
	//
	return Token{IDENT, span, text}
}

func (l *Lexer) scanNumber() (Token, error) {
	start := l.index
	// Hex literal: 0x...
	if l.text[l.index] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') {
		l.index += 2
		for l.index < len(l.text) && isHexDigit(l.text[l.index]) {
			l.index++
		}
		if l.index == start+2 {
			return Token{}, l.file.SyntaxError(source.NewSpan(start, l.index), "malformed hex literal")
		}
		return Token{INTLIT, source.NewSpan(start, l.index), string(l.text[start:l.index])}, nil
	}
	//
	for l.index < len(l.text) && unicode.IsDigit(l.text[l.index]) {
		l.index++
	}
	//
	return Token{INTLIT, source.NewSpan(start, l.index), string(l.text[start:l.index])}, nil
}

func isHexDigit(c rune) bool {
	return unicode.IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanString handles both plain '"' quoting and "smart quotes" ("“" / "”").
func (l *Lexer) scanString(open rune) (Token, error) {
	start := l.index
	close := '"'
	if open == '“' {
		close = '”'
	}
	l.index++
	//
	var sb strings.Builder
	//
	for l.index < len(l.text) {
		c := l.text[l.index]
		if c == close {
			l.index++
			return Token{STRINGLIT, source.NewSpan(start, l.index), sb.String()}, nil
		} else if c == '\\' && l.index+1 < len(l.text) {
			sb.WriteRune(l.text[l.index])
			sb.WriteRune(l.text[l.index+1])
			l.index += 2
		} else if c == '\n' {
			break
		} else {
			sb.WriteRune(c)
			l.index++
		}
	}
	//
	return Token{}, l.file.SyntaxError(source.NewSpan(start, l.index), "unterminated string literal")
}

func (l *Lexer) scanPunct() (Token, error) {
	start := l.index
	remaining := l.text[l.index:]
	//
	for _, rule := range punctRules {
		if res := rule.scanner.Scan(remaining); res.HasValue() {
			tok := res.Unwrap()
			n := tok.Span.Length()
			l.index += n
			return Token{rule.kind, source.NewSpan(start, l.index), string(l.text[start:l.index])}, nil
		}
	}
	//
	return Token{}, l.file.SyntaxError(source.NewSpan(start, start+1),
		"unrecognised character '"+string(l.text[start])+"'")
}
