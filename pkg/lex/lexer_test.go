package lex

import (
	"testing"

	"github.com/Smattr/rumur/pkg/source"
	"github.com/Smattr/rumur/pkg/util/assert"
)

func tokenize(t *testing.T, text string) []Token {
	file := source.NewSourceFile("test.m", []byte(text))
	toks, err := New(file).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	return toks
}

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func Test_Lexer_Keywords_00(t *testing.T) {
	toks := tokenize(t, "Rule RULE rule")
	assert.Equal(t, []Kind{RULE, RULE, RULE, EOF}, kinds(toks))
}

func Test_Lexer_Ident_00(t *testing.T) {
	toks := tokenize(t, "foo_Bar2")
	assert.Equal(t, []Kind{IDENT, EOF}, kinds(toks))
	assert.Equal(t, "foo_Bar2", toks[0].Text)
}

func Test_Lexer_IntLit_00(t *testing.T) {
	toks := tokenize(t, "123 0x1A 0")
	assert.Equal(t, []Kind{INTLIT, INTLIT, INTLIT, EOF}, kinds(toks))
	assert.Equal(t, "123", toks[0].Text)
	assert.Equal(t, "0x1A", toks[1].Text)
}

func Test_Lexer_StringLit_00(t *testing.T) {
	toks := tokenize(t, `"hello world"`)
	assert.Equal(t, []Kind{STRINGLIT, EOF}, kinds(toks))
	assert.Equal(t, "hello world", toks[0].Text)
}

func Test_Lexer_LineComment_00(t *testing.T) {
	l := New(source.NewSourceFile("test.m", []byte("x -- a comment\ny")))
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	assert.Equal(t, []Kind{IDENT, IDENT, EOF}, kinds(toks))
	assert.Equal(t, 1, len(l.Comments()))
	assert.Equal(t, "-- a comment", l.Comments()[0].Text)
}

func Test_Lexer_BlockComment_00(t *testing.T) {
	l := New(source.NewSourceFile("test.m", []byte("x /* a\nmulti-line\ncomment */ y")))
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	assert.Equal(t, []Kind{IDENT, IDENT, EOF}, kinds(toks))
	assert.Equal(t, 1, len(l.Comments()))
}

func Test_Lexer_Operators_00(t *testing.T) {
	toks := tokenize(t, ":= == > ==> -> .. <= >= != + - * / %")
	// "==" is not a Murphi operator; EQ is a single '='.
	assert.Equal(t, ASSIGN, toks[0].Kind)
}

func Test_Lexer_UnicodeOperators_00(t *testing.T) {
	toks := tokenize(t, "≔ ¬ ∧ ∨ ≠ ≤ ≥ × ÷ −")
	assert.Equal(t, []Kind{
		ASSIGN, NOT, AND, OR, NEQ, LE, GE, STAR, SLASH, MINUS, EOF,
	}, kinds(toks))
}

func Test_Lexer_MultiCharOperators_00(t *testing.T) {
	toks := tokenize(t, "==> -> := .. <= >= !=")
	assert.Equal(t, []Kind{
		IMPLIES, ARROW, ASSIGN, DOTDOT, LE, GE, NEQ, EOF,
	}, kinds(toks))
}

func Test_Lexer_Punctuation_00(t *testing.T) {
	toks := tokenize(t, "; : , . ( ) [ ] { } ? = < >")
	assert.Equal(t, []Kind{
		SEMI, COLON, COMMA, DOT, LPAREN, RPAREN, LBRACKET, RBRACKET,
		LBRACE, RBRACE, QUESTION, EQ, LT, GT, EOF,
	}, kinds(toks))
}

func Test_Lexer_UnterminatedString_00(t *testing.T) {
	_, err := New(source.NewSourceFile("test.m", []byte(`"abc`))).Tokenize()
	if err == nil {
		t.Fatalf("expected an error for an unterminated string literal")
	}
}

func Test_Lexer_UnrecognisedChar_00(t *testing.T) {
	_, err := New(source.NewSourceFile("test.m", []byte("@"))).Tokenize()
	if err == nil {
		t.Fatalf("expected an error for an unrecognised character")
	}
}
