// Package parser implements a recursive-descent parser for the Murphi
// surface language (spec §4.A), turning a token stream from pkg/lex
// directly into a pkg/ast tree. Unlike the teacher's sexp-based parser
// (which translates an already-parsed S-expression tree), this parser
// consumes lex.Token values with an explicit lookahead cursor, following
// the style of pkg/asm/assembler/parser.go.
package parser

import (
	"math/big"
	"strings"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/lex"
	"github.com/Smattr/rumur/pkg/source"
)

// Parser holds the token stream and lookahead cursor for one source file.
type Parser struct {
	file   *source.File
	tokens []lex.Token
	index  int
	scope  *ast.Scope
}

// Parse tokenises and parses a single Murphi source file into a Model.  On
// the first syntax error encountered, parsing stops and that error is
// returned; there is no partial IR (per spec §7, a compile error is fatal
// and no subsequent pass runs).
func Parse(file *source.File) (*ast.Model, error) {
	lexer := lex.New(file)
	toks, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}
	//
	p := &Parser{file: file, tokens: toks, scope: ast.NewRootScope()}
	//
	return p.parseModel()
}

func (p *Parser) parseModel() (*ast.Model, error) {
	model := &ast.Model{Scope: p.scope}
	//
	for p.lookahead().Kind != lex.EOF {
		switch p.lookahead().Kind {
		case lex.CONST:
			c, err := p.parseConstDecl()
			if err != nil {
				return nil, err
			}
			model.Consts = append(model.Consts, c...)
		case lex.TYPE:
			t, err := p.parseTypeDecl()
			if err != nil {
				return nil, err
			}
			model.Types = append(model.Types, t...)
		case lex.VAR:
			v, err := p.parseVarDecl(ast.StateSlot)
			if err != nil {
				return nil, err
			}
			model.Vars = append(model.Vars, v...)
		case lex.PROCEDURE:
			decl, err := p.parseProcedureDecl()
			if err != nil {
				return nil, err
			}
			model.Procedures = append(model.Procedures, decl)
		case lex.FUNCTION:
			decl, err := p.parseFunctionDecl()
			if err != nil {
				return nil, err
			}
			model.Functions = append(model.Functions, decl)
		default:
			rule, err := p.parseRule()
			if err != nil {
				return nil, err
			}
			model.Rules = append(model.Rules, rule)
		}
	}
	//
	return model, nil
}

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

func (p *Parser) parseConstDecl() ([]*ast.Constant, error) {
	if _, err := p.expect(lex.CONST); err != nil {
		return nil, err
	}
	//
	var out []*ast.Constant
	//
	for p.lookahead().Kind == lex.IDENT {
		name, pos := p.lookahead().Text, p.pos()
		p.advance()
		if _, err := p.expect(lex.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectOptional(lex.SEMI); err != nil {
			return nil, err
		}
		//
		c := &ast.Constant{Node: ast.Node{Pos: pos}, Ident: name}
		if lit, ok := val.(*ast.Lit); ok && lit.Kind == ast.BoolLit {
			c.IsBool, c.Bool = true, lit.Bool
		} else if lit, ok := val.(*ast.Lit); ok && lit.Kind == ast.IntLit {
			c.Value = lit.Int
		}
		p.scope.DeclareConst(c)
		out = append(out, c)
	}
	//
	return out, nil
}

func (p *Parser) parseTypeDecl() ([]*ast.TypeAlias, error) {
	if _, err := p.expect(lex.TYPE); err != nil {
		return nil, err
	}
	//
	var out []*ast.TypeAlias
	//
	for p.lookahead().Kind == lex.IDENT {
		name, pos := p.lookahead().Text, p.pos()
		p.advance()
		if _, err := p.expect(lex.COLON); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectOptional(lex.SEMI); err != nil {
			return nil, err
		}
		//
		alias := &ast.TypeAlias{Node: ast.Node{Pos: pos}, Ident: name, Type: typ}
		p.scope.DeclareType(alias)
		out = append(out, alias)
	}
	//
	return out, nil
}

func (p *Parser) parseVarDecl(kind ast.Storage) ([]*ast.Variable, error) {
	if _, err := p.expect(lex.VAR); err != nil {
		return nil, err
	}
	//
	var out []*ast.Variable
	//
	for p.lookahead().Kind == lex.IDENT {
		names := []string{p.lookahead().Text}
		pos := p.pos()
		p.advance()
		for p.match(lex.COMMA) {
			names = append(names, p.lookahead().Text)
			p.advance()
		}
		if _, err := p.expect(lex.COLON); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectOptional(lex.SEMI); err != nil {
			return nil, err
		}
		//
		for _, n := range names {
			v := &ast.Variable{Node: ast.Node{Pos: pos}, Ident: n, Type: typ, Kind: kind}
			p.scope.DeclareVar(v)
			out = append(out, v)
		}
	}
	//
	return out, nil
}

// ----------------------------------------------------------------------------
// Types
// ----------------------------------------------------------------------------

func (p *Parser) parseType() (ast.Type, error) {
	pos := p.pos()
	//
	switch p.lookahead().Kind {
	case lex.BOOLEAN:
		p.advance()
		return &ast.Boolean{Node: ast.Node{Pos: pos}}, nil
	case lex.SCALARSET:
		p.advance()
		if _, err := p.expect(lex.LPAREN); err != nil {
			return nil, err
		}
		size, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RPAREN); err != nil {
			return nil, err
		}
		n := big.NewInt(0)
		if lit, ok := size.(*ast.Lit); ok && lit.Kind == ast.IntLit {
			n = lit.Int
		}
		return &ast.Scalarset{Node: ast.Node{Pos: pos}, Size: n}, nil
	case lex.ARRAY:
		p.advance()
		if _, err := p.expect(lex.LBRACKET); err != nil {
			return nil, err
		}
		index, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RBRACKET); err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.OF); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.Array{Node: ast.Node{Pos: pos}, Index: index, Elem: elem}, nil
	case lex.RECORD:
		p.advance()
		var fields []ast.RecordField
		for p.lookahead().Kind != lex.END {
			names := []string{p.lookahead().Text}
			if _, err := p.expect(lex.IDENT); err != nil {
				return nil, err
			}
			for p.match(lex.COMMA) {
				names = append(names, p.lookahead().Text)
				if _, err := p.expect(lex.IDENT); err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(lex.COLON); err != nil {
				return nil, err
			}
			ftype, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectOptional(lex.SEMI); err != nil {
				return nil, err
			}
			for _, n := range names {
				fields = append(fields, ast.RecordField{Name: n, Type: ftype})
			}
		}
		if _, err := p.expect(lex.END); err != nil {
			return nil, err
		}
		return &ast.Record{Node: ast.Node{Pos: pos}, Fields: fields}, nil
	case lex.ENUM:
		p.advance()
		if _, err := p.expect(lex.LBRACE); err != nil {
			return nil, err
		}
		var values []string
		for p.lookahead().Kind == lex.IDENT {
			values = append(values, p.lookahead().Text)
			p.advance()
			if !p.match(lex.COMMA) {
				break
			}
		}
		if _, err := p.expect(lex.RBRACE); err != nil {
			return nil, err
		}
		return &ast.Enum{Node: ast.Node{Pos: pos}, Values: values}, nil
	case lex.IDENT:
		name := p.lookahead().Text
		p.advance()
		if alias, ok := p.scope.LookupType(name); ok {
			return &ast.TypeRef{Node: ast.Node{Pos: pos}, Name: name, Target: alias.Type}, nil
		}
		return &ast.TypeRef{Node: ast.Node{Pos: pos}, Name: name}, nil
	default:
		lo, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.DOTDOT); err != nil {
			return nil, err
		}
		hi, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		low, high := big.NewInt(0), big.NewInt(0)
		if lit, ok := lo.(*ast.Lit); ok {
			low = lit.Int
		}
		if lit, ok := hi.(*ast.Lit); ok {
			high = lit.Int
		}
		return &ast.Range{Node: ast.Node{Pos: pos}, Low: low, High: high}, nil
	}
}

// ----------------------------------------------------------------------------
// Expressions (precedence climbing, weakest to strongest)
// ----------------------------------------------------------------------------

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if !p.match(lex.QUESTION) {
		return cond, nil
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.COLON); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseImplies() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.match(lex.ARROW) {
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Op: ast.OpImplies, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(lex.OR) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.match(lex.AND) {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.match(lex.NOT) {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Operand: operand}, nil
	}
	return p.parseCompare()
}

var compareOps = map[lex.Kind]ast.BinaryOperator{
	lex.EQ: ast.OpEq, lex.NEQ: ast.OpNeq, lex.LT: ast.OpLt,
	lex.LE: ast.OpLe, lex.GT: ast.OpGt, lex.GE: ast.OpGe,
}

func (p *Parser) parseCompare() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if op, ok := compareOps[p.lookahead().Kind]; ok {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.lookahead().Kind == lex.PLUS || p.lookahead().Kind == lex.MINUS {
		op := ast.OpAdd
		if p.lookahead().Kind == lex.MINUS {
			op = ast.OpSub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOperator
		switch p.lookahead().Kind {
		case lex.STAR:
			op = ast.OpMul
		case lex.SLASH:
			op = ast.OpDiv
		case lex.PERCENT:
			op = ast.OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.match(lex.MINUS) {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Op: ast.OpSub, Left: &ast.Lit{Int: big.NewInt(0), Kind: ast.IntLit}, Right: operand}, nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	pos := p.pos()
	tok := p.lookahead()
	//
	switch tok.Kind {
	case lex.INTLIT:
		p.advance()
		n := new(big.Int)
		if strings.HasPrefix(tok.Text, "0x") || strings.HasPrefix(tok.Text, "0X") {
			n.SetString(tok.Text[2:], 16)
		} else {
			n.SetString(tok.Text, 10)
		}
		return &ast.Lit{ExprBase: ast.ExprBase{Node: ast.Node{Pos: pos}}, Int: n, Kind: ast.IntLit}, nil
	case lex.TRUE, lex.FALSE:
		p.advance()
		return &ast.Lit{ExprBase: ast.ExprBase{Node: ast.Node{Pos: pos}}, Bool: tok.Kind == lex.TRUE, Kind: ast.BoolLit}, nil
	case lex.UNDEFINED:
		p.advance()
		return &ast.Lit{ExprBase: ast.ExprBase{Node: ast.Node{Pos: pos}}, Kind: ast.UndefinedLit}, nil
	case lex.ISUNDEFINED:
		p.advance()
		if _, err := p.expect(lex.LPAREN); err != nil {
			return nil, err
		}
		designator, err := p.parseDesignator()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RPAREN); err != nil {
			return nil, err
		}
		return &ast.IsUndefined{Operand: designator}, nil
	case lex.FORALL, lex.EXISTS:
		return p.parseQuantifier()
	case lex.LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case lex.IDENT:
		return p.parseDesignatorOrCall()
	default:
		return nil, p.errorf(tok, "unexpected token while parsing expression")
	}
}

func (p *Parser) parseQuantifier() (ast.Expr, error) {
	exists := p.lookahead().Kind == lex.EXISTS
	p.advance()
	name := p.lookahead().Text
	if _, err := p.expect(lex.IDENT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.COLON); err != nil {
		return nil, err
	}
	domain, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.DO); err != nil {
		return nil, err
	}
	bound := &ast.Variable{Ident: name, Type: domain, Kind: ast.Local}
	outer := p.scope
	p.scope = outer.Open()
	p.scope.DeclareVar(bound)
	body, err := p.parseExpr()
	p.scope = outer
	if err != nil {
		return nil, err
	}
	endKind := lex.ENDFORALL
	if exists {
		endKind = lex.ENDEXISTS
	}
	if _, err := p.expect(endKind); err != nil {
		return nil, err
	}
	return &ast.Quantifier{Bound: bound, Domain: domain, Body: body, Exists: exists}, nil
}

func (p *Parser) parseDesignator() (*ast.VarRead, error) {
	name := p.lookahead().Text
	if _, err := p.expect(lex.IDENT); err != nil {
		return nil, err
	}
	v, _ := p.scope.LookupVar(name)
	read := &ast.VarRead{Sym: v, Ident: name}
	//
	for {
		switch p.lookahead().Kind {
		case lex.DOT:
			p.advance()
			field := p.lookahead().Text
			if _, err := p.expect(lex.IDENT); err != nil {
				return nil, err
			}
			read.Path = append(read.Path, &ast.FieldSelector{Field: field})
		case lex.LBRACKET:
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lex.RBRACKET); err != nil {
				return nil, err
			}
			read.Path = append(read.Path, &ast.IndexSelector{Index: idx})
		default:
			return read, nil
		}
	}
}

func (p *Parser) parseDesignatorOrCall() (ast.Expr, error) {
	if p.peekKind(1) == lex.LPAREN {
		pos := p.pos()
		name := p.lookahead().Text
		p.advance()
		p.advance()
		var args []ast.Expr
		for p.lookahead().Kind != lex.RPAREN {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(lex.COMMA) {
				break
			}
		}
		if _, err := p.expect(lex.RPAREN); err != nil {
			return nil, err
		}
		call := &ast.FuncCall{CalleeName: name, Args: args}
		call.Pos = pos
		return call, nil
	}
	return p.parseDesignator()
}

// ----------------------------------------------------------------------------
// Cursor helpers (grounded on pkg/asm/assembler/parser.go's lookahead/expect)
// ----------------------------------------------------------------------------

func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

func (p *Parser) peekKind(n int) lex.Kind {
	if p.index+n < len(p.tokens) {
		return p.tokens[p.index+n].Kind
	}
	return lex.EOF
}

func (p *Parser) advance() {
	if p.index < len(p.tokens)-1 {
		p.index++
	}
}

func (p *Parser) pos() source.Position {
	return source.Position{File: p.file, Span: p.lookahead().Span}
}

func (p *Parser) match(kind lex.Kind) bool {
	if p.lookahead().Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind lex.Kind) (lex.Token, error) {
	tok := p.lookahead()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected "+kind.String()+", found "+tok.Kind.String())
	}
	p.advance()
	return tok, nil
}

// expectOptional consumes a token of the given kind if present; Murphi
// treats statement/declaration-terminating semicolons as optional.
func (p *Parser) expectOptional(kind lex.Kind) (lex.Token, error) {
	if p.lookahead().Kind == kind {
		return p.expect(kind)
	}
	return lex.Token{}, nil
}

func (p *Parser) errorf(tok lex.Token, msg string) error {
	pos := source.Position{File: p.file, Span: tok.Span}
	return pos.SyntaxError(msg)
}
