package parser

import (
	"math/big"

	"github.com/Smattr/rumur/pkg/ast"
	"github.com/Smattr/rumur/pkg/lex"
)

// ----------------------------------------------------------------------------
// Procedures and functions
// ----------------------------------------------------------------------------

func (p *Parser) parseParams() ([]ast.Param, error) {
	if _, err := p.expect(lex.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	for p.lookahead().Kind != lex.RPAREN {
		byRef := p.match(lex.VAR)
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
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			params = append(params, ast.Param{Ident: n, Type: typ, ByRef: byRef})
		}
		if !p.match(lex.SEMI) {
			break
		}
	}
	if _, err := p.expect(lex.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) openParamScope(params []ast.Param) *ast.Scope {
	scope := p.scope.Open()
	for i := range params {
		kind := ast.ByValueParam
		if params[i].ByRef {
			kind = ast.ByReferenceParam
		}
		v := &ast.Variable{Ident: params[i].Ident, Type: params[i].Type, Kind: kind}
		scope.DeclareVar(v)
		params[i].Variable = v
	}
	return scope
}

func (p *Parser) parseLocalDecls() error {
	for p.lookahead().Kind == lex.CONST || p.lookahead().Kind == lex.TYPE || p.lookahead().Kind == lex.VAR {
		switch p.lookahead().Kind {
		case lex.CONST:
			if _, err := p.parseConstDecl(); err != nil {
				return err
			}
		case lex.TYPE:
			if _, err := p.parseTypeDecl(); err != nil {
				return err
			}
		case lex.VAR:
			if _, err := p.parseVarDecl(ast.Local); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Parser) parseProcedureDecl() (*ast.ProcedureDecl, error) {
	pos := p.pos()
	if _, err := p.expect(lex.PROCEDURE); err != nil {
		return nil, err
	}
	name := p.lookahead().Text
	if _, err := p.expect(lex.IDENT); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOptional(lex.SEMI); err != nil {
		return nil, err
	}
	//
	outer := p.scope
	p.scope = p.openParamScope(params)
	if err := p.parseLocalDecls(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.BEGIN); err != nil {
		return nil, err
	}
	body, err := p.parseStmts(lex.END, lex.ENDPROCEDURE)
	if err != nil {
		return nil, err
	}
	if !p.match(lex.END) {
		if _, err := p.expect(lex.ENDPROCEDURE); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectOptional(lex.SEMI); err != nil {
		return nil, err
	}
	//
	decl := &ast.ProcedureDecl{Node: ast.Node{Pos: pos}, Ident: name, Params: params, Body: body, Scope: p.scope}
	p.scope = outer
	return decl, nil
}

func (p *Parser) parseFunctionDecl() (*ast.FunctionDecl, error) {
	pos := p.pos()
	if _, err := p.expect(lex.FUNCTION); err != nil {
		return nil, err
	}
	name := p.lookahead().Text
	if _, err := p.expect(lex.IDENT); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.COLON); err != nil {
		return nil, err
	}
	resultType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOptional(lex.SEMI); err != nil {
		return nil, err
	}
	//
	outer := p.scope
	p.scope = p.openParamScope(params)
	if err := p.parseLocalDecls(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.BEGIN); err != nil {
		return nil, err
	}
	body, err := p.parseStmts(lex.END, lex.ENDFUNCTION)
	if err != nil {
		return nil, err
	}
	if !p.match(lex.END) {
		if _, err := p.expect(lex.ENDFUNCTION); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectOptional(lex.SEMI); err != nil {
		return nil, err
	}
	//
	decl := &ast.FunctionDecl{Node: ast.Node{Pos: pos}, Ident: name, Params: params, ResultType: resultType, Body: body, Scope: p.scope}
	p.scope = outer
	return decl, nil
}

// ----------------------------------------------------------------------------
// Rules
// ----------------------------------------------------------------------------

func (p *Parser) parseRule() (*ast.Rule, error) {
	pos := p.pos()
	//
	switch p.lookahead().Kind {
	case lex.STARTSTATE:
		p.advance()
		ident := p.parseOptionalName()
		if _, err := p.expectOptional(lex.SEMI); err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.BEGIN); err != nil {
			return nil, err
		}
		body, err := p.parseStmts(lex.END, lex.ENDSTARTSTATE)
		if err != nil {
			return nil, err
		}
		if !p.match(lex.END) {
			if _, err := p.expect(lex.ENDSTARTSTATE); err != nil {
				return nil, err
			}
		}
		p.expectOptional(lex.SEMI)
		return &ast.Rule{Node: ast.Node{Pos: pos}, Kind: ast.StartstateRule, Ident: ident, Body: body}, nil
	case lex.INVARIANT:
		p.advance()
		ident := p.parseOptionalName()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.expectOptional(lex.SEMI)
		return &ast.Rule{Node: ast.Node{Pos: pos}, Kind: ast.InvariantRule, Ident: ident, Guard: cond}, nil
	case lex.LIVENESS:
		p.advance()
		ident := p.parseOptionalName()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.expectOptional(lex.SEMI)
		return &ast.Rule{Node: ast.Node{Pos: pos}, Kind: ast.LivenessRule, Ident: ident, Guard: cond}, nil
	case lex.COVER:
		p.advance()
		ident := p.parseOptionalName()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.expectOptional(lex.SEMI)
		return &ast.Rule{Node: ast.Node{Pos: pos}, Kind: ast.CoverRule, Ident: ident, Guard: cond}, nil
	case lex.RULESET:
		return p.parseRuleSet()
	case lex.ALIAS:
		return p.parseAliasRule()
	default:
		return p.parseSimpleRule()
	}
}

func (p *Parser) parseOptionalName() string {
	if p.lookahead().Kind == lex.STRINGLIT {
		name := p.lookahead().Text
		p.advance()
		p.match(lex.COLON)
		return name
	}
	return ""
}

func (p *Parser) parseSimpleRule() (*ast.Rule, error) {
	pos := p.pos()
	p.match(lex.RULE)
	ident := p.parseOptionalName()
	guard, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.IMPLIES); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.BEGIN); err != nil {
		return nil, err
	}
	body, err := p.parseStmts(lex.END, lex.ENDRULE)
	if err != nil {
		return nil, err
	}
	if !p.match(lex.END) {
		if _, err := p.expect(lex.ENDRULE); err != nil {
			return nil, err
		}
	}
	p.expectOptional(lex.SEMI)
	return &ast.Rule{Node: ast.Node{Pos: pos}, Kind: ast.SimpleRule, Ident: ident, Guard: guard, Body: body}, nil
}

func (p *Parser) parseRuleSet() (*ast.Rule, error) {
	pos := p.pos()
	if _, err := p.expect(lex.RULESET); err != nil {
		return nil, err
	}
	//
	outer := p.scope
	p.scope = outer.Open()
	//
	var quantifiers []ast.Param
	for p.lookahead().Kind == lex.IDENT {
		names := []string{p.lookahead().Text}
		p.advance()
		for p.match(lex.COMMA) {
			names = append(names, p.lookahead().Text)
			p.advance()
		}
		if _, err := p.expect(lex.COLON); err != nil {
			return nil, err
		}
		domain, err := p.parseType()
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			v := &ast.Variable{Ident: n, Type: domain, Kind: ast.Local}
			p.scope.DeclareVar(v)
			quantifiers = append(quantifiers, ast.Param{Ident: n, Type: domain, Variable: v})
		}
		if !p.match(lex.SEMI) {
			break
		}
	}
	if _, err := p.expect(lex.DO); err != nil {
		return nil, err
	}
	//
	var nested []*ast.Rule
	for p.lookahead().Kind != lex.ENDRULESET && p.lookahead().Kind != lex.END {
		r, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		nested = append(nested, r)
	}
	if !p.match(lex.END) {
		if _, err := p.expect(lex.ENDRULESET); err != nil {
			return nil, err
		}
	}
	p.expectOptional(lex.SEMI)
	//
	rule := &ast.Rule{Node: ast.Node{Pos: pos}, Kind: ast.RuleSetRule, Quantifiers: quantifiers, Nested: nested, Scope: p.scope}
	p.scope = outer
	return rule, nil
}

func (p *Parser) parseAliasRule() (*ast.Rule, error) {
	pos := p.pos()
	if _, err := p.expect(lex.ALIAS); err != nil {
		return nil, err
	}
	name := p.lookahead().Text
	if _, err := p.expect(lex.IDENT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.COLON); err != nil {
		return nil, err
	}
	target, err := p.parseDesignator()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.DO); err != nil {
		return nil, err
	}
	//
	var nested []*ast.Rule
	for p.lookahead().Kind != lex.ENDALIAS && p.lookahead().Kind != lex.END {
		r, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		nested = append(nested, r)
	}
	if !p.match(lex.END) {
		if _, err := p.expect(lex.ENDALIAS); err != nil {
			return nil, err
		}
	}
	p.expectOptional(lex.SEMI)
	return &ast.Rule{Node: ast.Node{Pos: pos}, Kind: ast.AliasRule, AliasIdent: name, AliasTarget: target, Nested: nested}, nil
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Parser) parseStmts(ends ...lex.Kind) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.following(ends...) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) following(kinds ...lex.Kind) bool {
	for _, k := range kinds {
		if p.lookahead().Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.lookahead().Kind {
	case lex.IF:
		return p.parseIf()
	case lex.SWITCH:
		return p.parseSwitch()
	case lex.FOR:
		return p.parseFor()
	case lex.WHILE:
		return p.parseWhile()
	case lex.ALIAS:
		return p.parseAliasStmt()
	case lex.CLEAR:
		return p.parseClear()
	case lex.ERROR:
		return p.parseError()
	case lex.ASSERT:
		return p.parseAssert()
	case lex.ASSUME:
		return p.parseAssume()
	case lex.PUT:
		return p.parsePut()
	case lex.RETURN:
		return p.parseReturn()
	default:
		return p.parseAssignmentOrCall()
	}
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	pos := p.pos()
	p.advance()
	//
	var arms []ast.IfArm
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.THEN); err != nil {
		return nil, err
	}
	body, err := p.parseStmts(lex.ELSIF, lex.ELSE, lex.ENDIF)
	if err != nil {
		return nil, err
	}
	arms = append(arms, ast.IfArm{Cond: cond, Body: body})
	//
	for p.lookahead().Kind == lex.ELSIF {
		p.advance()
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.THEN); err != nil {
			return nil, err
		}
		b, err := p.parseStmts(lex.ELSIF, lex.ELSE, lex.ENDIF)
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.IfArm{Cond: c, Body: b})
	}
	if p.lookahead().Kind == lex.ELSE {
		p.advance()
		b, err := p.parseStmts(lex.ENDIF)
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.IfArm{Body: b})
	}
	if _, err := p.expect(lex.ENDIF); err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	_ = pos
	return &ast.IfChain{Arms: arms}, nil
}

func (p *Parser) parseSwitch() (ast.Stmt, error) {
	p.advance()
	selector, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var cases []ast.SwitchCase
	for p.lookahead().Kind == lex.CASE {
		p.advance()
		labels := []ast.Expr{}
		lbl, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		labels = append(labels, lbl)
		for p.match(lex.COMMA) {
			lbl, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			labels = append(labels, lbl)
		}
		if _, err := p.expect(lex.COLON); err != nil {
			return nil, err
		}
		body, err := p.parseStmts(lex.CASE, lex.ELSE, lex.ENDSWITCH)
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.SwitchCase{Labels: labels, Body: body})
	}
	if p.lookahead().Kind == lex.ELSE {
		p.advance()
		body, err := p.parseStmts(lex.ENDSWITCH)
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.SwitchCase{Body: body})
	}
	if _, err := p.expect(lex.ENDSWITCH); err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	return &ast.SwitchChain{Selector: selector, Cases: cases}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	p.advance()
	name := p.lookahead().Text
	if _, err := p.expect(lex.IDENT); err != nil {
		return nil, err
	}
	//
	outer := p.scope
	p.scope = outer.Open()
	//
	stmt := &ast.For{}
	//
	if p.match(lex.ASSIGN) {
		from, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.TO); err != nil {
			return nil, err
		}
		to, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		step := big.NewInt(1)
		if p.match(lex.BY) {
			s, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if lit, ok := s.(*ast.Lit); ok {
				step = lit.Int
			}
		}
		stmt.From, stmt.To, stmt.Step = from, to, step
		stmt.Bound = &ast.Variable{Ident: name, Type: &ast.Range{}, Kind: ast.Local}
	} else {
		if _, err := p.expect(lex.COLON); err != nil {
			return nil, err
		}
		domain, err := p.parseType()
		if err != nil {
			return nil, err
		}
		stmt.Domain = domain
		stmt.Bound = &ast.Variable{Ident: name, Type: domain, Kind: ast.Local}
	}
	p.scope.DeclareVar(stmt.Bound)
	if _, err := p.expect(lex.DO); err != nil {
		return nil, err
	}
	body, err := p.parseStmts(lex.ENDFOR)
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	if _, err := p.expect(lex.ENDFOR); err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	p.scope = outer
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.DO); err != nil {
		return nil, err
	}
	body, err := p.parseStmts(lex.ENDWHILE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.ENDWHILE); err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parseAliasStmt() (ast.Stmt, error) {
	p.advance()
	name := p.lookahead().Text
	if _, err := p.expect(lex.IDENT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.COLON); err != nil {
		return nil, err
	}
	target, err := p.parseDesignator()
	if err != nil {
		return nil, err
	}

	outer := p.scope
	p.scope = outer.Open()
	v := &ast.Variable{Ident: name, Type: target.ResultType(), Kind: ast.Local}
	p.scope.DeclareVar(v)

	if _, err := p.expect(lex.DO); err != nil {
		p.scope = outer
		return nil, err
	}
	body, err := p.parseStmts(lex.END, lex.ENDALIAS)
	if err != nil {
		p.scope = outer
		return nil, err
	}
	if !p.match(lex.END) {
		if _, err := p.expect(lex.ENDALIAS); err != nil {
			p.scope = outer
			return nil, err
		}
	}
	p.expectOptional(lex.SEMI)
	p.scope = outer
	return &ast.Alias{Ident: name, Target: target, Body: body, Variable: v}, nil
}

func (p *Parser) parseClear() (ast.Stmt, error) {
	p.advance()
	target, err := p.parseDesignator()
	if err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	return &ast.Clear{Target: target}, nil
}

func (p *Parser) parseError() (ast.Stmt, error) {
	p.advance()
	msg := p.lookahead().Text
	if _, err := p.expect(lex.STRINGLIT); err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	return &ast.ErrorStmt{Message: msg}, nil
}

func (p *Parser) parseAssert() (ast.Stmt, error) {
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	msg := ""
	if p.match(lex.QUESTION) {
		msg = p.lookahead().Text
		if _, err := p.expect(lex.STRINGLIT); err != nil {
			return nil, err
		}
	}
	p.expectOptional(lex.SEMI)
	return &ast.Assert{Cond: cond, Message: msg}, nil
}

func (p *Parser) parseAssume() (ast.Stmt, error) {
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	return &ast.Assume{Cond: cond}, nil
}

func (p *Parser) parsePut() (ast.Stmt, error) {
	p.advance()
	if p.lookahead().Kind == lex.STRINGLIT {
		text := p.lookahead().Text
		p.advance()
		p.expectOptional(lex.SEMI)
		return &ast.Put{Literal: text}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	return &ast.Put{Value: val}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	p.advance()
	if p.lookahead().Kind == lex.SEMI || p.following(lex.END, lex.ENDPROCEDURE, lex.ENDFUNCTION, lex.ENDIF, lex.ENDFOR, lex.ENDWHILE, lex.ENDSWITCH, lex.ELSE, lex.ELSIF) {
		p.expectOptional(lex.SEMI)
		return &ast.Return{}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	return &ast.Return{Value: val}, nil
}

func (p *Parser) parseAssignmentOrCall() (ast.Stmt, error) {
	if p.lookahead().Kind != lex.IDENT {
		return nil, p.errorf(p.lookahead(), "expected a statement")
	}
	//
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
		p.expectOptional(lex.SEMI)
		call := &ast.ProcCall{CalleeName: name, Args: args}
		call.Pos = pos
		return call, nil
	}
	//
	target, err := p.parseDesignator()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lex.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.expectOptional(lex.SEMI)
	return &ast.Assignment{Target: target, Value: value}, nil
}
