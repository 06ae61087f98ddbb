package parser

import (
	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	tok := p.peek()
	if tok.Kind == lexer.KindKeyword {
		switch tok.Value {
		case "let", "const":
			return p.parseVariableDeclaration()
		case "function":
			return p.parseFunctionDeclaration()
		case "if":
			return p.parseIfStatement()
		case "while":
			return p.parseWhileStatement()
		case "return":
			return p.parseReturnStatement()
		case "print":
			return p.parsePrintStatement()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseVariableDeclaration() (ast.Statement, error) {
	kw := p.advance()
	kind := ast.DeclarationLet
	if kw.Value == "const" {
		kind = ast.DeclarationConst
	}
	name, err := p.expect(lexer.KindIdentifier, "")
	if err != nil {
		return nil, err
	}
	var init ast.Expression
	if p.check(lexer.KindOperator, "=") {
		p.advance()
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	} else if kind == ast.DeclarationConst {
		return nil, p.unexpected(lexer.KindOperator.String(), "=")
	}
	if _, err := p.expect(lexer.KindSemicolon, ";"); err != nil {
		return nil, err
	}
	return ast.SetLine(ast.NewVariableDeclaration(kind, name.Value, init), kw.Line), nil
}

func (p *Parser) parseFunctionDeclaration() (ast.Statement, error) {
	kw := p.advance()
	name, err := p.expect(lexer.KindIdentifier, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindParenthesis, "("); err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindParenthesis, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.SetLine(ast.NewFunctionDeclaration(name.Value, params, body), kw.Line), nil
}

func (p *Parser) parseParameters() ([]string, error) {
	params := []string{}
	if p.check(lexer.KindParenthesis, ")") {
		return params, nil
	}
	for {
		tok, err := p.expect(lexer.KindIdentifier, "")
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Value)
		if p.peek().Kind != lexer.KindComma {
			return params, nil
		}
		p.advance()
	}
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	kw, err := p.expect(lexer.KindKeyword, "if")
	if err != nil {
		return nil, err
	}
	test, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	consequent, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var alternate ast.Statement
	if p.checkKeyword("else") {
		p.advance()
		if p.checkKeyword("if") {
			alternate, err = p.parseIfStatement()
		} else {
			alternate, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	return ast.SetLine(ast.NewIfStatement(test, consequent, alternate), kw.Line), nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	kw := p.advance()
	test, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.SetLine(ast.NewWhileStatement(test, body), kw.Line), nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	kw := p.advance()
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindSemicolon, ";"); err != nil {
		return nil, err
	}
	return ast.SetLine(ast.NewReturnStatement(arg), kw.Line), nil
}

func (p *Parser) parsePrintStatement() (ast.Statement, error) {
	kw := p.advance()
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindSemicolon, ";"); err != nil {
		return nil, err
	}
	return ast.SetLine(ast.NewPrintStatement(arg), kw.Line), nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindSemicolon, ";"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseCondition parses the parenthesised test of if/while.
func (p *Parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expect(lexer.KindParenthesis, "("); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindParenthesis, ")"); err != nil {
		return nil, err
	}
	return test, nil
}

func (p *Parser) parseBlock() (*ast.BlockStatement, error) {
	open, err := p.expect(lexer.KindCodeblock, "{")
	if err != nil {
		return nil, err
	}
	body := []ast.Statement{}
	for !p.check(lexer.KindCodeblock, "}") {
		if p.atEnd() {
			return nil, p.unexpected(lexer.KindCodeblock.String(), "}")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance()
	return ast.SetLine(ast.NewBlockStatement(body), open.Line), nil
}
