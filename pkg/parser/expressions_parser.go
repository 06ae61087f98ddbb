package parser

import (
	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/lexer"
)

type infixBuilder func(operator string, left, right ast.Expression) ast.Expression

type infixLevel struct {
	operators []string
	build     infixBuilder
}

func logical(op string, left, right ast.Expression) ast.Expression {
	return ast.NewLogicalExpression(op, left, right)
}

func comparison(op string, left, right ast.Expression) ast.Expression {
	return ast.NewComparisonExpression(op, left, right)
}

func arithmetic(op string, left, right ast.Expression) ast.Expression {
	return ast.NewBinaryExpression(op, left, right)
}

// infixLevels lists binary precedence levels from lowest to highest.
var infixLevels = []infixLevel{
	{operators: []string{"||"}, build: logical},
	{operators: []string{"&&"}, build: logical},
	{operators: []string{"==", "!="}, build: comparison},
	{operators: []string{"<", ">", "<=", ">="}, build: comparison},
	{operators: []string{"+", "-"}, build: arithmetic},
	{operators: []string{"*", "/"}, build: arithmetic},
}

// parseExpression is the grammar's assignment rule: an identifier directly
// followed by '=' starts an assignment, anything else is a logical-or chain.
func (p *Parser) parseExpression() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	tok := p.peek()
	if tok.Kind == lexer.KindIdentifier && p.peekAt(1).Is(lexer.KindOperator, "=") {
		p.advance()
		p.advance()
		value, err := p.parseInfix(0)
		if err != nil {
			return nil, err
		}
		return ast.SetLine(ast.NewAssignmentExpression(tok.Value, value), tok.Line), nil
	}
	return p.parseInfix(0)
}

func (p *Parser) matchOperator(operators []string) (lexer.Token, bool) {
	tok := p.peek()
	if tok.Kind != lexer.KindOperator {
		return tok, false
	}
	for _, op := range operators {
		if tok.Value == op {
			return tok, true
		}
	}
	return tok, false
}

func (p *Parser) parseOperand(level int) (ast.Expression, error) {
	if level+1 < len(infixLevels) {
		return p.parseInfix(level + 1)
	}
	return p.parseUnary()
}

// parseInfix charges one nesting level per operator in a chain.
func (p *Parser) parseInfix(level int) (ast.Expression, error) {
	tier := infixLevels[level]
	left, err := p.parseOperand(level)
	if err != nil {
		return nil, err
	}
	if p.opts.Associativity == AssociativityRight {
		op, ok := p.matchOperator(tier.operators)
		if !ok {
			return left, nil
		}
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		p.advance()
		right, err := p.parseInfix(level)
		if err != nil {
			return nil, err
		}
		return ast.SetLine(tier.build(op.Value, left, right), op.Line), nil
	}
	chain := 0
	defer func() { p.depth -= chain }()
	for {
		op, ok := p.matchOperator(tier.operators)
		if !ok {
			return left, nil
		}
		if err := p.enter(); err != nil {
			return nil, err
		}
		chain++
		p.advance()
		right, err := p.parseOperand(level)
		if err != nil {
			return nil, err
		}
		left = ast.SetLine(tier.build(op.Value, left, right), op.Line)
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if op, ok := p.matchOperator([]string{"+", "-", "!"}); ok {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.SetLine(ast.NewUnaryExpression(op.Value, operand), op.Line), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	switch {
	case tok.Kind == lexer.KindNumber:
		p.advance()
		return ast.SetLine(ast.NewNumberLiteral(tok.Int), tok.Line), nil
	case tok.Kind == lexer.KindString:
		p.advance()
		return ast.SetLine(ast.NewStringLiteral(tok.Value), tok.Line), nil
	case tok.Is(lexer.KindKeyword, "true"), tok.Is(lexer.KindKeyword, "false"):
		p.advance()
		return ast.SetLine(ast.NewBooleanLiteral(tok.Value == "true"), tok.Line), nil
	case tok.Kind == lexer.KindIdentifier:
		p.advance()
		if p.check(lexer.KindParenthesis, "(") {
			return p.parseCall(tok)
		}
		return ast.SetLine(ast.NewIdentifier(tok.Value), tok.Line), nil
	case tok.Is(lexer.KindParenthesis, "("):
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindParenthesis, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.unexpected("expression", "")
	}
}

func (p *Parser) parseCall(callee lexer.Token) (ast.Expression, error) {
	if _, err := p.expect(lexer.KindParenthesis, "("); err != nil {
		return nil, err
	}
	args := []ast.Expression{}
	if !p.check(lexer.KindParenthesis, ")") {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().Kind != lexer.KindComma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.KindParenthesis, ")"); err != nil {
		return nil, err
	}
	return ast.SetLine(ast.NewCallExpression(callee.Value, args), callee.Line), nil
}
