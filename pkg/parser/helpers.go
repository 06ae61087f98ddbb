package parser

import (
	"mini/interpreter-go/pkg/lexer"
)

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

// peekAt looks offset tokens ahead, clamping to the terminal token.
func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lexer.KindEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == lexer.KindEOF
}

func (p *Parser) check(kind lexer.Kind, value string) bool {
	return p.peek().Is(kind, value)
}

func (p *Parser) checkKeyword(word string) bool {
	return p.check(lexer.KindKeyword, word)
}

// expect consumes the current token when it has the given kind (and value,
// if non-empty); otherwise it reports the mismatch.
func (p *Parser) expect(kind lexer.Kind, value string) (lexer.Token, error) {
	tok := p.peek()
	if tok.Kind != kind || (value != "" && tok.Value != value) {
		return tok, p.unexpected(kind.String(), value)
	}
	return p.advance(), nil
}

func (p *Parser) unexpected(expectedKind, expectedValue string) error {
	tok := p.peek()
	return &Error{
		ExpectedKind:  expectedKind,
		ExpectedValue: expectedValue,
		ActualKind:    tok.Kind,
		ActualValue:   tok.Value,
		Line:          tok.Line,
	}
}

// enter charges one nesting level; every successful enter is paired with
// leave.
func (p *Parser) enter() error {
	if p.depth >= p.opts.MaxDepth {
		return &NestingError{Limit: p.opts.MaxDepth, Line: p.peek().Line}
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}
