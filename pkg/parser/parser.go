package parser

import (
	"errors"
	"fmt"
	"strings"

	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/lexer"
)

// Associativity selects how chains of same-precedence binary operators group.
type Associativity string

const (
	// AssociativityLeft groups `a - b - c` as `(a - b) - c`.
	AssociativityLeft Associativity = "left"
	// AssociativityRight groups `a - b - c` as `a - (b - c)`, matching the
	// original self-recursive grammar.
	AssociativityRight Associativity = "right"
)

// ParseAssociativity validates a configuration value.
func ParseAssociativity(value string) (Associativity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(AssociativityLeft):
		return AssociativityLeft, nil
	case string(AssociativityRight):
		return AssociativityRight, nil
	default:
		return AssociativityLeft, fmt.Errorf("unknown associativity %q (expected left or right)", value)
	}
}

// DefaultMaxDepth bounds nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Options tunes grammar decisions that affect the produced tree.
type Options struct {
	Associativity Associativity
	// MaxDepth bounds nested statements, parenthesised and unary
	// expressions, and operator chains. Zero selects DefaultMaxDepth.
	MaxDepth int
}

// NestingError reports source nested deeper than Options.MaxDepth.
type NestingError struct {
	Limit int
	Line  int
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("nesting exceeds %d levels (line %d)", e.Limit, e.Line)
}

// Error reports the first token that did not match the grammar.
type Error struct {
	ExpectedKind  string
	ExpectedValue string
	ActualKind    lexer.Kind
	ActualValue   string
	Line          int
}

func (e *Error) Error() string {
	expected := e.ExpectedKind
	if e.ExpectedValue != "" {
		expected = fmt.Sprintf("%s %q", e.ExpectedKind, e.ExpectedValue)
	}
	if e.ActualKind == lexer.KindEOF {
		return fmt.Sprintf("expected %s, got end-of-input (line %d)", expected, e.Line)
	}
	return fmt.Sprintf("expected %s, got %s %q (line %d)", expected, e.ActualKind, e.ActualValue, e.Line)
}

// IsIncomplete reports whether err is a parse failure caused by running out
// of input, i.e. more source could still complete the program.
func IsIncomplete(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.ActualKind == lexer.KindEOF
	}
	return false
}

// Parser is a single-token-lookahead recursive-descent parser.
type Parser struct {
	tokens []lexer.Token
	pos    int
	opts   Options
	depth  int
}

// New constructs a parser over a token stream. A missing terminal token is
// supplied so the stream is always well formed.
func New(tokens []lexer.Token, opts Options) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.KindEOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(append([]lexer.Token(nil), tokens...), lexer.Token{Kind: lexer.KindEOF, Line: line})
	}
	if opts.Associativity == "" {
		opts.Associativity = AssociativityLeft
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{tokens: tokens, opts: opts}
}

// Parse turns a token stream into a program.
func Parse(tokens []lexer.Token, opts Options) (*ast.Program, error) {
	return New(tokens, opts).ParseProgram()
}

// ParseSource lexes and parses src.
func ParseSource(src string, opts Options) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, opts)
}

// ParseProgram consumes every token up to end-of-input.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	line := p.peek().Line
	var body []ast.Statement
	for !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return ast.SetLine(ast.NewProgram(body), line), nil
}
