package lexer

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorKind classifies lexical failures.
type ErrorKind string

const (
	ErrUnterminatedString ErrorKind = "UnterminatedString"
	ErrIllegalCharacter   ErrorKind = "IllegalCharacter"
	ErrNumberOutOfRange   ErrorKind = "NumberOutOfRange"
)

// Error reports a lexical failure at a source line.
type Error struct {
	Kind ErrorKind
	Char rune
	Text string
	Line int
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnterminatedString:
		return fmt.Sprintf("unterminated string starting with %q (line %d)", e.Char, e.Line)
	case ErrIllegalCharacter:
		return fmt.Sprintf("illegal character %q (line %d)", e.Char, e.Line)
	case ErrNumberOutOfRange:
		return fmt.Sprintf("number %s out of range (line %d)", e.Text, e.Line)
	default:
		return fmt.Sprintf("lex error (line %d)", e.Line)
	}
}

// IsError reports whether err carries a lexical failure.
func IsError(err error) bool {
	var lexErr *Error
	return errors.As(err, &lexErr)
}

const operatorChars = ".!+-*/<>=&|"

var twoCharOperators = map[string]struct{}{
	"==": {},
	"!=": {},
	"&&": {},
	"||": {},
	"<=": {},
	">=": {},
}

// Lexer produces tokens lazily from source text.
type Lexer struct {
	src  []rune
	pos  int
	line int
}

// New creates a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1}
}

// Next returns the next token. Once the input is exhausted it keeps
// returning the end-of-input token.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == '\n':
			l.line++
			l.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case isLetter(ch):
			return l.scanWord(), nil
		case isDigit(ch):
			return l.scanNumber()
		case ch == '"' || ch == '\'':
			return l.scanString()
		case isOperatorChar(ch):
			return l.scanOperator()
		case ch == ';':
			return l.single(KindSemicolon), nil
		case ch == '(' || ch == ')':
			return l.single(KindParenthesis), nil
		case ch == '{' || ch == '}':
			return l.single(KindCodeblock), nil
		case ch == ',':
			return l.single(KindComma), nil
		default:
			return Token{}, &Error{Kind: ErrIllegalCharacter, Char: ch, Line: l.line}
		}
	}
	return Token{Kind: KindEOF, Line: l.line}, nil
}

// Tokenize lexes src to completion. The returned slice always ends with
// exactly one end-of-input token.
func Tokenize(src string) ([]Token, error) {
	lx := New(src)
	var tokens []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) single(kind Kind) Token {
	tok := Token{Kind: kind, Value: string(l.src[l.pos]), Line: l.line}
	l.pos++
	return tok
}

func (l *Lexer) scanWord() Token {
	start := l.pos
	for l.pos < len(l.src) && isWordChar(l.src[l.pos]) {
		l.pos++
	}
	word := string(l.src[start:l.pos])
	kind := KindIdentifier
	if IsKeyword(word) {
		kind = KindKeyword
	}
	return Token{Kind: kind, Value: word, Line: l.line}
}

func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, &Error{Kind: ErrNumberOutOfRange, Text: text, Line: l.line}
	}
	return Token{Kind: KindNumber, Value: text, Int: n, Line: l.line}, nil
}

func (l *Lexer) scanString() (Token, error) {
	quote := l.src[l.pos]
	startLine := l.line
	l.pos++
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != quote {
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	if l.pos >= len(l.src) {
		return Token{}, &Error{Kind: ErrUnterminatedString, Char: quote, Line: startLine}
	}
	text := string(l.src[start:l.pos])
	l.pos++
	return Token{Kind: KindString, Value: text, Line: startLine}, nil
}

func (l *Lexer) scanOperator() (Token, error) {
	if l.pos+1 < len(l.src) {
		pair := string(l.src[l.pos : l.pos+2])
		if _, ok := twoCharOperators[pair]; ok {
			l.pos += 2
			return Token{Kind: KindOperator, Value: pair, Line: l.line}, nil
		}
	}
	ch := l.src[l.pos]
	// '&' and '|' only exist as the first half of '&&' and '||'.
	if ch == '&' || ch == '|' {
		return Token{}, &Error{Kind: ErrIllegalCharacter, Char: ch, Line: l.line}
	}
	return l.single(KindOperator), nil
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isWordChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

func isOperatorChar(ch rune) bool {
	for _, c := range operatorChars {
		if c == ch {
			return true
		}
	}
	return false
}
