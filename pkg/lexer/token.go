package lexer

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the lexical category of a token.
type Kind int

const (
	KindEOF Kind = iota
	KindIdentifier
	KindKeyword
	KindNumber
	KindString
	KindOperator
	KindSemicolon
	KindParenthesis
	KindCodeblock
	KindComma
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "end-of-input"
	case KindIdentifier:
		return "identifier"
	case KindKeyword:
		return "keyword"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindOperator:
		return "operator"
	case KindSemicolon:
		return "semicolon"
	case KindParenthesis:
		return "parenthesis"
	case KindCodeblock:
		return "codeblock"
	case KindComma:
		return "comma"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// MarshalText renders the kind by name so dumps stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Keywords is the closed set of reserved words.
var Keywords = map[string]struct{}{
	"let":      {},
	"const":    {},
	"if":       {},
	"else":     {},
	"while":    {},
	"function": {},
	"return":   {},
	"print":    {},
	"true":     {},
	"false":    {},
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	_, ok := Keywords[word]
	return ok
}

// Token is one lexical unit. Value holds the raw lexeme (string contents
// without quotes); Int holds the parsed value of a number token.
type Token struct {
	Kind  Kind
	Value string
	Int   int64
	Line  int
}

// Is reports whether the token has the given kind and lexeme.
func (t Token) Is(kind Kind, value string) bool {
	return t.Kind == kind && t.Value == value
}

func (t Token) String() string {
	if t.Kind == KindEOF {
		return fmt.Sprintf("%s (line %d)", t.Kind, t.Line)
	}
	return fmt.Sprintf("%s %q (line %d)", t.Kind, t.Value, t.Line)
}

type tokenView struct {
	Kind  Kind `json:"kind" yaml:"kind"`
	Value any  `json:"value" yaml:"value"`
	Line  int  `json:"line" yaml:"line"`
}

func (t Token) view() tokenView {
	v := tokenView{Kind: t.Kind, Line: t.Line}
	switch t.Kind {
	case KindEOF:
		v.Value = nil
	case KindNumber:
		v.Value = t.Int
	default:
		v.Value = t.Value
	}
	return v
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.view())
}

func (t Token) MarshalYAML() (any, error) {
	return t.view(), nil
}
