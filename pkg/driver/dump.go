package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/lexer"
)

// Format selects the encoding of token and tree dumps.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json or yaml)", value)
	}
}

// DumpTokens writes the token list as {kind, value, line} records.
func DumpTokens(w io.Writer, tokens []lexer.Token, format Format) error {
	if tokens == nil {
		tokens = []lexer.Token{}
	}
	return dump(w, tokens, format)
}

// DumpProgram writes the tree with a type tag on every node.
func DumpProgram(w io.Writer, program *ast.Program, format Format) error {
	if program == nil {
		return fmt.Errorf("dump: nil program")
	}
	return dump(w, program, format)
}

func dump(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("dump: unknown format %q", format)
	}
}
