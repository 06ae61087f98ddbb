package driver

import (
	"errors"
	"fmt"
	"strings"

	"mini/interpreter-go/pkg/interpreter"
	"mini/interpreter-go/pkg/lexer"
	"mini/interpreter-go/pkg/parser"
)

// Diagnostic is the user-facing form of a pipeline failure.
type Diagnostic struct {
	Stage   Stage  `json:"stage"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// Kinds of parse diagnostics.
const (
	KindUnexpectedToken = "UnexpectedToken"
	KindNestingTooDeep  = "NestingTooDeep"
)

// DiagnosticFromError classifies err. It never returns nil for a non-nil
// error.
func DiagnosticFromError(err error) *Diagnostic {
	if err == nil {
		return nil
	}
	diag := &Diagnostic{Stage: StageOf(err), Message: err.Error()}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		diag.Source = stageErr.Source
		diag.Message = stageErr.Err.Error()
	}

	var (
		lexErr   *lexer.Error
		parseErr *parser.Error
		nestErr  *parser.NestingError
		execErr  *interpreter.Error
	)
	switch {
	case errors.As(err, &lexErr):
		diag.Kind = string(lexErr.Kind)
		diag.Line = lexErr.Line
	case errors.As(err, &parseErr):
		diag.Kind = KindUnexpectedToken
		diag.Line = parseErr.Line
	case errors.As(err, &nestErr):
		diag.Kind = KindNestingTooDeep
		diag.Line = nestErr.Line
	case errors.As(err, &execErr):
		diag.Kind = string(execErr.Kind)
		diag.Line = execErr.Line
	}
	if diag.Line > 0 {
		diag.Message = strings.TrimSuffix(diag.Message, fmt.Sprintf(" (line %d)", diag.Line))
	}
	return diag
}

// String renders "<stage> error: <source>:<line>: <message>".
func (d *Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error: ", d.Stage)
	if d.Source != "" {
		b.WriteString(d.Source)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		b.WriteString(": ")
	} else if d.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", d.Line)
	}
	b.WriteString(d.Message)
	return b.String()
}
