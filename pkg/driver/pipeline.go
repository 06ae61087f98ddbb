package driver

import (
	"context"
	"errors"
	"fmt"

	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/interpreter"
	"mini/interpreter-go/pkg/lexer"
	"mini/interpreter-go/pkg/parser"
	"mini/interpreter-go/pkg/runtime"
)

// Stage names a pipeline step.
type Stage string

const (
	StageLoad    Stage = "load"
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageCheck   Stage = "check"
	StageRuntime Stage = "runtime"
)

// StageError attributes a failure to the stage that detected it.
type StageError struct {
	Stage  Stage
	Source string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Source, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageError(stage Stage, src Source, err error) error {
	return &StageError{Stage: stage, Source: src.Name, Err: err}
}

// Options configures a pipeline run.
type Options struct {
	Parser      parser.Options
	Interpreter interpreter.Options
}

// Result holds every view of a source the pipeline produced. Fields of
// stages that did not run are nil.
type Result struct {
	Source  Source
	Tokens  []lexer.Token
	Program *ast.Program
	Output  []string
}

// Check lexes and parses src without executing it.
func Check(src Source, opts Options) (*Result, error) {
	res := &Result{Source: src}
	tokens, err := lexer.Tokenize(src.Text)
	if err != nil {
		return res, stageError(StageLex, src, err)
	}
	res.Tokens = tokens
	program, err := parser.Parse(tokens, opts.Parser)
	if err != nil {
		return res, stageError(StageParse, src, err)
	}
	res.Program = program
	return res, nil
}

// Run lexes, parses and executes src on a fresh interpreter. Printed values
// are collected in Result.Output and forwarded to opts.Interpreter.Sink.
func Run(ctx context.Context, src Source, opts Options) (*Result, error) {
	res, err := Check(src, opts)
	if err != nil {
		return res, err
	}
	iopts := opts.Interpreter
	forward := iopts.Sink
	iopts.Sink = func(val runtime.Value) error {
		res.Output = append(res.Output, interpreter.FormatValue(val))
		if forward != nil {
			return forward(val)
		}
		return nil
	}
	interp := interpreter.New(iopts)
	if err := interp.Execute(ctx, res.Program); err != nil {
		return res, stageError(StageRuntime, src, err)
	}
	return res, nil
}

// StageOf reports the stage an error came from.
func StageOf(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return StageLex
	}
	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		return StageParse
	}
	var nestErr *parser.NestingError
	if errors.As(err, &nestErr) {
		return StageParse
	}
	var execErr *interpreter.Error
	if errors.As(err, &execErr) {
		return StageRuntime
	}
	return StageLoad
}
