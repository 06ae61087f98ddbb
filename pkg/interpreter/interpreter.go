package interpreter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/runtime"
)

// DuplicateCheck selects the region of the binding stack a declaration is
// checked against.
type DuplicateCheck string

const (
	// DuplicateCheckStack rejects a declaration whose name is bound anywhere on
	// the stack, including frames of callers.
	DuplicateCheckStack DuplicateCheck = "stack"
	// DuplicateCheckFrame only looks at the active call frame (or the
	// top level outside calls).
	DuplicateCheckFrame DuplicateCheck = "frame"
)

// ParseDuplicateCheck validates a configuration value.
func ParseDuplicateCheck(value string) (DuplicateCheck, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(DuplicateCheckStack):
		return DuplicateCheckStack, nil
	case string(DuplicateCheckFrame):
		return DuplicateCheckFrame, nil
	default:
		return DuplicateCheckStack, fmt.Errorf("unknown duplicate check %q (expected stack or frame)", value)
	}
}

// DefaultMaxCallDepth bounds recursion when no explicit limit is configured.
const DefaultMaxCallDepth = 4096

// DefaultMaxNestingDepth bounds statement and expression nesting within one
// call frame.
const DefaultMaxNestingDepth = 2048

// Sink receives every printed value in order.
type Sink func(runtime.Value) error

// Options configures an Interpreter. The zero value is usable: stack-wide
// duplicate checks, no budgets and printed values discarded.
type Options struct {
	DuplicateCheck DuplicateCheck
	// MaxSteps bounds executed statements, loop iterations and calls; 0 is
	// unlimited.
	MaxSteps int
	// MaxCallDepth bounds nested calls; 0 is unlimited.
	MaxCallDepth int
	// MaxNestingDepth bounds nested statements and expressions evaluated
	// within one call frame; 0 is unlimited.
	MaxNestingDepth int
	Logger          *slog.Logger
	Sink            Sink
}

// DefaultOptions returns the options used by the CLI before config and flags
// are applied.
func DefaultOptions() Options {
	return Options{
		DuplicateCheck:  DuplicateCheckStack,
		MaxCallDepth:    DefaultMaxCallDepth,
		MaxNestingDepth: DefaultMaxNestingDepth,
	}
}

// Interpreter walks a program tree against a binding stack and a function
// registry it owns. State persists across Execute calls until Reset.
type Interpreter struct {
	opts      Options
	logger    *slog.Logger
	sink      Sink
	stack     *runtime.Stack
	functions *runtime.Registry
	frames    []int
	nesting   int
	steps     int
	ctx       context.Context
}

// New returns an interpreter with empty state.
func New(opts Options) *Interpreter {
	if opts.DuplicateCheck == "" {
		opts.DuplicateCheck = DuplicateCheckStack
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sink := opts.Sink
	if sink == nil {
		sink = func(runtime.Value) error { return nil }
	}
	return &Interpreter{
		opts:      opts,
		logger:    logger,
		sink:      sink,
		stack:     runtime.NewStack(),
		functions: runtime.NewRegistry(),
	}
}

// Execute runs root, which must be a *ast.Program, against the current
// state. The first error aborts the run; bindings pushed by unfinished calls
// are discarded, top-level declarations made before the error remain.
func (i *Interpreter) Execute(ctx context.Context, root ast.Node) error {
	program, ok := root.(*ast.Program)
	if !ok || program == nil {
		kind := "nil"
		if !ok && root != nil {
			kind = string(root.NodeType())
		}
		return newError(ErrorInvalidProgram, 0, "", "root node must be a Program, got %s", kind)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	i.ctx = ctx
	i.steps = 0
	i.nesting = 0
	defer func() { i.ctx = nil }()
	for _, stmt := range program.Body {
		if _, err := i.executeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Reset discards all bindings and function declarations.
func (i *Interpreter) Reset() {
	i.stack.Reset()
	i.functions.Reset()
	i.frames = nil
	i.nesting = 0
	i.steps = 0
}

// Depth is the current binding stack depth.
func (i *Interpreter) Depth() int {
	return i.stack.Len()
}

// Bindings returns a copy of the binding stack, oldest first.
func (i *Interpreter) Bindings() []runtime.Binding {
	return i.stack.Snapshot()
}

// Functions returns the declared functions in declaration order.
func (i *Interpreter) Functions() []runtime.FunctionEntry {
	return i.functions.Entries()
}

// Lookup reads the nearest binding for name.
func (i *Interpreter) Lookup(name string) (runtime.Value, bool) {
	b, ok := i.stack.Lookup(name)
	if !ok {
		return nil, false
	}
	return b.Value, true
}

func (i *Interpreter) inFunction() bool {
	return len(i.frames) > 0
}

// tick charges one step against the budget and observes cancellation.
func (i *Interpreter) tick(node ast.Node) error {
	if i.ctx != nil {
		if err := i.ctx.Err(); err != nil {
			return &Error{Kind: ErrorCanceled, Message: fmt.Sprintf("execution canceled: %v", err), Line: node.Line(), Err: err}
		}
	}
	i.steps++
	if i.opts.MaxSteps > 0 && i.steps > i.opts.MaxSteps {
		return newError(ErrorResourceExhausted, node.Line(), "", "step budget of %d exhausted", i.opts.MaxSteps)
	}
	return nil
}

// enter charges one nesting level in the current frame; pair it with leave.
func (i *Interpreter) enter(node ast.Node) error {
	if i.opts.MaxNestingDepth > 0 && i.nesting >= i.opts.MaxNestingDepth {
		return newError(ErrorResourceExhausted, node.Line(), "", "nesting limit of %d exceeded", i.opts.MaxNestingDepth)
	}
	i.nesting++
	return nil
}

func (i *Interpreter) leave() {
	i.nesting--
}
