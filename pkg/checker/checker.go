package checker

import (
	"fmt"

	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/interpreter"
)

// Checker walks a Mini program without executing it and reports calls and
// returns that fail whenever they are reached. Values are never inspected.
type Checker struct {
	global    *Environment
	funcDepth int
}

// Diagnostic is one statically detected failure. Kind uses the runtime
// error taxonomy.
type Diagnostic struct {
	Kind    interpreter.ErrorKind
	Message string
	Node    ast.Node
}

// Line is the source line of the offending node.
func (d Diagnostic) Line() int {
	if d.Node == nil {
		return 0
	}
	return d.Node.Line()
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (line %d)", d.Message, d.Line())
}

// New returns a checker instance.
func New() *Checker {
	return &Checker{global: NewEnvironment()}
}

// CheckProgram returns diagnostics in source order.
func (c *Checker) CheckProgram(program *ast.Program) ([]Diagnostic, error) {
	if program == nil {
		return nil, fmt.Errorf("checker: program is nil")
	}
	c.global = NewEnvironment()
	c.funcDepth = 0
	c.collectDeclarations(program.Body)

	var diagnostics []Diagnostic
	for _, stmt := range program.Body {
		diagnostics = append(diagnostics, c.checkStatement(stmt)...)
	}
	return diagnostics, nil
}

func (c *Checker) collectDeclarations(body []ast.Statement) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.FunctionDeclaration:
			c.global.Define(s.Name, len(s.Params))
			if s.Body != nil {
				c.collectDeclarations(s.Body.Body)
			}
		case *ast.BlockStatement:
			c.collectDeclarations(s.Body)
		case *ast.IfStatement:
			if s.Consequent != nil {
				c.collectDeclarations(s.Consequent.Body)
			}
			if s.Alternate != nil {
				c.collectDeclarations([]ast.Statement{s.Alternate})
			}
		case *ast.WhileStatement:
			if s.Body != nil {
				c.collectDeclarations(s.Body.Body)
			}
		}
	}
}

func (c *Checker) checkBlock(block *ast.BlockStatement) []Diagnostic {
	if block == nil {
		return nil
	}
	var diags []Diagnostic
	for _, stmt := range block.Body {
		diags = append(diags, c.checkStatement(stmt)...)
	}
	return diags
}

func (c *Checker) checkStatement(stmt ast.Statement) []Diagnostic {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ast.VariableDeclaration:
		return c.checkExpression(s.Init)
	case *ast.FunctionDeclaration:
		c.funcDepth++
		defer func() { c.funcDepth-- }()
		return c.checkBlock(s.Body)
	case *ast.BlockStatement:
		return c.checkBlock(s)
	case *ast.IfStatement:
		diags := c.checkExpression(s.Test)
		diags = append(diags, c.checkBlock(s.Consequent)...)
		if s.Alternate != nil {
			diags = append(diags, c.checkStatement(s.Alternate)...)
		}
		return diags
	case *ast.WhileStatement:
		return append(c.checkExpression(s.Test), c.checkBlock(s.Body)...)
	case *ast.ReturnStatement:
		diags := c.checkExpression(s.Argument)
		if c.funcDepth == 0 {
			diags = append(diags, Diagnostic{
				Kind:    interpreter.ErrorReturnOutsideFunction,
				Message: "return statement outside of a function body",
				Node:    s,
			})
		}
		return diags
	case *ast.PrintStatement:
		return c.checkExpression(s.Argument)
	case ast.Expression:
		return c.checkExpression(s)
	default:
		return nil
	}
}

func (c *Checker) checkExpression(expr ast.Expression) []Diagnostic {
	switch e := expr.(type) {
	case nil:
		return nil
	case *ast.AssignmentExpression:
		return c.checkExpression(e.Value)
	case *ast.CallExpression:
		return c.checkCallExpression(e)
	case *ast.UnaryExpression:
		return c.checkExpression(e.Argument)
	case *ast.BinaryExpression:
		return append(c.checkExpression(e.Left), c.checkExpression(e.Right)...)
	case *ast.ComparisonExpression:
		return append(c.checkExpression(e.Left), c.checkExpression(e.Right)...)
	case *ast.LogicalExpression:
		return append(c.checkExpression(e.Left), c.checkExpression(e.Right)...)
	default:
		return nil
	}
}

func (c *Checker) checkCallExpression(call *ast.CallExpression) []Diagnostic {
	var diags []Diagnostic
	for _, arg := range call.Arguments {
		diags = append(diags, c.checkExpression(arg)...)
	}
	arities, ok := c.global.Lookup(call.Callee)
	switch {
	case !ok:
		diags = append(diags, Diagnostic{
			Kind:    interpreter.ErrorUndefinedFunction,
			Message: fmt.Sprintf("function '%s' is never declared", call.Callee),
			Node:    call,
		})
	case !c.global.Accepts(call.Callee, len(call.Arguments)):
		diags = append(diags, Diagnostic{
			Kind:    interpreter.ErrorArityMismatch,
			Message: fmt.Sprintf("function '%s' is declared with %s, called with %d", call.Callee, describeArities(arities), len(call.Arguments)),
			Node:    call,
		})
	}
	return diags
}

func describeArities(arities []int) string {
	if len(arities) == 1 {
		if arities[0] == 1 {
			return "1 parameter"
		}
		return fmt.Sprintf("%d parameters", arities[0])
	}
	return fmt.Sprintf("%v parameters", arities)
}
