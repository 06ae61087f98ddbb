package interpreter

import (
	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression) (runtime.Value, error) {
	if node == nil {
		return nil, newError(ErrorInvalidProgram, 0, "", "missing expression")
	}
	if err := i.enter(node); err != nil {
		return nil, err
	}
	defer i.leave()
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.Number(float64(n.Value)), nil
	case *ast.StringLiteral:
		return runtime.String(n.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.Identifier:
		return i.evaluateIdentifier(n)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n)
	case *ast.CallExpression:
		return i.evaluateCall(n)
	case *ast.UnaryExpression:
		operand, err := i.evaluateExpression(n.Argument)
		if err != nil {
			return nil, err
		}
		return evaluateUnary(n, operand)
	case *ast.BinaryExpression:
		left, err := i.evaluateExpression(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluateExpression(n.Right)
		if err != nil {
			return nil, err
		}
		return evaluateArithmetic(n, left, right)
	case *ast.ComparisonExpression:
		left, err := i.evaluateExpression(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluateExpression(n.Right)
		if err != nil {
			return nil, err
		}
		return evaluateComparison(n, left, right)
	case *ast.LogicalExpression:
		return i.evaluateLogical(n)
	default:
		return nil, newError(ErrorInvalidProgram, node.Line(), "", "unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateIdentifier(id *ast.Identifier) (runtime.Value, error) {
	b, ok := i.stack.Lookup(id.Name)
	if !ok {
		return nil, newError(ErrorUndefinedIdentifier, id.Line(), id.Name, "identifier '%s' is not defined", id.Name)
	}
	return b.Value, nil
}

func (i *Interpreter) evaluateAssignment(assign *ast.AssignmentExpression) (runtime.Value, error) {
	target, ok := i.stack.Lookup(assign.Target)
	if !ok {
		return nil, newError(ErrorUndefinedIdentifier, assign.Line(), assign.Target, "identifier '%s' is not defined", assign.Target)
	}
	if !target.Mutable() {
		return nil, newError(ErrorImmutableAssignment, assign.Line(), assign.Target, "cannot assign to constant '%s'", assign.Target)
	}
	val, err := i.evaluateExpression(assign.Value)
	if err != nil {
		return nil, err
	}
	b, ok := i.stack.Assign(assign.Target, val)
	if !ok {
		return nil, newError(ErrorUndefinedIdentifier, assign.Line(), assign.Target, "identifier '%s' is not defined", assign.Target)
	}
	if !b.Mutable() {
		return nil, newError(ErrorImmutableAssignment, assign.Line(), assign.Target, "cannot assign to constant '%s'", assign.Target)
	}
	return val, nil
}

func (i *Interpreter) evaluateLogical(expr *ast.LogicalExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "&&":
		if !runtime.Truthy(left) {
			return left, nil
		}
	case "||":
		if runtime.Truthy(left) {
			return left, nil
		}
	default:
		return nil, newError(ErrorInvalidProgram, expr.Line(), "", "unsupported logical operator %s", expr.Operator)
	}
	return i.evaluateExpression(expr.Right)
}

func (i *Interpreter) evaluateArguments(args []ast.Expression) ([]runtime.Value, error) {
	values := make([]runtime.Value, 0, len(args))
	for _, arg := range args {
		val, err := i.evaluateExpression(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

// evaluateCall runs a declared function in a fresh frame. Arguments are
// evaluated in the caller's context before any parameter is bound, and the
// stack is truncated to the frame base however the body exits.
func (i *Interpreter) evaluateCall(call *ast.CallExpression) (runtime.Value, error) {
	fn, ok := i.functions.Lookup(call.Callee)
	if !ok {
		return nil, newError(ErrorUndefinedFunction, call.Line(), call.Callee, "function '%s' is not defined", call.Callee)
	}
	if len(call.Arguments) != fn.Arity() {
		return nil, newError(ErrorArityMismatch, call.Line(), call.Callee, "function '%s' expects %d arguments, got %d", call.Callee, fn.Arity(), len(call.Arguments))
	}
	if i.opts.MaxCallDepth > 0 && len(i.frames) >= i.opts.MaxCallDepth {
		return nil, newError(ErrorResourceExhausted, call.Line(), call.Callee, "call depth limit of %d exceeded calling '%s'", i.opts.MaxCallDepth, call.Callee)
	}
	if err := i.tick(call); err != nil {
		return nil, err
	}

	base := i.stack.Len()
	defer i.stack.Truncate(base)
	outer := i.nesting
	i.nesting = 0
	defer func() { i.nesting = outer }()

	args, err := i.evaluateArguments(call.Arguments)
	if err != nil {
		return nil, err
	}

	i.frames = append(i.frames, base)
	defer func() { i.frames = i.frames[:len(i.frames)-1] }()
	for idx, param := range fn.Params {
		i.stack.Push(param, ast.DeclarationLet, args[idx])
	}
	i.logger.Debug("call", "function", fn.Name, "frame", len(i.frames), "base", base, "line", call.Line())

	out, err := i.executeBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	result := runtime.Void
	if out.isReturning() {
		result = out.value
	}
	i.logger.Debug("return", "function", fn.Name, "value", FormatValue(result), "frame", len(i.frames))
	return result, nil
}
