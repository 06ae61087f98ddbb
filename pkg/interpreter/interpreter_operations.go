package interpreter

import (
	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/runtime"
)

func typeMismatch(node ast.Node, op string, operands ...runtime.Value) *Error {
	switch len(operands) {
	case 1:
		return newError(ErrorTypeMismatch, node.Line(), "", "operator %s cannot be applied to %s", op, operands[0].Kind())
	default:
		return newError(ErrorTypeMismatch, node.Line(), "", "operator %s cannot be applied to %s and %s", op, operands[0].Kind(), operands[1].Kind())
	}
}

func evaluateUnary(expr *ast.UnaryExpression, operand runtime.Value) (runtime.Value, error) {
	switch expr.Operator {
	case "!":
		return runtime.Bool(!runtime.Truthy(operand)), nil
	case "+", "-":
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, typeMismatch(expr, "unary "+expr.Operator, operand)
		}
		if expr.Operator == "-" {
			return runtime.Number(-num.Val), nil
		}
		return num, nil
	default:
		return nil, newError(ErrorInvalidProgram, expr.Line(), "", "unsupported unary operator %s", expr.Operator)
	}
}

// evaluateArithmetic handles + - * /. A string on either side of + turns it
// into concatenation of the printed forms.
func evaluateArithmetic(expr *ast.BinaryExpression, left, right runtime.Value) (runtime.Value, error) {
	if expr.Operator == "+" {
		_, ls := left.(runtime.StringValue)
		_, rs := right.(runtime.StringValue)
		if ls || rs {
			return runtime.String(FormatValue(left) + FormatValue(right)), nil
		}
	}
	lv, lok := left.(runtime.NumberValue)
	rv, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, typeMismatch(expr, expr.Operator, left, right)
	}
	switch expr.Operator {
	case "+":
		return runtime.Number(lv.Val + rv.Val), nil
	case "-":
		return runtime.Number(lv.Val - rv.Val), nil
	case "*":
		return runtime.Number(lv.Val * rv.Val), nil
	case "/":
		return runtime.Number(lv.Val / rv.Val), nil
	default:
		return nil, newError(ErrorInvalidProgram, expr.Line(), "", "unsupported arithmetic operator %s", expr.Operator)
	}
}

func evaluateComparison(expr *ast.ComparisonExpression, left, right runtime.Value) (runtime.Value, error) {
	switch expr.Operator {
	case "==":
		return runtime.Bool(runtime.Equal(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.Equal(left, right)), nil
	case "<", "<=", ">", ">=":
	default:
		return nil, newError(ErrorInvalidProgram, expr.Line(), "", "unsupported comparison operator %s", expr.Operator)
	}
	switch lv := left.(type) {
	case runtime.NumberValue:
		if rv, ok := right.(runtime.NumberValue); ok {
			return runtime.Bool(compareOrdered(expr.Operator, lv.Val, rv.Val)), nil
		}
	case runtime.StringValue:
		if rv, ok := right.(runtime.StringValue); ok {
			return runtime.Bool(compareOrdered(expr.Operator, lv.Val, rv.Val)), nil
		}
	}
	return nil, typeMismatch(expr, expr.Operator, left, right)
}

func compareOrdered[T float64 | string](op string, a, b T) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}
