package interpreter

import (
	"fmt"

	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Statement) (outcome, error) {
	if node == nil {
		return outcome{}, newError(ErrorInvalidProgram, 0, "", "missing statement")
	}
	if err := i.tick(node); err != nil {
		return outcome{}, err
	}
	if err := i.enter(node); err != nil {
		return outcome{}, err
	}
	defer i.leave()
	switch n := node.(type) {
	case *ast.VariableDeclaration:
		return i.executeVariableDeclaration(n)
	case *ast.FunctionDeclaration:
		return i.executeFunctionDeclaration(n)
	case *ast.IfStatement:
		return i.executeIfStatement(n)
	case *ast.WhileStatement:
		return i.executeWhileStatement(n)
	case *ast.BlockStatement:
		return i.executeBlock(n)
	case *ast.ReturnStatement:
		return i.executeReturnStatement(n)
	case *ast.PrintStatement:
		return i.executePrintStatement(n)
	case ast.Expression:
		val, err := i.evaluateExpression(n)
		if err != nil {
			return outcome{}, err
		}
		return normal(val), nil
	default:
		return outcome{}, newError(ErrorInvalidProgram, node.Line(), "", "unsupported statement type: %s", node.NodeType())
	}
}

func (i *Interpreter) executeBlock(block *ast.BlockStatement) (outcome, error) {
	if block == nil {
		return normal(runtime.Void), nil
	}
	for _, stmt := range block.Body {
		out, err := i.executeStatement(stmt)
		if err != nil {
			return outcome{}, err
		}
		if out.isReturning() {
			return out, nil
		}
	}
	return normal(runtime.Void), nil
}

// duplicateFloor is the lowest stack index a declaration is checked against.
func (i *Interpreter) duplicateFloor() int {
	if i.opts.DuplicateCheck == DuplicateCheckFrame && len(i.frames) > 0 {
		return i.frames[len(i.frames)-1]
	}
	return 0
}

func (i *Interpreter) executeVariableDeclaration(decl *ast.VariableDeclaration) (outcome, error) {
	if i.stack.Contains(decl.Name, i.duplicateFloor()) {
		return outcome{}, newError(ErrorDuplicateIdentifier, decl.Line(), decl.Name, "identifier '%s' has already been declared", decl.Name)
	}
	var val runtime.Value = runtime.Void
	if decl.Init != nil {
		v, err := i.evaluateExpression(decl.Init)
		if err != nil {
			return outcome{}, err
		}
		val = v
	}
	i.stack.Push(decl.Name, decl.Kind, val)
	i.logger.Debug("declare", "name", decl.Name, "kind", string(decl.Kind), "depth", i.stack.Len(), "line", decl.Line())
	return normal(runtime.Void), nil
}

func (i *Interpreter) executeFunctionDeclaration(decl *ast.FunctionDeclaration) (outcome, error) {
	i.functions.Register(decl)
	i.logger.Debug("function", "name", decl.Name, "params", len(decl.Params), "line", decl.Line())
	return normal(runtime.Void), nil
}

func (i *Interpreter) executeIfStatement(stmt *ast.IfStatement) (outcome, error) {
	test, err := i.evaluateExpression(stmt.Test)
	if err != nil {
		return outcome{}, err
	}
	if runtime.Truthy(test) {
		return i.executeBlock(stmt.Consequent)
	}
	switch alt := stmt.Alternate.(type) {
	case nil:
		return normal(runtime.Void), nil
	case *ast.BlockStatement:
		return i.executeBlock(alt)
	case *ast.IfStatement:
		return i.executeStatement(alt)
	default:
		return outcome{}, newError(ErrorInvalidProgram, stmt.Line(), "", "unsupported else branch: %s", alt.NodeType())
	}
}

func (i *Interpreter) executeWhileStatement(loop *ast.WhileStatement) (outcome, error) {
	for {
		test, err := i.evaluateExpression(loop.Test)
		if err != nil {
			return outcome{}, err
		}
		if !runtime.Truthy(test) {
			return normal(runtime.Void), nil
		}
		out, err := i.executeBlock(loop.Body)
		if err != nil {
			return outcome{}, err
		}
		if out.isReturning() {
			return out, nil
		}
		if err := i.tick(loop); err != nil {
			return outcome{}, err
		}
	}
}

func (i *Interpreter) executeReturnStatement(stmt *ast.ReturnStatement) (outcome, error) {
	if !i.inFunction() {
		return outcome{}, newError(ErrorReturnOutsideFunction, stmt.Line(), "", "return statement outside of a function call")
	}
	var val runtime.Value = runtime.Void
	if stmt.Argument != nil {
		v, err := i.evaluateExpression(stmt.Argument)
		if err != nil {
			return outcome{}, err
		}
		val = v
	}
	return returning(val), nil
}

func (i *Interpreter) executePrintStatement(stmt *ast.PrintStatement) (outcome, error) {
	val, err := i.evaluateExpression(stmt.Argument)
	if err != nil {
		return outcome{}, err
	}
	if err := i.sink(val); err != nil {
		return outcome{}, fmt.Errorf("print (line %d): %w", stmt.Line(), err)
	}
	return normal(runtime.Void), nil
}
