package ast

// Literal and identifier helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value int64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

// Expression helpers.

func Call(callee string, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args)
}

func Assign(target string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(target, value)
}

func Unary(operator string, argument Expression) *UnaryExpression {
	return NewUnaryExpression(operator, argument)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Cmp(operator string, left, right Expression) *ComparisonExpression {
	return NewComparisonExpression(operator, left, right)
}

func Logic(operator string, left, right Expression) *LogicalExpression {
	return NewLogicalExpression(operator, left, right)
}

// Statement helpers.

func Prog(body ...Statement) *Program {
	return NewProgram(body)
}

func Block(body ...Statement) *BlockStatement {
	return NewBlockStatement(body)
}

func Let(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(DeclarationLet, name, init)
}

func Const(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(DeclarationConst, name, init)
}

func Fn(name string, params []string, body ...Statement) *FunctionDeclaration {
	return NewFunctionDeclaration(name, params, NewBlockStatement(body))
}

func If(test Expression, consequent *BlockStatement, alternate Statement) *IfStatement {
	return NewIfStatement(test, consequent, alternate)
}

func While(test Expression, body ...Statement) *WhileStatement {
	return NewWhileStatement(test, NewBlockStatement(body))
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Print(argument Expression) *PrintStatement {
	return NewPrintStatement(argument)
}
