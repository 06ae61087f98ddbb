package ast

type NodeType string

const (
	NodeProgram              NodeType = "Program"
	NodeVariableDeclaration  NodeType = "VariableDeclaration"
	NodeFunctionDeclaration  NodeType = "FunctionDeclaration"
	NodeIfStatement          NodeType = "IfStatement"
	NodeWhileStatement       NodeType = "WhileStatement"
	NodeBlockStatement       NodeType = "BlockStatement"
	NodeReturnStatement      NodeType = "ReturnStatement"
	NodePrintStatement       NodeType = "PrintStatement"
	NodeCallExpression       NodeType = "CallExpression"
	NodeIdentifier           NodeType = "Identifier"
	NodeAssignmentExpression NodeType = "AssignmentExpression"
	NodeUnaryExpression      NodeType = "UnaryExpression"
	NodeBinaryExpression     NodeType = "BinaryExpression"
	NodeComparisonExpression NodeType = "ComparisonExpression"
	NodeLogicalExpression    NodeType = "LogicalExpression"
	NodeNumberLiteral        NodeType = "NumberLiteral"
	NodeStringLiteral        NodeType = "StringLiteral"
	NodeBooleanLiteral       NodeType = "BooleanLiteral"
)

type Node interface {
	NodeType() NodeType
	Line() int
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type" yaml:"type"`
	Pos  int      `json:"line,omitempty" yaml:"line,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Line() int          { return n.Pos }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setLine(line int) { n.Pos = line }

// SetLine records the source line a node starts on.
func SetLine[T Node](node T, line int) T {
	if setter, ok := any(node).(interface{ setLine(int) }); ok {
		setter.setLine(line)
	}
	return node
}

// Marker interfaces.

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expression nodes double as expression statements.
type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Program

type Program struct {
	nodeImpl `yaml:",inline"`

	Body []Statement `json:"body" yaml:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

// Declarations

type DeclarationKind string

const (
	DeclarationLet   DeclarationKind = "let"
	DeclarationConst DeclarationKind = "const"
)

type VariableDeclaration struct {
	nodeImpl        `yaml:",inline"`
	statementMarker `yaml:"-"`

	Kind DeclarationKind `json:"kind" yaml:"kind"`
	Name string          `json:"identifier" yaml:"identifier"`
	Init Expression      `json:"value,omitempty" yaml:"value,omitempty"`
}

func NewVariableDeclaration(kind DeclarationKind, name string, init Expression) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Kind: kind, Name: name, Init: init}
}

type FunctionDeclaration struct {
	nodeImpl        `yaml:",inline"`
	statementMarker `yaml:"-"`

	Name   string          `json:"identifier" yaml:"identifier"`
	Params []string        `json:"params" yaml:"params"`
	Body   *BlockStatement `json:"body" yaml:"body"`
}

func NewFunctionDeclaration(name string, params []string, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Params: params, Body: body}
}

// Control flow

type BlockStatement struct {
	nodeImpl        `yaml:",inline"`
	statementMarker `yaml:"-"`

	Body []Statement `json:"body" yaml:"body"`
}

func NewBlockStatement(body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Body: body}
}

// IfStatement.Alternate is nil, a *BlockStatement, or a chained *IfStatement.
type IfStatement struct {
	nodeImpl        `yaml:",inline"`
	statementMarker `yaml:"-"`

	Test       Expression      `json:"test" yaml:"test"`
	Consequent *BlockStatement `json:"consequent" yaml:"consequent"`
	Alternate  Statement       `json:"alternate,omitempty" yaml:"alternate,omitempty"`
}

func NewIfStatement(test Expression, consequent *BlockStatement, alternate Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Test: test, Consequent: consequent, Alternate: alternate}
}

type WhileStatement struct {
	nodeImpl        `yaml:",inline"`
	statementMarker `yaml:"-"`

	Test Expression      `json:"test" yaml:"test"`
	Body *BlockStatement `json:"body" yaml:"body"`
}

func NewWhileStatement(test Expression, body *BlockStatement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Test: test, Body: body}
}

type ReturnStatement struct {
	nodeImpl        `yaml:",inline"`
	statementMarker `yaml:"-"`

	Argument Expression `json:"argument" yaml:"argument"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type PrintStatement struct {
	nodeImpl        `yaml:",inline"`
	statementMarker `yaml:"-"`

	Argument Expression `json:"value" yaml:"value"`
}

func NewPrintStatement(argument Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Argument: argument}
}

// Expressions

type Identifier struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`

	Name string `json:"name" yaml:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type CallExpression struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`

	Callee    string       `json:"callee" yaml:"callee"`
	Arguments []Expression `json:"arguments" yaml:"arguments"`
}

func NewCallExpression(callee string, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args}
}

type AssignmentExpression struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`

	Operator string     `json:"operator" yaml:"operator"`
	Target   string     `json:"left" yaml:"left"`
	Value    Expression `json:"right" yaml:"right"`
}

func NewAssignmentExpression(target string, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: "=", Target: target, Value: value}
}

type UnaryExpression struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`

	Operator string     `json:"operator" yaml:"operator"`
	Argument Expression `json:"argument" yaml:"argument"`
}

func NewUnaryExpression(operator string, argument Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Argument: argument}
}

// BinaryExpression covers the arithmetic operators + - * /.
type BinaryExpression struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`

	Operator string     `json:"operator" yaml:"operator"`
	Left     Expression `json:"left" yaml:"left"`
	Right    Expression `json:"right" yaml:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// ComparisonExpression covers < <= > >= == !=.
type ComparisonExpression struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`

	Operator string     `json:"operator" yaml:"operator"`
	Left     Expression `json:"left" yaml:"left"`
	Right    Expression `json:"right" yaml:"right"`
}

func NewComparisonExpression(operator string, left, right Expression) *ComparisonExpression {
	return &ComparisonExpression{nodeImpl: newNodeImpl(NodeComparisonExpression), Operator: operator, Left: left, Right: right}
}

type LogicalExpression struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`

	Operator string     `json:"operator" yaml:"operator"`
	Left     Expression `json:"left" yaml:"left"`
	Right    Expression `json:"right" yaml:"right"`
}

func NewLogicalExpression(operator string, left, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Operator: operator, Left: left, Right: right}
}

// Literals

type NumberLiteral struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`
	literalMarker    `yaml:"-"`

	Value int64 `json:"value" yaml:"value"`
}

func NewNumberLiteral(value int64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`
	literalMarker    `yaml:"-"`

	Value string `json:"value" yaml:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl         `yaml:",inline"`
	expressionMarker `yaml:"-"`
	statementMarker  `yaml:"-"`
	literalMarker    `yaml:"-"`

	Value bool `json:"value" yaml:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}
