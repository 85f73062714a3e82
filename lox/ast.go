package lox

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is a parsed source file.
type Program struct {
	Filename   string
	Source     string
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{Line: 1, Column: 1}
	}
	return p.Statements[0].Pos()
}

// Ident is one occurrence of an identifier together with its lexeme.
type Ident struct {
	Name     string
	position Position
}

func (i Ident) Pos() Position { return i.position }

type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator TokenType
	Right    Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type GroupingExpr struct {
	Expr     Expression
	position Position
}

func (e *GroupingExpr) exprNode()     {}
func (e *GroupingExpr) Pos() Position { return e.position }

type LiteralExpr struct {
	Value    Value
	position Position
}

func (e *LiteralExpr) exprNode()     {}
func (e *LiteralExpr) Pos() Position { return e.position }

type VariableExpr struct {
	Name Ident
}

func (e *VariableExpr) exprNode()     {}
func (e *VariableExpr) Pos() Position { return e.Name.position }

type AssignExpr struct {
	Name  Ident
	Value Expression
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) Pos() Position { return e.Name.position }

type LogicalExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *LogicalExpr) exprNode()     {}
func (e *LogicalExpr) Pos() Position { return e.position }

type CallExpr struct {
	Callee   Expression
	Args     []Expression
	position Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

type GetExpr struct {
	Object Expression
	Name   Ident
}

func (e *GetExpr) exprNode()     {}
func (e *GetExpr) Pos() Position { return e.Name.position }

type SetExpr struct {
	Object Expression
	Name   Ident
	Value  Expression
}

func (e *SetExpr) exprNode()     {}
func (e *SetExpr) Pos() Position { return e.Name.position }

type ThisExpr struct {
	position Position
}

func (e *ThisExpr) exprNode()     {}
func (e *ThisExpr) Pos() Position { return e.position }

type SuperExpr struct {
	Method   Ident
	position Position
}

func (e *SuperExpr) exprNode()     {}
func (e *SuperExpr) Pos() Position { return e.position }
