package lox

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type PrintStmt struct {
	Expr     Expression
	position Position
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) Pos() Position { return s.position }

type VarStmt struct {
	Name        Ident
	Initializer Expression
	position    Position
}

func (s *VarStmt) stmtNode()     {}
func (s *VarStmt) Pos() Position { return s.position }

type BlockStmt struct {
	Statements []Statement
	position   Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition  Expression
	Consequent Statement
	Alternate  Statement
	position   Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      Statement
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

type FunctionStmt struct {
	Name     Ident
	Params   []Ident
	Body     []Statement
	position Position
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type ClassStmt struct {
	Name       Ident
	Superclass *VariableExpr
	Methods    []*FunctionStmt
	position   Position
}

func (s *ClassStmt) stmtNode()     {}
func (s *ClassStmt) Pos() Position { return s.position }
