package ast

type Program struct {
	File    string
	Body    *Block
	Skipped []Skipped
}

// Skipped records a source line that produced no statement.
type Skipped struct {
	Line   int
	Text   string
	Reason string
}

// Block is the statement list owned by the program or by one braced region.
type Block struct {
	Statements []Statement
}

type Statement interface {
	isStatement()
}

// DeclStmt covers `var x int`, `int x`, `array a = [...]` and friends.
type DeclStmt struct {
	Name string
	Type string // int|float|bool|array, empty for untyped var
	Init Expr
}

func (DeclStmt) isStatement() {}

type AssignStmt struct {
	Target string
	Index  Expr // non-nil for element writes
	Op     string
	Expr   Expr
}

func (AssignStmt) isStatement() {}

type IncDecStmt struct {
	Target string
	Op     string
}

func (IncDecStmt) isStatement() {}

// InstrStmt is a fixed-arity pseudo-instruction such as ADD or PLE.
type InstrStmt struct {
	Op   string
	Dest string
	Args []Expr
}

func (InstrStmt) isStatement() {}

type PrintStmt struct {
	Expr Expr
}

func (PrintStmt) isStatement() {}

type CallStmt struct {
	Call CallExpr
}

func (CallStmt) isStatement() {}

type IfStmt struct {
	Branches []IfBranch
	Else     *Block
}

func (IfStmt) isStatement() {}

type IfBranch struct {
	Cond Expr
	Body *Block
}

type ForStmt struct {
	Var  string
	Init Expr
	Cond Expr
	Incr Statement
	Body *Block
}

func (ForStmt) isStatement() {}

type ForeachStmt struct {
	Var   string
	Array string
	Body  *Block
}

func (ForeachStmt) isStatement() {}

type MatchStmt struct {
	Subject Expr
	Cases   []MatchCase
}

func (MatchStmt) isStatement() {}

type MatchCase struct {
	Wildcard bool
	Pattern  Expr
	Action   Statement
}

type Expr interface {
	isExpr()
}

type IntLit struct {
	Value int64
}

func (IntLit) isExpr() {}

type FloatLit struct {
	Value float64
}

func (FloatLit) isExpr() {}

type BoolLit struct {
	Value bool
}

func (BoolLit) isExpr() {}

type VarRef struct {
	Name string
}

func (VarRef) isExpr() {}

type IndexExpr struct {
	Name  string
	Index Expr
}

func (IndexExpr) isExpr() {}

type ArrayLit struct {
	Elems []Expr
}

func (ArrayLit) isExpr() {}

type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (UnaryExpr) isExpr() {}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}

type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}

// BadExpr keeps the source of an expression that failed to parse.
// It always evaluates to 0.
type BadExpr struct {
	Raw string
}

func (BadExpr) isExpr() {}
