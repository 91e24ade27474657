package hir

// StmtKind enumerates HIR statements.
type StmtKind uint8

const (
	StmtLet StmtKind = iota + 1
	StmtAssign
	StmtExpr
	StmtReturn
	StmtBreak
	StmtContinue
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "let"
	case StmtAssign:
		return "assign"
	case StmtExpr:
		return "expr"
	case StmtReturn:
		return "return"
	case StmtBreak:
		return "break"
	case StmtContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// Stmt is an HIR statement.
type Stmt struct {
	Kind  StmtKind `msgpack:"kind" json:"kind"`
	Local LocalID  `msgpack:"local,omitempty" json:"local,omitempty"` // Let
	Place *Place   `msgpack:"place,omitempty" json:"place,omitempty"` // Assign
	Value ExprID   `msgpack:"value,omitempty" json:"value,omitempty"` // Let, Assign, Expr, Return, Break
}

// Block is an ordered statement list with an optional tail expression
// giving the block's value.
type Block struct {
	Stmts []StmtID `msgpack:"stmts" json:"stmts"`
	Tail  ExprID   `msgpack:"tail,omitempty" json:"tail,omitempty"`
}

// BodyKind tells where synthesized statements are attached.
type BodyKind uint8

const (
	BodyGlobal BodyKind = iota
	BodyBlock
)

// CurrentBody is the statement list currently being filled.
type CurrentBody struct {
	Kind  BodyKind
	Block BlockID // BodyBlock only
}
