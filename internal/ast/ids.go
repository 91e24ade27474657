package ast

type (
	// top-level
	StmtID uint32
	ExprID uint32
	TypeID uint32
	// nested
	PayloadID uint32

	// DeclID identifies a declared binding (variable, function, parameter,
	// type, field or variant). It is assigned once during name collection.
	DeclID uint32
	// ScopeID indexes the scope tree built during name collection.
	ScopeID uint32
)

const (
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoPayloadID PayloadID = 0

	// NoDeclID marks a reference whose resolution failed.
	NoDeclID DeclID = 0

	// RootScopeID is the global scope.
	RootScopeID ScopeID = 0
	// NoScopeID marks a node whose scope was not recorded yet.
	NoScopeID ScopeID = ^ScopeID(0)
)

func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id DeclID) IsValid() bool    { return id != NoDeclID }
func (id ScopeID) IsValid() bool   { return id != NoScopeID }
