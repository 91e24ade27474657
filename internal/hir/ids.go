// Package hir provides the high-level intermediate representation for soul.
//
// HIR sits between the resolved syntax tree and later control-flow lowering.
// Every block, statement, expression and local is addressed by an ID from a
// per-kind monotonic counter; spans and attributes live in side tables so
// node shapes stay small and stable. Lowering desugars array literals and
// if/else chains; for-loops are kept as a deferred node.
package hir

import (
	"fmt"

	"fortio.org/safecast"
)

// BlockID identifies a block (function body, branch, loop body).
type BlockID uint32

// StmtID identifies a statement.
type StmtID uint32

// ExprID identifies an expression.
type ExprID uint32

// LocalID identifies a local slot. Locals are IR slots distinct from the
// resolver's declaration IDs; synthesized temporaries have no declaration.
type LocalID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoBlockID BlockID = 0
	NoStmtID  StmtID  = 0
	NoExprID  ExprID  = 0
	NoLocalID LocalID = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id BlockID) IsValid() bool { return id != NoBlockID }
func (id StmtID) IsValid() bool  { return id != NoStmtID }
func (id ExprID) IsValid() bool  { return id != NoExprID }
func (id LocalID) IsValid() bool { return id != NoLocalID }

// IDGen hands out IDs from independent monotonic counters. One generator
// belongs to one lowering run; it is returned with the module so later
// passes can keep allocating without collisions.
type IDGen struct {
	Blocks uint32 `msgpack:"blocks" json:"blocks"`
	Stmts  uint32 `msgpack:"stmts" json:"stmts"`
	Exprs  uint32 `msgpack:"exprs" json:"exprs"`
	Locals uint32 `msgpack:"locals" json:"locals"`
}

func bump(counter *uint32, kind string) uint32 {
	next, err := safecast.Conv[uint32](uint64(*counter) + 1)
	if err != nil {
		panic(fmt.Errorf("%s id overflow: %w", kind, err))
	}
	*counter = next
	return next
}

func (g *IDGen) Block() BlockID { return BlockID(bump(&g.Blocks, "block")) }
func (g *IDGen) Stmt() StmtID   { return StmtID(bump(&g.Stmts, "stmt")) }
func (g *IDGen) Expr() ExprID   { return ExprID(bump(&g.Exprs, "expr")) }
func (g *IDGen) Local() LocalID { return LocalID(bump(&g.Locals, "local")) }
