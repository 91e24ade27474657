package sema

import (
	"slices"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/hir"
	"soul/internal/types"
)

// ExprSet is a set of expression IDs.
type ExprSet map[hir.ExprID]struct{}

func (s ExprSet) Add(id hir.ExprID) { s[id] = struct{}{} }

func (s ExprSet) Has(id hir.ExprID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order.
func (s ExprSet) Sorted() []hir.ExprID {
	out := make([]hir.ExprID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// TypedResponse carries the inferred types of one module. All maps are keyed
// by IDs from the lowered module; TypeIDs index the module's interner.
type TypedResponse struct {
	Types      map[ast.DeclID]types.TypeID  `msgpack:"types" json:"types"`
	ExprTypes  map[hir.ExprID]types.TypeID  `msgpack:"expr_types" json:"expr_types"`
	LocalTypes map[hir.LocalID]types.TypeID `msgpack:"local_types" json:"local_types"`
	AutoCopies ExprSet                      `msgpack:"auto_copies" json:"auto_copies"`
	Faults     []diag.Diagnostic            `msgpack:"faults" json:"faults"`
}

func newTypedResponse() *TypedResponse {
	return &TypedResponse{
		Types:      make(map[ast.DeclID]types.TypeID),
		ExprTypes:  make(map[hir.ExprID]types.TypeID),
		LocalTypes: make(map[hir.LocalID]types.TypeID),
		AutoCopies: make(ExprSet),
	}
}

// DeclType returns the inferred type of decl or NoTypeID.
func (r *TypedResponse) DeclType(decl ast.DeclID) types.TypeID {
	return r.Types[decl]
}
