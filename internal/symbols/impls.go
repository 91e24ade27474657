package symbols

import (
	"slices"

	"soul/internal/ast"
	"soul/internal/source"
)

// Impl records one `impl Trait for Target` block.
type Impl struct {
	Trait      ast.DeclID  `json:"trait" msgpack:"trait"`
	Target     ast.TypeID  `json:"target" msgpack:"target"`
	TargetDecl ast.DeclID  `json:"target_decl,omitempty" msgpack:"target_decl,omitempty"`
	Stmt       ast.StmtID  `json:"stmt" msgpack:"stmt"`
	Span       source.Span `json:"span" msgpack:"span"`
}

// ImplStore indexes impl blocks by the trait they implement.
type ImplStore struct {
	byTrait map[ast.DeclID][]Impl
}

// NewImplStore creates an empty store.
func NewImplStore() *ImplStore {
	return &ImplStore{byTrait: make(map[ast.DeclID][]Impl)}
}

// Add registers an implementation.
func (s *ImplStore) Add(impl Impl) {
	s.byTrait[impl.Trait] = append(s.byTrait[impl.Trait], impl)
}

// For returns the implementations of trait in source order.
func (s *ImplStore) For(trait ast.DeclID) []Impl {
	return s.byTrait[trait]
}

// Traits returns every trait with at least one impl, sorted by DeclID.
func (s *ImplStore) Traits() []ast.DeclID {
	out := make([]ast.DeclID, 0, len(s.byTrait))
	for id := range s.byTrait {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len reports the total number of registered impls.
func (s *ImplStore) Len() int {
	n := 0
	for _, list := range s.byTrait {
		n += len(list)
	}
	return n
}
