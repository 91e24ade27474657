package symbols

import (
	"fmt"

	"soul/internal/ast"
)

// Validate checks the structural invariants of the scope tree: every
// non-root scope has one parent that lists it exactly once, and walking
// parents always reaches the root.
func (t *Table) Validate() error {
	if len(t.scopes) == 0 || t.scopes[ast.RootScopeID].Parent.IsValid() {
		return fmt.Errorf("root scope missing or has a parent")
	}
	for i := 1; i < len(t.scopes); i++ {
		id := ast.ScopeID(i) //nolint:gosec // bounded by PushScope
		parent := t.scopes[i].Parent
		if !parent.IsValid() || int(parent) >= len(t.scopes) {
			return fmt.Errorf("scope %d has invalid parent %d", id, parent)
		}
		seen := 0
		for _, ch := range t.scopes[parent].Children {
			if ch == id {
				seen++
			}
		}
		if seen != 1 {
			return fmt.Errorf("scope %d listed %d times in parent %d", id, seen, parent)
		}
		steps := 0
		for cur := id; cur != ast.RootScopeID; cur = t.scopes[cur].Parent {
			if steps++; steps > len(t.scopes) {
				return fmt.Errorf("scope %d is part of a cycle", id)
			}
		}
	}
	return nil
}
