package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
)

// Table is the scope tree of one unit together with its declaration arena.
// Scope 0 is the global scope; the tree only grows.
type Table struct {
	scopes   []Scope
	current  ast.ScopeID
	Decls    *Decls
	Strings  *source.Interner
	reporter diag.Reporter
}

// NewTable builds a table whose root scope is seeded with the prelude.
// If strings is nil, a fresh interner is allocated.
func NewTable(strings *source.Interner, reporter diag.Reporter) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		scopes:   make([]Scope, 0, 32),
		current:  ast.RootScopeID,
		Decls:    NewDecls(0),
		Strings:  strings,
		reporter: reporter,
	}
	t.scopes = append(t.scopes, newScope(ScopeGlobal, ast.ModMut, ast.NoScopeID, source.Span{}))
	t.installPrelude()
	return t
}

// Current returns the active scope.
func (t *Table) Current() ast.ScopeID { return t.current }

// Scope returns the scope pointer or nil if the ID is unknown.
func (t *Table) Scope(id ast.ScopeID) *Scope {
	if int(id) >= len(t.scopes) {
		return nil
	}
	return &t.scopes[id]
}

// Len reports the number of scopes including the root.
func (t *Table) Len() int { return len(t.scopes) }

// Scopes exposes every scope indexed by ScopeID. READONLY
func (t *Table) Scopes() []Scope { return t.scopes }

func (t *Table) currentScope() *Scope {
	return &t.scopes[t.current]
}

// PushScope creates a child of the current scope and makes it current.
func (t *Table) PushScope(kind ScopeKind, mod ast.Modifier, span source.Span) ast.ScopeID {
	value, err := safecast.Conv[uint32](len(t.scopes))
	if err != nil {
		panic(fmt.Errorf("scope table overflow: %w", err))
	}
	id := ast.ScopeID(value)
	parent := t.current
	t.scopes[parent].Children = append(t.scopes[parent].Children, id)
	t.scopes = append(t.scopes, newScope(kind, mod, parent, span))
	t.current = id
	return id
}

// PopScope restores the parent of the current scope.
// Popping the root is a programming error and panics.
func (t *Table) PopScope() {
	parent := t.currentScope().Parent
	if !parent.IsValid() {
		panic("symbols: cannot pop root scope")
	}
	t.current = parent
}

// GoTo makes an existing scope current without push/pop bookkeeping.
// Unknown IDs leave the current scope untouched and report an internal error.
func (t *Table) GoTo(id ast.ScopeID) bool {
	if int(id) >= len(t.scopes) {
		diag.ReportInternal(t.reporter, source.Span{}, "scope %d does not exist (have %d)", id, len(t.scopes))
		return false
	}
	t.current = id
	return true
}

// CurrentModifier returns the default binding modifier of the active scope.
func (t *Table) CurrentModifier() ast.Modifier {
	return t.currentScope().Modifier
}

// InsertValue appends an entry to the name's binding list in the current scope.
func (t *Table) InsertValue(name source.StringID, entry Entry) {
	scope := t.currentScope()
	scope.Values[name] = append(scope.Values[name], entry)
}

// InsertType stores entry under name in the current scope, replacing any
// earlier one. A replacement is reported as a scope override pointing at the
// original declaration.
func (t *Table) InsertType(name source.StringID, entry Entry) (old Entry, replaced bool) {
	scope := t.currentScope()
	old, replaced = scope.Types[name]
	scope.Types[name] = entry
	if replaced {
		msg := fmt.Sprintf("type '%s' is already declared in this scope", t.nameOf(name))
		diag.ReportError(t.reporter, diag.SemaScopeOverride, entry.Span, msg).
			WithNote(old.Span, "previous declaration here").
			Emit()
	}
	return old, replaced
}

// InsertMember binds a field or variant in the current type scope. A second
// member with the same name is reported like a type override.
func (t *Table) InsertMember(name source.StringID, entry Entry) (old Entry, replaced bool) {
	scope := t.currentScope()
	if scope.Members == nil {
		scope.Members = make(map[source.StringID]Entry)
	}
	old, replaced = scope.Members[name]
	scope.Members[name] = entry
	if replaced {
		msg := fmt.Sprintf("%s '%s' is already declared in this type", entry.Kind, t.nameOf(name))
		diag.ReportError(t.reporter, diag.SemaScopeOverride, entry.Span, msg).
			WithNote(old.Span, "previous declaration here").
			Emit()
	}
	return old, replaced
}

// LookupMember finds a field or variant declared directly in type scope.
func (t *Table) LookupMember(scope ast.ScopeID, name source.StringID) (Entry, bool) {
	if int(scope) >= len(t.scopes) {
		return Entry{}, false
	}
	e, ok := t.scopes[scope].Members[name]
	return e, ok
}

// LookupValue walks from the current scope to the root and returns the
// newest entry of the innermost scope binding name whose kind is in mask.
func (t *Table) LookupValue(name source.StringID, mask KindMask) (Entry, bool) {
	return t.LookupValueFunc(name, func(e Entry) bool { return matchKind(mask, e.Kind) })
}

// LookupValueFunc is LookupValue with an arbitrary visibility predicate.
func (t *Table) LookupValueFunc(name source.StringID, visible func(Entry) bool) (Entry, bool) {
	for id := t.current; id.IsValid(); id = t.scopes[id].Parent {
		list := t.scopes[id].Values[name]
		for i := len(list) - 1; i >= 0; i-- {
			if visible == nil || visible(list[i]) {
				return list[i], true
			}
		}
	}
	return Entry{}, false
}

// LookupType walks from the current scope to the root.
func (t *Table) LookupType(name source.StringID) (Entry, bool) {
	for id := t.current; id.IsValid(); id = t.scopes[id].Parent {
		if e, ok := t.scopes[id].Types[name]; ok {
			return e, true
		}
	}
	return Entry{}, false
}

// LookupFunctionCandidates collects every function bound to name across all
// visible scopes, innermost scope first and newest entry first.
func (t *Table) LookupFunctionCandidates(name source.StringID) []Entry {
	var out []Entry
	for id := t.current; id.IsValid(); id = t.scopes[id].Parent {
		list := t.scopes[id].Values[name]
		for i := len(list) - 1; i >= 0; i-- {
			if list[i].Kind == DeclFunction {
				out = append(out, list[i])
			}
		}
	}
	return out
}

// Declare allocates a declaration and binds it in the current scope.
// Types go to the type namespace, fields and variants to the member
// namespace, everything else to the value namespace.
func (t *Table) Declare(decl Decl) ast.DeclID {
	decl.Scope = t.current
	id := t.Decls.New(decl)
	entry := Entry{Decl: id, Kind: decl.Kind, Span: decl.Span}
	switch decl.Kind {
	case DeclType:
		t.InsertType(decl.Name, entry)
	case DeclField, DeclVariant:
		t.InsertMember(decl.Name, entry)
	default:
		t.InsertValue(decl.Name, entry)
	}
	return id
}

func (t *Table) nameOf(id source.StringID) string {
	if s, ok := t.Strings.Lookup(id); ok && s != "" {
		return s
	}
	return "<anon>"
}
