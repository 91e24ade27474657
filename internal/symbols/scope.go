package symbols

import (
	"soul/internal/ast"
	"soul/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeGlobal   ScopeKind = iota // root of a unit
	ScopeFunction                  // function body scope
	ScopeBlock                     // generic block scope
	ScopeType                      // struct/class/trait/enum/union body
	ScopeImpl                      // impl block body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeType:
		return "type"
	case ScopeImpl:
		return "impl"
	default:
		return "invalid"
	}
}

// Entry is one binding of a name inside a scope.
type Entry struct {
	Decl ast.DeclID  `json:"decl" msgpack:"decl"`
	Kind DeclKind    `json:"kind" msgpack:"kind"`
	Span source.Span `json:"span" msgpack:"span"`
}

// Scope models a lexical scope with a parent-child hierarchy.
// Values keep every binding in insertion order so overload sets and
// same-scope shadowing survive; Types hold a single entry per name.
// Members holds the fields and variants of a type scope; lexical lookups
// never see them.
type Scope struct {
	Kind     ScopeKind                   `json:"kind" msgpack:"kind"`
	Modifier ast.Modifier                `json:"modifier" msgpack:"modifier"`
	Parent   ast.ScopeID                 `json:"parent" msgpack:"parent"`
	Children []ast.ScopeID               `json:"children,omitempty" msgpack:"children,omitempty"`
	Span     source.Span                 `json:"span" msgpack:"span"`
	Values   map[source.StringID][]Entry `json:"values,omitempty" msgpack:"values,omitempty"`
	Types    map[source.StringID]Entry   `json:"types,omitempty" msgpack:"types,omitempty"`
	Members  map[source.StringID]Entry   `json:"members,omitempty" msgpack:"members,omitempty"`
}

func newScope(kind ScopeKind, mod ast.Modifier, parent ast.ScopeID, span source.Span) Scope {
	return Scope{
		Kind:     kind,
		Modifier: mod,
		Parent:   parent,
		Span:     span,
		Values:   make(map[source.StringID][]Entry),
		Types:    make(map[source.StringID]Entry),
		Members:  make(map[source.StringID]Entry),
	}
}

// IsRoot reports whether the scope has no parent.
func (s *Scope) IsRoot() bool {
	return !s.Parent.IsValid()
}
