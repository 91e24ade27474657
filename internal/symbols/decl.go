package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"soul/internal/ast"
	"soul/internal/source"
)

// DeclKind classifies the semantic meaning of a declaration.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclVariable
	DeclFunction
	DeclParam
	DeclType
	DeclField
	DeclVariant
)

func (k DeclKind) String() string {
	switch k {
	case DeclVariable:
		return "variable"
	case DeclFunction:
		return "function"
	case DeclParam:
		return "param"
	case DeclType:
		return "type"
	case DeclField:
		return "field"
	case DeclVariant:
		return "variant"
	default:
		return "invalid"
	}
}

// Mask converts a declaration kind into a KindMask bit.
func (k DeclKind) Mask() KindMask {
	return KindMask(1 << uint(k))
}

// KindMask restricts lookup to specific declaration kinds.
type KindMask uint32

const (
	// KindMaskNone filters out all kinds.
	KindMaskNone KindMask = 0
	// KindMaskAny allows all kinds.
	KindMaskAny KindMask = ^KindMask(0)
)

func matchKind(mask KindMask, kind DeclKind) bool {
	return mask == KindMaskAny || mask&kind.Mask() != 0
}

// Decl is the record behind a DeclID.
type Decl struct {
	Kind     DeclKind         `json:"kind" msgpack:"kind"`
	Name     source.StringID  `json:"name" msgpack:"name"`
	Span     source.Span      `json:"span" msgpack:"span"`
	Scope    ast.ScopeID      `json:"scope" msgpack:"scope"`                     // declaring scope
	Owner    ast.DeclID       `json:"owner,omitempty" msgpack:"owner,omitempty"` // enclosing type for fields, variants and methods
	TypeKind ast.TypeDeclKind `json:"type_kind,omitempty" msgpack:"type_kind,omitempty"`
	Modifier ast.Modifier     `json:"modifier,omitempty" msgpack:"modifier,omitempty"`
	Stmt     ast.StmtID       `json:"stmt,omitempty" msgpack:"stmt,omitempty"`
	Builtin  bool             `json:"builtin,omitempty" msgpack:"builtin,omitempty"`
}

// Decls stores declarations in a compact arena; slot 0 is NoDeclID.
type Decls struct {
	data []Decl
}

// NewDecls creates a declaration arena with optional capacity hint.
func NewDecls(capacity uint32) *Decls {
	if capacity == 0 {
		capacity = 64
	}
	return &Decls{
		data: make([]Decl, 1, capacity+1), // index 0 reserved for NoDeclID
	}
}

// New allocates a declaration and returns its ID.
func (d *Decls) New(decl Decl) ast.DeclID {
	value, err := safecast.Conv[uint32](len(d.data))
	if err != nil {
		panic(fmt.Errorf("decls arena overflow: %w", err))
	}
	d.data = append(d.data, decl)
	return ast.DeclID(value)
}

// Get returns the declaration or nil if the ID is the sentinel or out of range.
func (d *Decls) Get(id ast.DeclID) *Decl {
	if !id.IsValid() || int(id) >= len(d.data) {
		return nil
	}
	return &d.data[id]
}

// Len reports the number of declarations excluding the sentinel.
func (d *Decls) Len() int { return len(d.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (d *Decls) Data() []Decl {
	if len(d.data) <= 1 {
		return nil
	}
	return d.data[1:]
}
