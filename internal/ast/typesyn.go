package ast

import (
	"soul/internal/source"
)

type TypeExprKind uint8

const (
	TypeExprName TypeExprKind = iota + 1
	TypeExprArray
	TypeExprRef
	TypeExprPointer
	TypeExprOptional
)

// ArrayNoLen marks an array type written without a length (a slice).
const ArrayNoLen = ^uint32(0)

// TypeExpr is a type as written in source.
type TypeExpr struct {
	Kind     TypeExprKind
	Span     source.Span
	Modifier Modifier
	Name     source.StringID // TypeExprName
	Decl     DeclID          // TypeExprName, filled by the resolver
	Elem     TypeID          // Array, Ref, Pointer, Optional
	Len      uint32          // Array; ArrayNoLen for slices
	Mut      bool            // Ref
}

// TypeExprs manages allocation of type expressions.
type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

func (t *TypeExprs) new(te TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(te))
}

// Get returns the type expression with the given ID.
func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

// NewName creates a named type such as `int` or `Point`.
func (t *TypeExprs) NewName(span source.Span, name source.StringID, mod Modifier) TypeID {
	return t.new(TypeExpr{Kind: TypeExprName, Span: span, Name: name, Modifier: mod})
}

// NewArray creates a fixed-size array type `[n]T`.
func (t *TypeExprs) NewArray(span source.Span, elem TypeID, length uint32) TypeID {
	return t.new(TypeExpr{Kind: TypeExprArray, Span: span, Elem: elem, Len: length})
}

// NewSlice creates an unsized array type `[]T`.
func (t *TypeExprs) NewSlice(span source.Span, elem TypeID) TypeID {
	return t.new(TypeExpr{Kind: TypeExprArray, Span: span, Elem: elem, Len: ArrayNoLen})
}

// NewRef creates `&T` or `&mut T`.
func (t *TypeExprs) NewRef(span source.Span, elem TypeID, mut bool) TypeID {
	return t.new(TypeExpr{Kind: TypeExprRef, Span: span, Elem: elem, Mut: mut})
}

// NewPointer creates `*T`.
func (t *TypeExprs) NewPointer(span source.Span, elem TypeID) TypeID {
	return t.new(TypeExpr{Kind: TypeExprPointer, Span: span, Elem: elem})
}

// NewOptional creates `?T`.
func (t *TypeExprs) NewOptional(span source.Span, elem TypeID) TypeID {
	return t.new(TypeExpr{Kind: TypeExprOptional, Span: span, Elem: elem})
}
