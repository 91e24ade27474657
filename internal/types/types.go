package types

import (
	"fmt"

	"soul/internal/ast"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindError        // poison; unifies with anything
	KindUnit
	KindNone
	KindBool
	KindChar
	KindString
	KindInt
	KindUint
	KindFloat
	KindUntypedInt
	KindUntypedUint
	KindUntypedFloat
	KindArray
	KindReference
	KindPointer
	KindOptional
	KindNamed
	KindFn
	KindVar // inference variable, Payload is the variable number
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindError:
		return "error"
	case KindUnit:
		return "unit"
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindString:
		return "str"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindUntypedInt:
		return "untyped int"
	case KindUntypedUint:
		return "untyped uint"
	case KindUntypedFloat:
		return "untyped float"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	case KindPointer:
		return "pointer"
	case KindOptional:
		return "optional"
	case KindNamed:
		return "named"
	case KindFn:
		return "fn"
	case KindVar:
		return "var"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0 // platform width
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// ArrayKind distinguishes array storage.
type ArrayKind uint8

const (
	ArrayStack ArrayKind = iota // fixed-size aggregate
	ArrayHeap
	ArraySlice // view with unknown compile-time length
)

func (k ArrayKind) String() string {
	switch k {
	case ArrayHeap:
		return "heap"
	case ArraySlice:
		return "slice"
	default:
		return "stack"
	}
}

// ArrayDynamicLength marks arrays with unknown compile-time length.
const ArrayDynamicLength = ^uint32(0)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind     Kind         `msgpack:"kind" json:"kind"`
	Elem     TypeID       `msgpack:"elem,omitempty" json:"elem,omitempty"`
	Count    uint32       `msgpack:"count,omitempty" json:"count,omitempty"` // for arrays
	Width    Width        `msgpack:"width,omitempty" json:"width,omitempty"` // for numeric primitives
	Mutable  bool         `msgpack:"mutable,omitempty" json:"mutable,omitempty"`
	Array    ArrayKind    `msgpack:"array,omitempty" json:"array,omitempty"`
	Modifier ast.Modifier `msgpack:"modifier,omitempty" json:"modifier,omitempty"`
	Decl     ast.DeclID   `msgpack:"decl,omitempty" json:"decl,omitempty"`       // for named types
	Payload  uint32       `msgpack:"payload,omitempty" json:"payload,omitempty"` // fn info slot or variable number
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width (WidthAny for "int").
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeArray describes a fixed-size stack array.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count, Array: ArrayStack}
}

// MakeHeapArray describes a heap-allocated array.
func MakeHeapArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count, Array: ArrayHeap}
}

// MakeSlice describes an array view of unknown length.
func MakeSlice(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem, Count: ArrayDynamicLength, Array: ArraySlice}
}

// MakePointer describes a raw pointer.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeReference describes &T or &mut T depending on the mutable flag.
func MakeReference(elem TypeID, mutable bool) Type {
	return Type{Kind: KindReference, Elem: elem, Mutable: mutable}
}

// MakeOptional describes T?.
func MakeOptional(elem TypeID) Type {
	return Type{Kind: KindOptional, Elem: elem}
}

// MakeVar describes an inference variable.
func MakeVar(n uint32) Type {
	return Type{Kind: KindVar, Payload: n}
}

// IsUntyped reports whether k is an untyped literal kind.
func (k Kind) IsUntyped() bool {
	return k == KindUntypedInt || k == KindUntypedUint || k == KindUntypedFloat
}

// IsNumeric reports whether k is a concrete or untyped number kind.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt, KindUint, KindFloat, KindUntypedInt, KindUntypedUint, KindUntypedFloat:
		return true
	}
	return false
}

// IsInteger reports whether k is a concrete or untyped integer kind.
func (k Kind) IsInteger() bool {
	switch k {
	case KindInt, KindUint, KindUntypedInt, KindUntypedUint:
		return true
	}
	return false
}
