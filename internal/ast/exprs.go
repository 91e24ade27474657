package ast

import (
	"soul/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLiteralData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Refs     *Arena[ExprRefData]
	Derefs   *Arena[ExprDerefData]
	Calls    *Arena[ExprCallData]
	Indices  *Arena[ExprIndexData]
	Fields   *Arena[ExprFieldData]
	Arrays   *Arena[ExprArrayData]
	Casts    *Arena[ExprCastData]
	Blocks   *Arena[ExprBlockData]
	Ifs      *Arena[ExprIfData]
	Whiles   *Arena[ExprWhileData]
	Fors     *Arena[ExprForData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
// If capHint is 0, a default capacity of 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
		Unaries:  NewArena[ExprUnaryData](capHint),
		Refs:     NewArena[ExprRefData](capHint),
		Derefs:   NewArena[ExprDerefData](capHint),
		Calls:    NewArena[ExprCallData](capHint),
		Indices:  NewArena[ExprIndexData](capHint),
		Fields:   NewArena[ExprFieldData](capHint),
		Arrays:   NewArena[ExprArrayData](capHint),
		Casts:    NewArena[ExprCastData](capHint),
		Blocks:   NewArena[ExprBlockData](capHint),
		Ifs:      NewArena[ExprIfData](capHint),
		Whiles:   NewArena[ExprWhileData](capHint),
		Fors:     NewArena[ExprForData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, payload)
}

// Ident returns the ident data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value})
	return e.new(ExprLit, span, payload)
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, payload)
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

// NewUnary creates a new unary expression.
func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, payload)
}

// Unary returns the unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

// NewRef creates a new `&value` or `&mut value` expression.
func (e *Exprs) NewRef(span source.Span, mut bool, value ExprID) ExprID {
	payload := e.Refs.Allocate(ExprRefData{Mut: mut, Value: value})
	return e.new(ExprRef, span, payload)
}

// Ref returns the ref data for the given expression ID.
func (e *Exprs) Ref(id ExprID) (*ExprRefData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprRef {
		return nil, false
	}
	return e.Refs.Get(uint32(expr.Payload)), true
}

// NewDeref creates a new `*value` expression.
func (e *Exprs) NewDeref(span source.Span, value ExprID) ExprID {
	payload := e.Derefs.Allocate(ExprDerefData{Value: value})
	return e.new(ExprDeref, span, payload)
}

// Deref returns the deref data for the given expression ID.
func (e *Exprs) Deref(id ExprID) (*ExprDerefData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprDeref {
		return nil, false
	}
	return e.Derefs.Get(uint32(expr.Payload)), true
}

// NewCall creates a new call expression.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: append([]ExprID(nil), args...)})
	return e.new(ExprCall, span, payload)
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewIndex creates a new index expression.
func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	payload := e.Indices.Allocate(ExprIndexData{Target: target, Index: index})
	return e.new(ExprIndex, span, payload)
}

// Index returns the index data for the given expression ID.
func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}

// NewField creates a new field access expression.
func (e *Exprs) NewField(span source.Span, target ExprID, field source.StringID) ExprID {
	payload := e.Fields.Allocate(ExprFieldData{Target: target, Field: field})
	return e.new(ExprField, span, payload)
}

// Field returns the field data for the given expression ID.
func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprField {
		return nil, false
	}
	return e.Fields.Get(uint32(expr.Payload)), true
}

// NewArray creates a new array literal.
func (e *Exprs) NewArray(span source.Span, elemType TypeID, elems []ExprID) ExprID {
	payload := e.Arrays.Allocate(ExprArrayData{ElemType: elemType, Elems: append([]ExprID(nil), elems...)})
	return e.new(ExprArray, span, payload)
}

// Array returns the array data for the given expression ID.
func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArray {
		return nil, false
	}
	return e.Arrays.Get(uint32(expr.Payload)), true
}

// NewCast creates a new cast expression.
func (e *Exprs) NewCast(span source.Span, value ExprID, typ TypeID) ExprID {
	payload := e.Casts.Allocate(ExprCastData{Value: value, Type: typ})
	return e.new(ExprCast, span, payload)
}

// Cast returns the cast data for the given expression ID.
func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(uint32(expr.Payload)), true
}

// NewBlock creates a new block expression.
func (e *Exprs) NewBlock(span source.Span, stmts []StmtID) ExprID {
	payload := e.Blocks.Allocate(ExprBlockData{Stmts: append([]StmtID(nil), stmts...), Scope: NoScopeID})
	return e.new(ExprBlock, span, payload)
}

// Block returns the block data for the given expression ID.
func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBlock {
		return nil, false
	}
	return e.Blocks.Get(uint32(expr.Payload)), true
}

// NewIf creates a new if expression with its else arms in source order.
func (e *Exprs) NewIf(span source.Span, cond, then ExprID, arms []ElseArm) ExprID {
	payload := e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Arms: append([]ElseArm(nil), arms...)})
	return e.new(ExprIf, span, payload)
}

// If returns the if data for the given expression ID.
func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIf {
		return nil, false
	}
	return e.Ifs.Get(uint32(expr.Payload)), true
}

// NewWhile creates a new while loop; cond may be NoExprID.
func (e *Exprs) NewWhile(span source.Span, cond, body ExprID) ExprID {
	payload := e.Whiles.Allocate(ExprWhileData{Cond: cond, Body: body})
	return e.new(ExprWhile, span, payload)
}

// While returns the while data for the given expression ID.
func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprWhile {
		return nil, false
	}
	return e.Whiles.Get(uint32(expr.Payload)), true
}

// NewFor creates a new for-in loop.
func (e *Exprs) NewFor(span source.Span, binding source.StringID, bindingSpan source.Span, iter, body ExprID) ExprID {
	payload := e.Fors.Allocate(ExprForData{Binding: binding, BindingSpan: bindingSpan, Iter: iter, Body: body, Scope: NoScopeID})
	return e.new(ExprFor, span, payload)
}

// For returns the for data for the given expression ID.
func (e *Exprs) For(id ExprID) (*ExprForData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprFor {
		return nil, false
	}
	return e.Fors.Get(uint32(expr.Payload)), true
}
