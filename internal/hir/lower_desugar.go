package hir

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/types"
)

// lowerPlace lowers an addressable expression. It returns false without
// side effects when id is not a place.
func (l *lowerer) lowerPlace(id ast.ExprID) (*Place, bool) {
	expr := l.b.Exprs.Get(id)
	if expr == nil {
		return nil, false
	}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := l.b.Exprs.Ident(id)
		decl := l.decls.Get(data.Decl)
		if decl == nil || (decl.Kind != symbols.DeclVariable && decl.Kind != symbols.DeclParam) {
			return nil, false
		}
		local := l.lookupLocal(data.Name, data.Decl)
		if !local.IsValid() {
			return nil, false
		}
		return &Place{Kind: PlaceLocal, Local: local}, true
	case ast.ExprIndex:
		data, _ := l.b.Exprs.Index(id)
		base := l.lowerPlaceOrTemp(data.Target)
		return &Place{Kind: PlaceIndex, Base: base, Index: l.lowerExpr(data.Index)}, true
	case ast.ExprField:
		data, _ := l.b.Exprs.Field(id)
		return &Place{Kind: PlaceField, Base: l.lowerPlaceOrTemp(data.Target), Field: l.name(data.Field)}, true
	case ast.ExprDeref:
		data, _ := l.b.Exprs.Deref(id)
		return &Place{Kind: PlaceDeref, Base: l.lowerPlaceOrTemp(data.Value)}, true
	default:
		return nil, false
	}
}

// lowerPlaceOrTemp lowers id as a place, spilling a value into a temporary
// when it has no address.
func (l *lowerer) lowerPlaceOrTemp(id ast.ExprID) *Place {
	if place, ok := l.lowerPlace(id); ok {
		return place
	}
	value := l.lowerExpr(id)
	span := l.m.ExprSpan(value)
	tmp := l.newTemp("tmp", types.NoTypeID, span)
	l.emit(Stmt{Kind: StmtLet, Local: tmp, Value: value}, span, AttrSynthetic)
	return &Place{Kind: PlaceLocal, Local: tmp}
}

func (l *lowerer) newTemp(prefix string, typ types.TypeID, span source.Span) LocalID {
	l.temps++
	local := l.m.newLocal(Local{Name: fmt.Sprintf("__%s%d", prefix, l.temps), Type: typ, Modifier: ast.ModMut}, span)
	l.m.Attrs.Locals[local] |= AttrSynthetic
	return local
}

// lowerArray rewrites an array literal into
//
//	let __arrayN = <stack array of len(elems)>
//	__arrayN[0] = e0
//	...
//
// attached to the current body, and yields a load of __arrayN.
func (l *lowerer) lowerArray(id ast.ExprID, span source.Span) ExprID {
	data, _ := l.b.Exprs.Array(id)
	n, err := safecast.Conv[uint32](len(data.Elems))
	if err != nil {
		diag.ReportError(l.reporter, diag.SemaInvalidContext, span, "array literal has too many elements").Emit()
		return l.m.newExpr(Expr{Kind: ExprError}, span)
	}

	elem := l.lowerType(data.ElemType)
	var arrType types.TypeID
	if elem != types.NoTypeID {
		arrType = l.m.Types.Intern(types.MakeArray(elem, n))
	}
	tmp := l.newTemp("array", arrType, span)

	alloc := l.m.newExpr(Expr{Kind: ExprStackArray, Type: elem, Len: n}, span)
	l.m.Attrs.Exprs[alloc] |= AttrSynthetic
	l.emit(Stmt{Kind: StmtLet, Local: tmp, Value: alloc}, span, AttrSynthetic)

	for i, e := range data.Elems {
		value := l.lowerExpr(e)
		elemSpan := l.m.ExprSpan(value)
		index := l.m.newExpr(Expr{Kind: ExprLit, Lit: &Literal{Kind: ast.ExprLitUint, Text: strconv.Itoa(i)}}, elemSpan)
		l.m.Attrs.Exprs[index] |= AttrSynthetic
		place := &Place{Kind: PlaceIndex, Base: &Place{Kind: PlaceLocal, Local: tmp}, Index: index}
		l.emit(Stmt{Kind: StmtAssign, Place: place, Value: value}, elemSpan, AttrSynthetic)
	}

	if l.pass.Enabled() {
		l.pass.Point("lower.array", fmt.Sprintf("%s len=%d", l.m.Locals[tmp].Name, n))
	}

	out := l.m.newExpr(Expr{Kind: ExprLoad, Place: &Place{Kind: PlaceLocal, Local: tmp}}, span)
	l.m.Attrs.Exprs[out] |= AttrSynthetic
	return out
}
