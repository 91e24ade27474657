package hir

import (
	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
)

func (l *lowerer) lowerExpr(id ast.ExprID) ExprID {
	expr := l.b.Exprs.Get(id)
	if expr == nil {
		return NoExprID
	}
	span := expr.Span
	switch expr.Kind {
	case ast.ExprIdent:
		return l.lowerIdent(id, span)
	case ast.ExprLit:
		data, _ := l.b.Exprs.Literal(id)
		return l.m.newExpr(Expr{Kind: ExprLit, Lit: &Literal{Kind: data.Kind, Text: l.name(data.Value)}}, span)
	case ast.ExprBinary:
		data, _ := l.b.Exprs.Binary(id)
		left := l.lowerExpr(data.Left)
		right := l.lowerExpr(data.Right)
		return l.m.newExpr(Expr{Kind: ExprBinary, Op: data.Op, Left: left, Right: right}, span)
	case ast.ExprUnary:
		data, _ := l.b.Exprs.Unary(id)
		operand := l.lowerExpr(data.Operand)
		return l.m.newExpr(Expr{Kind: ExprUnary, UnaryOp: data.Op, Operand: operand}, span)
	case ast.ExprRef:
		data, _ := l.b.Exprs.Ref(id)
		place := l.lowerPlaceOrTemp(data.Value)
		return l.m.newExpr(Expr{Kind: ExprRef, Place: place, Mut: data.Mut}, span)
	case ast.ExprDeref, ast.ExprIndex, ast.ExprField:
		place, _ := l.lowerPlace(id)
		return l.m.newExpr(Expr{Kind: ExprLoad, Place: place}, span)
	case ast.ExprCall:
		return l.lowerCall(id, span)
	case ast.ExprArray:
		return l.lowerArray(id, span)
	case ast.ExprCast:
		data, _ := l.b.Exprs.Cast(id)
		value := l.lowerExpr(data.Value)
		return l.m.newExpr(Expr{Kind: ExprCast, Operand: value, Type: l.lowerType(data.Type)}, span)
	case ast.ExprBlock:
		return l.m.newExpr(Expr{Kind: ExprBlock, Block: l.lowerBlock(id)}, span)
	case ast.ExprIf:
		return l.lowerIf(id, span)
	case ast.ExprWhile:
		data, _ := l.b.Exprs.While(id)
		var cond ExprID
		if data.Cond.IsValid() {
			cond = l.lowerExpr(data.Cond)
		}
		return l.m.newExpr(Expr{Kind: ExprWhile, Cond: cond, Block: l.lowerBlock(data.Body)}, span)
	case ast.ExprFor:
		return l.lowerFor(id, span)
	default:
		diag.ReportInternal(l.reporter, span, "unexpected expression kind %s", expr.Kind)
		return l.m.newExpr(Expr{Kind: ExprError}, span)
	}
}

func (l *lowerer) lowerIdent(id ast.ExprID, span source.Span) ExprID {
	data, _ := l.b.Exprs.Ident(id)
	decl := l.decls.Get(data.Decl)
	if decl == nil {
		return l.m.newExpr(Expr{Kind: ExprError}, span)
	}
	switch decl.Kind {
	case symbols.DeclVariable, symbols.DeclParam:
		local := l.lookupLocal(data.Name, data.Decl)
		if !local.IsValid() {
			diag.ReportInternal(l.reporter, span, "no local slot for '%s'", l.name(data.Name))
			return l.m.newExpr(Expr{Kind: ExprError}, span)
		}
		return l.m.newExpr(Expr{Kind: ExprLoad, Place: &Place{Kind: PlaceLocal, Local: local}}, span)
	case symbols.DeclFunction:
		return l.m.newExpr(Expr{Kind: ExprFuncRef, Decl: data.Decl}, span)
	default:
		l.invalidContext(span, "'%s' is a %s, not a value", l.name(data.Name), decl.Kind)
		return l.m.newExpr(Expr{Kind: ExprError}, span)
	}
}

func (l *lowerer) lowerCall(id ast.ExprID, span source.Span) ExprID {
	data, _ := l.b.Exprs.Call(id)
	callee := l.lowerExpr(data.Callee)
	args := make([]ExprID, 0, len(data.Args))
	for _, a := range data.Args {
		args = append(args, l.lowerExpr(a))
	}
	var candidates []ast.DeclID
	if len(data.Candidates) > 0 {
		candidates = append(candidates, data.Candidates...)
	}
	return l.m.newExpr(Expr{Kind: ExprCall, Callee: callee, Args: args, Candidates: candidates}, span)
}

// lowerIf builds the arm chain iteratively. Arms after a plain else are
// reported and dropped.
func (l *lowerer) lowerIf(id ast.ExprID, span source.Span) ExprID {
	data, _ := l.b.Exprs.If(id)
	root := &If{Cond: l.lowerExpr(data.Cond), Body: l.lowerBlock(data.Then)}
	tail := root
	closed := false
	for _, arm := range data.Arms {
		if closed {
			l.invalidContext(arm.Span, "'else' branch after the final 'else'")
			continue
		}
		switch arm.Kind {
		case ast.ElsePlain:
			tail.Else = &Arm{Kind: ArmElse, Body: l.lowerBlock(arm.Body)}
			closed = true
		case ast.ElseIf:
			next := &If{Cond: l.lowerExpr(arm.Cond), Body: l.lowerBlock(arm.Body)}
			tail.Else = &Arm{Kind: ArmElseIf, If: next}
			tail = next
		}
	}
	return l.m.newExpr(Expr{Kind: ExprIf, If: root}, span)
}

// lowerFor keeps the loop as a deferred node and flags it unstable.
func (l *lowerer) lowerFor(id ast.ExprID, span source.Span) ExprID {
	data, _ := l.b.Exprs.For(id)
	diag.ReportWarning(l.reporter, diag.SemaUnstableFeature, span, "for-loops are not finalized; the loop is kept but not lowered").Emit()

	iter := l.lowerExpr(data.Iter)
	l.pushLocals()
	binding := l.m.newLocal(Local{Name: l.name(data.Binding), Decl: data.Decl}, data.BindingSpan)
	l.bindLocal(data.Binding, data.Decl, binding)
	body := l.lowerBlock(data.Body)
	l.popLocals()

	out := l.m.newExpr(Expr{Kind: ExprFor, For: &For{Binding: binding, Iter: iter, Body: body}}, span)
	l.m.Attrs.Exprs[out] |= AttrUnstable
	return out
}
