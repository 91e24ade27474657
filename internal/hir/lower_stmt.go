package hir

import (
	"soul/internal/ast"
	"soul/internal/diag"
)

// lowerBlock lowers a block expression into a fresh HIR block. A final
// expression statement without a semicolon becomes the block's tail. Any
// other expression is wrapped as a block whose tail is that expression.
func (l *lowerer) lowerBlock(id ast.ExprID) BlockID {
	expr := l.b.Exprs.Get(id)
	if expr == nil {
		return NoBlockID
	}
	bid := l.m.newBlock(expr.Span)
	data, ok := l.b.Exprs.Block(id)
	l.withBody(CurrentBody{Kind: BodyBlock, Block: bid}, func() {
		l.pushLocals()
		defer l.popLocals()
		if !ok {
			tail := l.lowerExpr(id)
			l.m.Blocks[bid].Tail = tail
			return
		}
		for i, sid := range data.Stmts {
			if i == len(data.Stmts)-1 {
				if es, isExpr := l.b.Stmts.Expr(sid); isExpr && !es.Semicolon {
					tail := l.lowerExpr(es.Expr)
					l.m.Blocks[bid].Tail = tail
					continue
				}
			}
			l.lowerStmt(sid)
		}
	})
	return bid
}

func (l *lowerer) lowerStmt(id ast.StmtID) {
	stmt := l.b.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtVar:
		data, _ := l.b.Stmts.Var(id)
		l.lowerVar(data, stmt)
	case ast.StmtAssign:
		l.lowerAssign(id, stmt)
	case ast.StmtExpr:
		data, _ := l.b.Stmts.Expr(id)
		value := l.lowerExpr(data.Expr)
		l.emit(Stmt{Kind: StmtExpr, Value: value}, stmt.Span, 0)
	case ast.StmtReturn, ast.StmtBreak:
		data, _ := l.b.Stmts.Jump(id)
		kind := StmtReturn
		if stmt.Kind == ast.StmtBreak {
			kind = StmtBreak
		}
		var value ExprID
		if data.Value.IsValid() {
			value = l.lowerExpr(data.Value)
		}
		l.emit(Stmt{Kind: kind, Value: value}, stmt.Span, 0)
	case ast.StmtContinue:
		data, _ := l.b.Stmts.Jump(id)
		if data.Value.IsValid() {
			l.invalidContext(l.b.Exprs.Get(data.Value).Span, "'continue' cannot carry a value")
		}
		l.emit(Stmt{Kind: StmtContinue}, stmt.Span, 0)
	case ast.StmtFunc, ast.StmtTypeDecl, ast.StmtImpl:
		saved := l.body
		l.body = CurrentBody{Kind: BodyGlobal}
		l.lowerItemStmt(id, ast.NoDeclID)
		l.body = saved
	default:
		diag.ReportInternal(l.reporter, stmt.Span, "unexpected statement kind %s", stmt.Kind)
	}
}

// lowerVar lowers the initializer before binding the name, so the
// initializer still sees any outer declaration it shadows.
func (l *lowerer) lowerVar(data *ast.StmtVarData, stmt *ast.Stmt) (LocalID, StmtID) {
	var value ExprID
	if data.Value.IsValid() {
		value = l.lowerExpr(data.Value)
	}
	local := l.m.newLocal(Local{
		Name:     l.name(data.Name),
		Decl:     data.Decl,
		Type:     l.lowerType(data.Type),
		Modifier: data.Modifier,
	}, data.NameSpan)
	l.bindLocal(data.Name, data.Decl, local)
	st := l.emit(Stmt{Kind: StmtLet, Local: local, Value: value}, stmt.Span, 0)
	return local, st
}

func (l *lowerer) lowerAssign(id ast.StmtID, stmt *ast.Stmt) {
	data, _ := l.b.Stmts.Assign(id)
	if ident, ok := l.b.Exprs.Ident(data.Target); ok && !ident.Decl.IsValid() {
		// already reported as not found; keep the value's side effects
		value := l.lowerExpr(data.Value)
		l.emit(Stmt{Kind: StmtExpr, Value: value}, stmt.Span, 0)
		return
	}
	place, ok := l.lowerPlace(data.Target)
	if !ok {
		l.invalidContext(l.b.Exprs.Get(data.Target).Span, "left side of assignment is not assignable")
		value := l.lowerExpr(data.Value)
		l.emit(Stmt{Kind: StmtExpr, Value: value}, stmt.Span, 0)
		return
	}
	value := l.lowerExpr(data.Value)
	l.emit(Stmt{Kind: StmtAssign, Place: place, Value: value}, stmt.Span, 0)
}
