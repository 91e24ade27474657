package symbols

import (
	"soul/internal/ast"
)

// collectStmts allocates declarations and records scopes for stmts.
func (r *resolver) collectStmts(stmts []ast.StmtID) {
	for _, id := range stmts {
		r.collectStmt(id, ast.NoDeclID)
	}
}

func (r *resolver) collectStmt(id ast.StmtID, owner ast.DeclID) {
	stmt := r.b.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtVar:
		data, _ := r.b.Stmts.Var(id)
		r.collectExpr(data.Value)
		mod := data.Modifier
		if mod == ast.ModDefault {
			mod = r.table.CurrentModifier()
		}
		data.Decl = r.declare(DeclVariable, data.Name, data.NameSpan, mod)
		r.table.Decls.Get(data.Decl).Stmt = id

	case ast.StmtAssign:
		data, _ := r.b.Stmts.Assign(id)
		r.collectExpr(data.Target)
		r.collectExpr(data.Value)

	case ast.StmtFunc:
		r.collectFunc(id, owner)

	case ast.StmtTypeDecl:
		r.collectTypeDecl(id)

	case ast.StmtImpl:
		data, _ := r.b.Stmts.Impl(id)
		data.Scope = r.table.PushScope(ScopeImpl, ast.ModDefault, stmt.Span)
		for _, m := range data.Methods {
			r.collectStmt(m, ast.NoDeclID)
		}
		r.table.PopScope()

	case ast.StmtExpr:
		data, _ := r.b.Stmts.Expr(id)
		r.collectExpr(data.Expr)

	case ast.StmtReturn, ast.StmtBreak, ast.StmtContinue:
		data, _ := r.b.Stmts.Jump(id)
		r.collectExpr(data.Value)
	}
}

func (r *resolver) collectFunc(id ast.StmtID, owner ast.DeclID) {
	stmt := r.b.Stmts.Get(id)
	data, _ := r.b.Stmts.Func(id)
	data.Decl = r.declare(DeclFunction, data.Name, data.NameSpan, data.Modifier)
	decl := r.table.Decls.Get(data.Decl)
	decl.Stmt = id
	decl.Owner = owner

	data.Scope = r.table.PushScope(ScopeFunction, data.Modifier, stmt.Span)
	for i := range data.Params {
		p := &data.Params[i]
		p.Decl = r.declare(DeclParam, p.Name, p.Span, p.Modifier)
		r.table.Decls.Get(p.Decl).Owner = data.Decl
	}
	// the body block shares the function scope so params and locals live together
	if body, ok := r.b.Exprs.Block(data.Body); ok {
		body.Scope = data.Scope
		for _, s := range body.Stmts {
			r.collectStmt(s, ast.NoDeclID)
		}
	} else {
		r.collectExpr(data.Body)
	}
	r.table.PopScope()
}

func (r *resolver) collectTypeDecl(id ast.StmtID) {
	stmt := r.b.Stmts.Get(id)
	data, _ := r.b.Stmts.TypeDecl(id)
	data.Decl = r.declare(DeclType, data.Name, data.NameSpan, ast.ModDefault)
	decl := r.table.Decls.Get(data.Decl)
	decl.Stmt = id
	decl.TypeKind = data.Kind

	data.Scope = r.table.PushScope(ScopeType, ast.ModDefault, stmt.Span)
	for i := range data.Fields {
		f := &data.Fields[i]
		f.Decl = r.declare(DeclField, f.Name, f.Span, ast.ModDefault)
		r.table.Decls.Get(f.Decl).Owner = data.Decl
	}
	for i := range data.Variants {
		v := &data.Variants[i]
		v.Decl = r.declare(DeclVariant, v.Name, v.Span, ast.ModDefault)
		r.table.Decls.Get(v.Decl).Owner = data.Decl
	}
	for _, m := range data.Methods {
		r.collectStmt(m, data.Decl)
	}
	r.table.PopScope()
}

func (r *resolver) collectExpr(id ast.ExprID) {
	expr := r.b.Exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprIdent, ast.ExprLit:

	case ast.ExprBinary:
		data, _ := r.b.Exprs.Binary(id)
		r.collectExpr(data.Left)
		r.collectExpr(data.Right)

	case ast.ExprUnary:
		data, _ := r.b.Exprs.Unary(id)
		r.collectExpr(data.Operand)

	case ast.ExprRef:
		data, _ := r.b.Exprs.Ref(id)
		r.collectExpr(data.Value)

	case ast.ExprDeref:
		data, _ := r.b.Exprs.Deref(id)
		r.collectExpr(data.Value)

	case ast.ExprCall:
		data, _ := r.b.Exprs.Call(id)
		r.collectExpr(data.Callee)
		for _, arg := range data.Args {
			r.collectExpr(arg)
		}

	case ast.ExprIndex:
		data, _ := r.b.Exprs.Index(id)
		r.collectExpr(data.Target)
		r.collectExpr(data.Index)

	case ast.ExprField:
		data, _ := r.b.Exprs.Field(id)
		r.collectExpr(data.Target)

	case ast.ExprArray:
		data, _ := r.b.Exprs.Array(id)
		for _, el := range data.Elems {
			r.collectExpr(el)
		}

	case ast.ExprCast:
		data, _ := r.b.Exprs.Cast(id)
		r.collectExpr(data.Value)

	case ast.ExprBlock:
		data, _ := r.b.Exprs.Block(id)
		data.Scope = r.table.PushScope(ScopeBlock, r.table.CurrentModifier(), expr.Span)
		for _, s := range data.Stmts {
			r.collectStmt(s, ast.NoDeclID)
		}
		r.table.PopScope()

	case ast.ExprIf:
		data, _ := r.b.Exprs.If(id)
		r.collectExpr(data.Cond)
		r.collectExpr(data.Then)
		for _, arm := range data.Arms {
			r.collectExpr(arm.Cond)
			r.collectExpr(arm.Body)
		}

	case ast.ExprWhile:
		data, _ := r.b.Exprs.While(id)
		r.collectExpr(data.Cond)
		r.collectExpr(data.Body)

	case ast.ExprFor:
		data, _ := r.b.Exprs.For(id)
		r.collectExpr(data.Iter)
		data.Scope = r.table.PushScope(ScopeBlock, r.table.CurrentModifier(), expr.Span)
		data.Decl = r.declare(DeclVariable, data.Binding, data.BindingSpan, r.table.CurrentModifier())
		r.collectExpr(data.Body)
		r.table.PopScope()
	}
}
