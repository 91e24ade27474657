package symbols

import (
	"fmt"

	"soul/internal/ast"
	"soul/internal/diag"
)

func (r *resolver) resolveStmts(stmts []ast.StmtID) {
	for _, id := range stmts {
		r.resolveStmt(id)
	}
}

func (r *resolver) resolveStmt(id ast.StmtID) {
	stmt := r.b.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtVar:
		data, _ := r.b.Stmts.Var(id)
		r.resolveType(data.Type)
		r.resolveExpr(data.Value)
		r.passed[data.Decl] = true

	case ast.StmtAssign:
		data, _ := r.b.Stmts.Assign(id)
		r.resolveExpr(data.Target)
		r.resolveExpr(data.Value)

	case ast.StmtFunc:
		data, _ := r.b.Stmts.Func(id)
		for _, p := range data.Params {
			r.resolveType(p.Type)
		}
		r.resolveType(data.Result)
		leave := r.enter(data.Scope, stmt.Span)
		if body, ok := r.b.Exprs.Block(data.Body); ok {
			r.resolveStmts(body.Stmts)
		} else {
			r.resolveExpr(data.Body)
		}
		leave()

	case ast.StmtTypeDecl:
		data, _ := r.b.Stmts.TypeDecl(id)
		leave := r.enter(data.Scope, stmt.Span)
		for _, f := range data.Fields {
			r.resolveType(f.Type)
		}
		for _, v := range data.Variants {
			r.resolveType(v.Type)
		}
		r.resolveStmts(data.Methods)
		leave()

	case ast.StmtImpl:
		data, _ := r.b.Stmts.Impl(id)
		r.resolveType(data.Trait)
		r.resolveType(data.Target)
		r.registerImpl(id, data)
		leave := r.enter(data.Scope, stmt.Span)
		r.resolveStmts(data.Methods)
		leave()

	case ast.StmtExpr:
		data, _ := r.b.Stmts.Expr(id)
		r.resolveExpr(data.Expr)

	case ast.StmtReturn, ast.StmtBreak, ast.StmtContinue:
		data, _ := r.b.Stmts.Jump(id)
		r.resolveExpr(data.Value)
	}
}

func (r *resolver) registerImpl(id ast.StmtID, data *ast.StmtImplData) {
	trait := r.b.Types.Get(data.Trait)
	if trait == nil || !trait.Decl.IsValid() {
		// unresolved names were already reported
		return
	}
	decl := r.table.Decls.Get(trait.Decl)
	if decl == nil || decl.Kind != DeclType || decl.TypeKind != ast.TypeDeclTrait {
		kind := "type"
		if decl != nil && decl.TypeKind != 0 {
			kind = decl.TypeKind.String()
		}
		msg := fmt.Sprintf("'%s' is a %s, not a trait", r.b.NameOf(trait.Name), kind)
		rb := diag.ReportError(r.reporter, diag.SemaInvalidTypeKind, trait.Span, msg)
		if decl != nil && !decl.Builtin {
			rb.WithNote(decl.Span, "declared here")
		}
		rb.Emit()
		return
	}
	impl := Impl{Trait: trait.Decl, Target: data.Target, Stmt: id, Span: r.b.Stmts.Get(id).Span}
	if target := r.b.Types.Get(data.Target); target != nil {
		impl.TargetDecl = target.Decl
	}
	r.impls.Add(impl)
}

func (r *resolver) resolveType(id ast.TypeID) {
	te := r.b.Types.Get(id)
	if te == nil {
		return
	}
	switch te.Kind {
	case ast.TypeExprName:
		entry, ok := r.table.LookupType(te.Name)
		if !ok {
			r.notFound(te.Span, "type", te.Name)
			return
		}
		te.Decl = entry.Decl
	default:
		r.resolveType(te.Elem)
	}
}

func (r *resolver) resolveExpr(id ast.ExprID) {
	expr := r.b.Exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := r.b.Exprs.Ident(id)
		entry, ok := r.table.LookupValueFunc(data.Name, r.visible)
		if !ok {
			r.notFound(expr.Span, "value", data.Name)
			return
		}
		data.Decl = entry.Decl

	case ast.ExprLit:

	case ast.ExprBinary:
		data, _ := r.b.Exprs.Binary(id)
		r.resolveExpr(data.Left)
		r.resolveExpr(data.Right)

	case ast.ExprUnary:
		data, _ := r.b.Exprs.Unary(id)
		r.resolveExpr(data.Operand)

	case ast.ExprRef:
		data, _ := r.b.Exprs.Ref(id)
		r.resolveExpr(data.Value)

	case ast.ExprDeref:
		data, _ := r.b.Exprs.Deref(id)
		r.resolveExpr(data.Value)

	case ast.ExprCall:
		data, _ := r.b.Exprs.Call(id)
		r.resolveCallee(data)
		for _, arg := range data.Args {
			r.resolveExpr(arg)
		}

	case ast.ExprIndex:
		data, _ := r.b.Exprs.Index(id)
		r.resolveExpr(data.Target)
		r.resolveExpr(data.Index)

	case ast.ExprField:
		// member names are resolved against the target type downstream
		data, _ := r.b.Exprs.Field(id)
		r.resolveExpr(data.Target)

	case ast.ExprArray:
		data, _ := r.b.Exprs.Array(id)
		r.resolveType(data.ElemType)
		for _, el := range data.Elems {
			r.resolveExpr(el)
		}

	case ast.ExprCast:
		data, _ := r.b.Exprs.Cast(id)
		r.resolveExpr(data.Value)
		r.resolveType(data.Type)

	case ast.ExprBlock:
		data, _ := r.b.Exprs.Block(id)
		leave := r.enter(data.Scope, expr.Span)
		r.resolveStmts(data.Stmts)
		leave()

	case ast.ExprIf:
		data, _ := r.b.Exprs.If(id)
		r.resolveExpr(data.Cond)
		r.resolveExpr(data.Then)
		for _, arm := range data.Arms {
			r.resolveExpr(arm.Cond)
			r.resolveExpr(arm.Body)
		}

	case ast.ExprWhile:
		data, _ := r.b.Exprs.While(id)
		r.resolveExpr(data.Cond)
		r.resolveExpr(data.Body)

	case ast.ExprFor:
		data, _ := r.b.Exprs.For(id)
		r.resolveExpr(data.Iter)
		leave := r.enter(data.Scope, expr.Span)
		r.passed[data.Decl] = true
		r.resolveExpr(data.Body)
		leave()
	}
}

// resolveCallee binds a named callee to the innermost visible value and
// records every function candidate; overload selection happens later.
func (r *resolver) resolveCallee(call *ast.ExprCallData) {
	ident, ok := r.b.Exprs.Ident(call.Callee)
	if !ok {
		r.resolveExpr(call.Callee)
		return
	}
	candidates := r.table.LookupFunctionCandidates(ident.Name)
	call.Candidates = call.Candidates[:0]
	for _, c := range candidates {
		call.Candidates = append(call.Candidates, c.Decl)
	}
	if entry, found := r.table.LookupValueFunc(ident.Name, r.visible); found {
		ident.Decl = entry.Decl
		return
	}
	r.notFound(r.b.Exprs.Get(call.Callee).Span, "function", ident.Name)
}
