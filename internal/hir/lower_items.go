package hir

import (
	"soul/internal/ast"
	"soul/internal/types"
)

// lowerTopLevel dispatches one root statement. Only declarations may appear
// at global scope; executable statements are rejected.
func (l *lowerer) lowerTopLevel(id ast.StmtID) {
	stmt := l.b.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtVar:
		data, _ := l.b.Stmts.Var(id)
		local, st := l.lowerVar(data, stmt)
		if data.Decl.IsValid() {
			l.m.addItem(&Item{
				Kind:   ItemGlobal,
				Decl:   data.Decl,
				Name:   l.name(data.Name),
				Span:   stmt.Span,
				Global: &Global{Local: local, Stmt: st},
			})
		}
	case ast.StmtFunc, ast.StmtTypeDecl, ast.StmtImpl:
		l.lowerItemStmt(id, ast.NoDeclID)
	case ast.StmtAssign:
		l.invalidContext(stmt.Span, "assignment is not allowed at global scope")
	case ast.StmtExpr:
		l.invalidContext(stmt.Span, "expression statement is not allowed at global scope")
	default:
		l.invalidContext(stmt.Span, "'%s' is not allowed at global scope", stmt.Kind)
	}
}

// lowerItemStmt lowers function, type and impl declarations wherever they
// appear. Local state of an enclosing function is saved and restored.
func (l *lowerer) lowerItemStmt(id ast.StmtID, owner ast.DeclID) ast.DeclID {
	stmt := l.b.Stmts.Get(id)
	switch stmt.Kind {
	case ast.StmtFunc:
		return l.lowerFunc(id, owner)
	case ast.StmtTypeDecl:
		return l.lowerTypeDecl(id)
	case ast.StmtImpl:
		l.lowerImpl(id)
	}
	return ast.NoDeclID
}

func (l *lowerer) lowerFunc(id ast.StmtID, owner ast.DeclID) ast.DeclID {
	stmt := l.b.Stmts.Get(id)
	data, _ := l.b.Stmts.Func(id)

	savedScopes := l.scopes
	l.scopes = nil
	l.pushLocals()

	fn := &Func{Owner: owner, Result: l.lowerType(data.Result)}
	if !data.Result.IsValid() {
		fn.Result = l.m.Types.Builtins().Unit
	}
	paramTypes := make([]types.TypeID, 0, len(data.Params))
	for _, p := range data.Params {
		typ := l.lowerType(p.Type)
		local := l.m.newLocal(Local{
			Name:     l.name(p.Name),
			Decl:     p.Decl,
			Type:     typ,
			Modifier: p.Modifier,
		}, p.Span)
		l.bindLocal(p.Name, p.Decl, local)
		fn.Params = append(fn.Params, Param{Local: local, Decl: p.Decl, Type: typ})
		paramTypes = append(paramTypes, typ)
	}
	fn.Type = l.m.Types.RegisterFn(paramTypes, fn.Result)

	// register before the body so recursive calls see the item
	if data.Decl.IsValid() {
		l.m.addItem(&Item{Kind: ItemFunc, Decl: data.Decl, Name: l.name(data.Name), Span: stmt.Span, Func: fn})
	}
	if data.Body.IsValid() {
		fn.Body = l.lowerBlock(data.Body)
	}

	l.scopes = savedScopes
	return data.Decl
}

func (l *lowerer) lowerTypeDecl(id ast.StmtID) ast.DeclID {
	stmt := l.b.Stmts.Get(id)
	data, _ := l.b.Stmts.TypeDecl(id)
	if !data.Decl.IsValid() {
		return ast.NoDeclID
	}
	item := &TypeItem{
		Kind: data.Kind,
		Type: l.m.Types.RegisterNamed(data.Decl, l.name(data.Name)),
	}
	for _, f := range data.Fields {
		item.Fields = append(item.Fields, FieldDef{Decl: f.Decl, Name: l.name(f.Name), Type: l.lowerType(f.Type)})
	}
	for _, v := range data.Variants {
		item.Variants = append(item.Variants, FieldDef{Decl: v.Decl, Name: l.name(v.Name), Type: l.lowerType(v.Type)})
	}
	l.m.addItem(&Item{Kind: ItemType, Decl: data.Decl, Name: l.name(data.Name), Span: stmt.Span, Type: item})
	for _, mid := range data.Methods {
		if decl := l.lowerMethod(mid, data.Decl); decl.IsValid() {
			item.Methods = append(item.Methods, decl)
		}
	}
	return data.Decl
}

func (l *lowerer) lowerImpl(id ast.StmtID) {
	stmt := l.b.Stmts.Get(id)
	data, _ := l.b.Stmts.Impl(id)
	impl := Impl{Target: l.lowerType(data.Target), Span: stmt.Span}
	var targetDecl ast.DeclID
	if te := l.b.Types.Get(data.Target); te != nil {
		targetDecl = te.Decl
	}
	if te := l.b.Types.Get(data.Trait); te != nil {
		impl.Trait = te.Decl
	}
	for _, mid := range data.Methods {
		if decl := l.lowerMethod(mid, targetDecl); decl.IsValid() {
			impl.Methods = append(impl.Methods, decl)
		}
	}
	l.m.Impls = append(l.m.Impls, impl)
}

func (l *lowerer) lowerMethod(id ast.StmtID, owner ast.DeclID) ast.DeclID {
	stmt := l.b.Stmts.Get(id)
	if stmt == nil {
		return ast.NoDeclID
	}
	if stmt.Kind != ast.StmtFunc {
		l.invalidContext(stmt.Span, "only functions may appear in a type or impl body, found '%s'", stmt.Kind)
		return ast.NoDeclID
	}
	return l.lowerFunc(id, owner)
}
