package hir

import (
	"soul/internal/ast"
	"soul/internal/symbols"
	"soul/internal/types"
)

// lowerType converts type syntax to an interned type. Unresolved names
// become the error type; the resolver has already reported them.
func (l *lowerer) lowerType(id ast.TypeID) types.TypeID {
	if !id.IsValid() {
		return types.NoTypeID
	}
	te := l.b.Types.Get(id)
	if te == nil {
		return types.NoTypeID
	}
	in := l.m.Types
	var out types.TypeID
	switch te.Kind {
	case ast.TypeExprName:
		out = l.namedType(te)
	case ast.TypeExprArray:
		elem := l.lowerType(te.Elem)
		if te.Len == ast.ArrayNoLen {
			out = in.Intern(types.MakeSlice(elem))
		} else {
			out = in.Intern(types.MakeArray(elem, te.Len))
		}
	case ast.TypeExprRef:
		out = in.Intern(types.MakeReference(l.lowerType(te.Elem), te.Mut))
	case ast.TypeExprPointer:
		out = in.Intern(types.MakePointer(l.lowerType(te.Elem)))
	case ast.TypeExprOptional:
		out = in.Intern(types.MakeOptional(l.lowerType(te.Elem)))
	default:
		out = in.Builtins().Error
	}
	return in.WithModifier(out, te.Modifier)
}

func (l *lowerer) namedType(te *ast.TypeExpr) types.TypeID {
	in := l.m.Types
	decl := l.decls.Get(te.Decl)
	if decl == nil || decl.Kind != symbols.DeclType {
		return in.Builtins().Error
	}
	name := l.name(decl.Name)
	if decl.Builtin {
		if id, ok := in.Primitive(name); ok {
			return id
		}
		return in.Builtins().Error
	}
	return in.RegisterNamed(te.Decl, name)
}
