package symbols

import (
	"soul/internal/ast"
	"soul/internal/source"
)

// PrimitiveNames lists the builtin type names bound in every root scope.
var PrimitiveNames = []string{
	"int", "i8", "i16", "i32", "i64",
	"uint", "u8", "u16", "u32", "u64",
	"f32", "f64",
	"bool", "char", "str", "none",
}

func (t *Table) installPrelude() {
	for _, name := range PrimitiveNames {
		id := t.Strings.Intern(name)
		decl := t.Decls.New(Decl{
			Kind:    DeclType,
			Name:    id,
			Scope:   ast.RootScopeID,
			Builtin: true,
		})
		t.scopes[ast.RootScopeID].Types[id] = Entry{Decl: decl, Kind: DeclType, Span: source.Span{}}
	}
}

// IsBuiltin reports whether decl is one of the prelude types.
func (t *Table) IsBuiltin(decl ast.DeclID) bool {
	d := t.Decls.Get(decl)
	return d != nil && d.Builtin
}
