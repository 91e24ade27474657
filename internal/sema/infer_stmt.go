package sema

import (
	"fmt"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/hir"
	"soul/internal/source"
	"soul/internal/types"
)

func (c *checker) inferGlobal(id hir.StmtID) {
	st := c.m.Stmt(id)
	if st == nil {
		return
	}
	if st.Kind == hir.StmtLet {
		if l := c.m.Local(st.Local); l != nil && l.Modifier == ast.ModMut && c.m.Attrs.Locals[st.Local]&hir.AttrSynthetic == 0 {
			diag.ReportError(c.reporter, diag.SemaInvalidContext, c.m.StmtSpan(id),
				fmt.Sprintf("global '%s' cannot be 'mut'", l.Name)).Emit()
		}
	}
	c.inferStmt(id)
}

// inferBlock types every statement and returns the tail's type, or unit.
// diverges is set when the block ends control flow with a jump.
func (c *checker) inferBlock(id hir.BlockID) (types.TypeID, bool) {
	b := c.m.Block(id)
	if b == nil {
		return c.errorType(), false
	}
	diverges := false
	for _, sid := range b.Stmts {
		c.inferStmt(sid)
		switch c.m.Stmt(sid).Kind {
		case hir.StmtReturn, hir.StmtBreak, hir.StmtContinue:
			diverges = true
		}
	}
	if b.Tail.IsValid() {
		return c.inferExpr(b.Tail), diverges
	}
	return c.in.Builtins().Unit, diverges
}

func (c *checker) inferStmt(id hir.StmtID) {
	st := c.m.Stmt(id)
	if st == nil {
		return
	}
	span := c.m.StmtSpan(id)
	switch st.Kind {
	case hir.StmtLet:
		if !st.Value.IsValid() {
			return
		}
		got := c.inferExpr(st.Value)
		c.unifyExpr(st.Value, c.localType(st.Local), got, c.m.ExprSpan(st.Value))
	case hir.StmtAssign:
		expect := c.inferPlace(st.Place, span)
		got := c.inferExpr(st.Value)
		c.unifyExpr(st.Value, expect, got, c.m.ExprSpan(st.Value))
	case hir.StmtExpr:
		c.inferExpr(st.Value)
	case hir.StmtReturn:
		got := c.in.Builtins().Unit
		if st.Value.IsValid() {
			got = c.inferExpr(st.Value)
		}
		if c.result != types.NoTypeID {
			c.unifyExpr(st.Value, c.result, got, span)
		}
	case hir.StmtBreak:
		if st.Value.IsValid() {
			c.inferExpr(st.Value)
		}
	case hir.StmtContinue:
	}
}

// localType returns the binding type of a local as seen by readers: its
// slot type qualified with the declared modifier.
func (c *checker) localType(id hir.LocalID) types.TypeID {
	t, ok := c.localTypes[id]
	if !ok {
		diag.ReportInternal(c.reporter, c.m.LocalSpan(id), "local %d was never seeded", id)
		return c.errorType()
	}
	if l := c.m.Local(id); l != nil && l.Modifier != ast.ModDefault {
		t = c.in.WithModifier(t, l.Modifier)
	}
	return t
}

func (c *checker) inferPlace(p *hir.Place, span source.Span) types.TypeID {
	if p == nil {
		return c.errorType()
	}
	switch p.Kind {
	case hir.PlaceLocal:
		return c.localType(p.Local)
	case hir.PlaceIndex:
		base := c.inferPlace(p.Base, span)
		idx := c.inferExpr(p.Index)
		if !c.isKind(idx, types.Kind.IsInteger) {
			diag.ReportError(c.reporter, diag.SemaUnifyTypeError, c.m.ExprSpan(p.Index),
				fmt.Sprintf("index must be an integer, found '%s'", c.env.Label(idx))).Emit()
		}
		return c.elemOf(base, span, "index")
	case hir.PlaceDeref:
		base := c.env.resolveID(c.inferPlace(p.Base, span))
		tt, _ := c.in.Lookup(base)
		switch tt.Kind {
		case types.KindReference, types.KindPointer:
			return tt.Elem
		case types.KindError:
			return base
		case types.KindVar:
			return c.env.fresh(span)
		}
		diag.ReportError(c.reporter, diag.SemaUnifyTypeError, span,
			fmt.Sprintf("cannot dereference '%s'", c.env.Label(base))).Emit()
		return c.errorType()
	case hir.PlaceField:
		return c.fieldOf(c.inferPlace(p.Base, span), p.Field, span)
	}
	return c.errorType()
}

// elemOf returns the element type of an array, looking through one reference.
func (c *checker) elemOf(base types.TypeID, span source.Span, what string) types.TypeID {
	base = c.env.resolveID(base)
	tt, _ := c.in.Lookup(base)
	if tt.Kind == types.KindReference {
		base = c.env.resolveID(tt.Elem)
		tt, _ = c.in.Lookup(base)
	}
	switch tt.Kind {
	case types.KindArray:
		return tt.Elem
	case types.KindError:
		return base
	case types.KindVar:
		return c.env.fresh(span)
	}
	diag.ReportError(c.reporter, diag.SemaUnifyTypeError, span,
		fmt.Sprintf("cannot %s '%s': not an array", what, c.env.Label(base))).Emit()
	return c.errorType()
}

func (c *checker) fieldOf(base types.TypeID, name string, span source.Span) types.TypeID {
	base = c.env.resolveID(base)
	tt, _ := c.in.Lookup(base)
	if tt.Kind == types.KindReference {
		base = c.env.resolveID(tt.Elem)
		tt, _ = c.in.Lookup(base)
	}
	switch tt.Kind {
	case types.KindError:
		return base
	case types.KindVar:
		return c.env.fresh(span)
	case types.KindNamed:
		if it, ok := c.m.Item(tt.Decl); ok && it.Type != nil {
			for _, f := range it.Type.Fields {
				if f.Name == name {
					return f.Type
				}
			}
		}
		diag.ReportError(c.reporter, diag.SemaNotFoundInScope, span,
			fmt.Sprintf("type '%s' has no field '%s'", c.env.Label(base), name)).Emit()
		return c.errorType()
	}
	diag.ReportError(c.reporter, diag.SemaUnifyTypeError, span,
		fmt.Sprintf("'%s' has no fields", c.env.Label(base))).Emit()
	return c.errorType()
}

// isKind applies pred to the resolved kind of id. Unresolved variables and
// the error type pass; literal variables count as numbers.
func (c *checker) isKind(id types.TypeID, pred func(types.Kind) bool) bool {
	r := c.env.resolveID(id)
	if v := c.env.varOf(r); v != NoVarID {
		if lit, ok := c.env.literal[v]; ok {
			return pred(lit)
		}
		return true
	}
	k := c.in.Kind(r)
	return k == types.KindError || pred(k)
}
