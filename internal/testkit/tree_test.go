package testkit

import (
	"testing"

	"soul/internal/ast"
)

func TestTreeSpansNest(t *testing.T) {
	tr := NewTree()
	b := tr.Root(
		tr.Let("x", tr.Int("42")),
		tr.Func("main", nil, ast.NoTypeID,
			tr.Do(tr.If(tr.Bool(true), tr.Block(), tr.ElseIf(tr.Bool(false)), tr.Else())),
			tr.Tail(tr.Bin(ast.ExprBinaryAdd, tr.Ident("x"), tr.Array(tr.Int("1"), tr.Int("2")))),
		),
	)
	if err := CheckSpanInvariants(b); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}

func TestCheckSpanInvariantsRejectsEmptySpan(t *testing.T) {
	tr := NewTree()
	bad := tr.B.Exprs.NewIdent(tr.B.Exprs.Get(tr.Int("1")).Span, tr.B.Name("y"))
	tr.B.Exprs.Get(bad).Span.End = tr.B.Exprs.Get(bad).Span.Start
	b := tr.Root(tr.B.Stmts.NewExpr(tr.next(), bad, true))
	if err := CheckSpanInvariants(b); err == nil {
		t.Fatalf("expected empty span to be rejected")
	}
}
