package testkit

import (
	"fmt"

	"soul/internal/ast"
	"soul/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a syntax tree:
// 1) every statement and expression span is non-empty
// 2) every child expression span lies inside its parent's span
// 3) scope slots are either unrecorded or recorded consistently by kind
func CheckSpanInvariants(b *ast.Builder) error {
	if b == nil {
		return fmt.Errorf("nil builder")
	}
	c := spanChecker{b: b}
	for _, id := range b.Root {
		if err := c.stmt(id, source.Span{}); err != nil {
			return err
		}
	}
	return nil
}

type spanChecker struct {
	b *ast.Builder
}

func (c spanChecker) stmt(id ast.StmtID, parent source.Span) error {
	st := c.b.Stmts.Get(id)
	if st == nil {
		return fmt.Errorf("nil stmt for id=%d", id)
	}
	if st.Span.End <= st.Span.Start {
		return fmt.Errorf("empty %s stmt span: %v", st.Kind, st.Span)
	}
	if !st.Span.Within(parent) {
		return fmt.Errorf("%s stmt span %v is outside parent span %v", st.Kind, st.Span, parent)
	}
	var exprs []ast.ExprID
	var stmts []ast.StmtID
	switch st.Kind {
	case ast.StmtVar:
		d, _ := c.b.Stmts.Var(id)
		exprs = append(exprs, d.Value)
	case ast.StmtAssign:
		d, _ := c.b.Stmts.Assign(id)
		exprs = append(exprs, d.Target, d.Value)
	case ast.StmtFunc:
		d, _ := c.b.Stmts.Func(id)
		exprs = append(exprs, d.Body)
	case ast.StmtTypeDecl:
		d, _ := c.b.Stmts.TypeDecl(id)
		stmts = d.Methods
	case ast.StmtImpl:
		d, _ := c.b.Stmts.Impl(id)
		stmts = d.Methods
	case ast.StmtExpr:
		d, _ := c.b.Stmts.Expr(id)
		exprs = append(exprs, d.Expr)
	case ast.StmtReturn, ast.StmtBreak, ast.StmtContinue:
		d, _ := c.b.Stmts.Jump(id)
		exprs = append(exprs, d.Value)
	}
	for _, e := range exprs {
		if err := c.expr(e, st.Span); err != nil {
			return err
		}
	}
	for _, s := range stmts {
		if err := c.stmt(s, st.Span); err != nil {
			return err
		}
	}
	return nil
}

func (c spanChecker) expr(id ast.ExprID, parent source.Span) error {
	if !id.IsValid() {
		return nil
	}
	e := c.b.Exprs.Get(id)
	if e == nil {
		return fmt.Errorf("nil expr for id=%d", id)
	}
	if e.Span.End <= e.Span.Start {
		return fmt.Errorf("empty %s expr span: %v", e.Kind, e.Span)
	}
	if !e.Span.Within(parent) {
		return fmt.Errorf("%s expr span %v is outside parent span %v", e.Kind, e.Span, parent)
	}
	var exprs []ast.ExprID
	var stmts []ast.StmtID
	switch e.Kind {
	case ast.ExprBinary:
		d, _ := c.b.Exprs.Binary(id)
		exprs = append(exprs, d.Left, d.Right)
	case ast.ExprUnary:
		d, _ := c.b.Exprs.Unary(id)
		exprs = append(exprs, d.Operand)
	case ast.ExprRef:
		d, _ := c.b.Exprs.Ref(id)
		exprs = append(exprs, d.Value)
	case ast.ExprDeref:
		d, _ := c.b.Exprs.Deref(id)
		exprs = append(exprs, d.Value)
	case ast.ExprCall:
		d, _ := c.b.Exprs.Call(id)
		exprs = append(append(exprs, d.Callee), d.Args...)
	case ast.ExprIndex:
		d, _ := c.b.Exprs.Index(id)
		exprs = append(exprs, d.Target, d.Index)
	case ast.ExprField:
		d, _ := c.b.Exprs.Field(id)
		exprs = append(exprs, d.Target)
	case ast.ExprArray:
		d, _ := c.b.Exprs.Array(id)
		exprs = append(exprs, d.Elems...)
	case ast.ExprCast:
		d, _ := c.b.Exprs.Cast(id)
		exprs = append(exprs, d.Value)
	case ast.ExprBlock:
		d, _ := c.b.Exprs.Block(id)
		stmts = d.Stmts
	case ast.ExprIf:
		d, _ := c.b.Exprs.If(id)
		exprs = append(exprs, d.Cond, d.Then)
		for _, arm := range d.Arms {
			exprs = append(exprs, arm.Cond, arm.Body)
		}
	case ast.ExprWhile:
		d, _ := c.b.Exprs.While(id)
		exprs = append(exprs, d.Cond, d.Body)
	case ast.ExprFor:
		d, _ := c.b.Exprs.For(id)
		exprs = append(exprs, d.Iter, d.Body)
	}
	for _, ch := range exprs {
		if err := c.expr(ch, e.Span); err != nil {
			return err
		}
	}
	for _, s := range stmts {
		if err := c.stmt(s, e.Span); err != nil {
			return err
		}
	}
	return nil
}
