package sema

import (
	"fmt"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/hir"
	"soul/internal/source"
	"soul/internal/types"
)

// inferExpr types id and records the result.
func (c *checker) inferExpr(id hir.ExprID) types.TypeID {
	e := c.m.Expr(id)
	if e == nil {
		return c.errorType()
	}
	span := c.m.ExprSpan(id)
	var t types.TypeID
	switch e.Kind {
	case hir.ExprError:
		t = c.errorType()
	case hir.ExprLit:
		t = c.inferLiteral(e.Lit, span)
	case hir.ExprLoad:
		t = c.inferPlace(e.Place, span)
	case hir.ExprFuncRef:
		t = c.funcType(e.Decl)
	case hir.ExprBinary:
		t = c.inferBinary(e, span)
	case hir.ExprUnary:
		t = c.inferUnary(e, span)
	case hir.ExprRef:
		inner := c.in.Unqualified(c.env.resolveID(c.inferPlace(e.Place, span)))
		t = c.in.Intern(types.MakeReference(inner, e.Mut))
	case hir.ExprCall:
		t = c.inferCall(e, span)
	case hir.ExprCast:
		t = c.inferCast(e, span)
	case hir.ExprBlock:
		t, _ = c.inferBlock(e.Block)
	case hir.ExprIf:
		t = c.inferIf(e.If)
	case hir.ExprWhile:
		if e.Cond.IsValid() {
			c.expectBool(e.Cond)
		}
		c.inferBlock(e.Block)
		t = c.in.Builtins().Unit
	case hir.ExprFor:
		c.inferFor(e.For, span)
		t = c.in.Builtins().Unit
	case hir.ExprStackArray:
		elem := e.Type
		if elem == types.NoTypeID {
			elem = c.env.fresh(span)
		}
		t = c.in.Intern(types.MakeArray(elem, e.Len))
	default:
		diag.ReportInternal(c.reporter, span, "unexpected expression kind %s", e.Kind)
		t = c.errorType()
	}
	c.exprTypes[id] = t
	return t
}

func (c *checker) inferLiteral(lit *hir.Literal, span source.Span) types.TypeID {
	b := c.in.Builtins()
	if lit == nil {
		return b.Error
	}
	switch lit.Kind {
	case ast.ExprLitInt:
		return c.env.allocLiteral(types.KindUntypedInt, span)
	case ast.ExprLitUint:
		return c.env.allocLiteral(types.KindUntypedUint, span)
	case ast.ExprLitFloat:
		return c.env.allocLiteral(types.KindUntypedFloat, span)
	case ast.ExprLitTrue, ast.ExprLitFalse:
		return b.Bool
	case ast.ExprLitString:
		return b.String
	case ast.ExprLitChar:
		return b.Char
	}
	return b.Error
}

func (c *checker) funcType(decl ast.DeclID) types.TypeID {
	if it, ok := c.m.Item(decl); ok && it.Func != nil {
		return it.Func.Type
	}
	return c.errorType()
}

func (c *checker) expectBool(cond hir.ExprID) {
	got := c.inferExpr(cond)
	c.unifyExpr(cond, c.in.Builtins().Bool, got, c.m.ExprSpan(cond))
}

type opClass uint8

const (
	opArith opClass = iota
	opCompare
	opEquality
	opLogical
	opBitwise
)

func classify(op ast.ExprBinaryOp) opClass {
	switch op {
	case ast.ExprBinaryLess, ast.ExprBinaryLessEq, ast.ExprBinaryGreater, ast.ExprBinaryGreaterEq:
		return opCompare
	case ast.ExprBinaryEq, ast.ExprBinaryNotEq:
		return opEquality
	case ast.ExprBinaryLogicalAnd, ast.ExprBinaryLogicalOr:
		return opLogical
	case ast.ExprBinaryBitAnd, ast.ExprBinaryBitOr, ast.ExprBinaryBitXor,
		ast.ExprBinaryShiftLeft, ast.ExprBinaryShiftRight:
		return opBitwise
	default:
		return opArith
	}
}

func (c *checker) inferBinary(e *hir.Expr, span source.Span) types.TypeID {
	b := c.in.Builtins()
	left := c.inferExpr(e.Left)
	right := c.inferExpr(e.Right)

	switch classify(e.Op) {
	case opLogical:
		c.unifyExpr(e.Left, b.Bool, left, c.m.ExprSpan(e.Left))
		c.unifyExpr(e.Right, b.Bool, right, c.m.ExprSpan(e.Right))
		return b.Bool
	case opEquality:
		c.unifyExpr(e.Right, c.in.Unqualified(left), c.in.Unqualified(right), span)
		return b.Bool
	case opCompare:
		if c.unify(c.in.Unqualified(left), c.in.Unqualified(right), span) != UnifyMismatch {
			c.requireOperand(e.Left, left, e.Op, types.Kind.IsNumeric, "numbers")
		}
		return b.Bool
	}

	pred, what := types.Kind.IsNumeric, "numbers"
	if classify(e.Op) == opBitwise {
		pred, what = types.Kind.IsInteger, "integers"
	}
	if c.unify(c.in.Unqualified(left), c.in.Unqualified(right), span) == UnifyMismatch {
		return b.Error
	}
	if !c.requireOperand(e.Left, left, e.Op, pred, what) {
		return b.Error
	}
	l, r := c.env.resolveID(left), c.env.resolveID(right)
	if c.in.Kind(l) == types.KindError || c.in.Kind(r) == types.KindError {
		return b.Error
	}
	return c.in.Unqualified(c.in.Wider(l, r))
}

// requireOperand checks an operand against an operator's domain.
func (c *checker) requireOperand(operand hir.ExprID, t types.TypeID, op fmt.Stringer, pred func(types.Kind) bool, what string) bool {
	if c.isKind(t, pred) {
		return true
	}
	diag.ReportError(c.reporter, diag.SemaUnifyTypeError, c.m.ExprSpan(operand),
		fmt.Sprintf("operator '%s' needs %s, found '%s'", op, what, c.env.Label(t))).Emit()
	return false
}

func (c *checker) inferUnary(e *hir.Expr, span source.Span) types.TypeID {
	operand := c.inferExpr(e.Operand)
	switch e.UnaryOp {
	case ast.ExprUnaryNot:
		c.unifyExpr(e.Operand, c.in.Builtins().Bool, operand, span)
		return c.in.Builtins().Bool
	case ast.ExprUnaryNeg:
		if !c.requireOperand(e.Operand, operand, e.UnaryOp, types.Kind.IsNumeric, "numbers") {
			return c.errorType()
		}
		// negation turns an unsigned literal into a signed one
		if c.env.isLiteral(operand) {
			signed := c.env.allocLiteral(types.KindUntypedInt, span)
			c.unify(signed, operand, span)
			return signed
		}
		return c.in.Unqualified(operand)
	}
	return c.errorType()
}

// inferCall checks arity and unifies each argument with its parameter.
func (c *checker) inferCall(e *hir.Expr, span source.Span) types.TypeID {
	callee := c.env.resolveID(c.inferExpr(e.Callee))
	args := make([]types.TypeID, len(e.Args))
	for i, a := range e.Args {
		args[i] = c.inferExpr(a)
	}

	switch c.in.Kind(callee) {
	case types.KindError:
		return c.errorType()
	case types.KindVar:
		ret := c.env.fresh(span)
		c.unify(callee, c.in.RegisterFn(args, ret), span)
		return ret
	case types.KindFn:
	default:
		diag.ReportError(c.reporter, diag.SemaUnifyTypeError, c.m.ExprSpan(e.Callee),
			fmt.Sprintf("cannot call a value of type '%s'", c.env.Label(callee))).Emit()
		return c.errorType()
	}

	info, _ := c.in.FnInfo(callee)
	if len(info.Params) != len(e.Args) {
		diag.ReportError(c.reporter, diag.SemaInvalidContext, span,
			fmt.Sprintf("call has %d arguments but the function expects %d", len(e.Args), len(info.Params))).Emit()
		return info.Result
	}
	for i, a := range e.Args {
		c.unifyExpr(a, info.Params[i], args[i], c.m.ExprSpan(a))
	}
	return info.Result
}

func (c *checker) inferCast(e *hir.Expr, span source.Span) types.TypeID {
	from := c.env.resolveID(c.inferExpr(e.Operand))
	to := e.Type
	if to == types.NoTypeID {
		return c.errorType()
	}
	fromKind, toKind := c.in.Kind(from), c.in.Kind(to)
	switch {
	case fromKind == types.KindError || toKind == types.KindError:
	case c.isKind(from, types.Kind.IsNumeric) && toKind.IsNumeric():
	case fromKind == types.KindVar:
		c.unify(to, from, span)
	case c.in.Unqualified(from) == c.in.Unqualified(to):
	default:
		diag.ReportError(c.reporter, diag.SemaUnifyTypeError, span,
			fmt.Sprintf("cannot cast '%s' to '%s'", c.env.Label(from), c.env.Label(to))).Emit()
	}
	return to
}

// inferIf types every branch. With a final else the branches must agree and
// the chain has their type. Without one the chain is unit and so must be
// every branch tail.
func (c *checker) inferIf(chain *hir.If) types.TypeID {
	if chain == nil {
		return c.errorType()
	}
	var first types.TypeID
	hasElse := false
	for i, br := range chain.Branches() {
		if br.Cond.IsValid() {
			c.expectBool(br.Cond)
		} else {
			hasElse = true
		}
		t, diverges := c.inferBlock(br.Body)
		if diverges && !c.hasTail(br.Body) {
			continue
		}
		if i == 0 || first == types.NoTypeID {
			first = t
			continue
		}
		if tail := c.m.Block(br.Body).Tail; tail.IsValid() {
			c.unifyExpr(tail, first, t, c.m.ExprSpan(tail))
		} else {
			c.unify(first, t, c.m.Spans.Blocks[br.Body])
		}
	}
	unit := c.in.Builtins().Unit
	if !hasElse {
		for _, br := range chain.Branches() {
			if tail := c.m.Block(br.Body).Tail; tail.IsValid() {
				c.unifyExpr(tail, unit, c.exprTypes[tail], c.m.ExprSpan(tail))
			}
		}
		return unit
	}
	if first == types.NoTypeID {
		return unit
	}
	return first
}

func (c *checker) hasTail(id hir.BlockID) bool {
	b := c.m.Block(id)
	return b != nil && b.Tail.IsValid()
}

// inferFor binds the loop variable to the iterated element type. Anything
// but an array is left as the error type until iteration is defined.
func (c *checker) inferFor(f *hir.For, span source.Span) {
	iter := c.env.resolveID(c.inferExpr(f.Iter))
	elem := c.errorType()
	tt, _ := c.in.Lookup(iter)
	if tt.Kind == types.KindReference {
		tt, _ = c.in.Lookup(c.env.resolveID(tt.Elem))
	}
	if tt.Kind == types.KindArray {
		elem = tt.Elem
	}
	c.unify(c.localTypes[f.Binding], elem, span)
	c.inferBlock(f.Body)
}
