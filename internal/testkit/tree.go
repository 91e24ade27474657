package testkit

import (
	"strings"

	"soul/internal/ast"
	"soul/internal/source"
)

// Tree builds syntax trees for tests. Every node gets a distinct span in a
// single virtual file and composite nodes cover their children.
type Tree struct {
	B    *ast.Builder
	File source.FileID
	off  uint32
}

// NewTree returns a tree over a fresh builder.
func NewTree() *Tree {
	return &Tree{B: ast.NewBuilder(ast.Hints{}, nil), File: 1}
}

func (t *Tree) next() source.Span {
	sp := source.Span{File: t.File, Start: t.off, End: t.off + 1}
	t.off += 2
	return sp
}

func (t *Tree) cover(spans ...source.Span) source.Span {
	out := t.next()
	for _, sp := range spans {
		out = out.Cover(sp)
	}
	return out
}

func (t *Tree) exprSpan(id ast.ExprID) source.Span {
	if e := t.B.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

func (t *Tree) stmtSpan(id ast.StmtID) source.Span {
	if s := t.B.Stmts.Get(id); s != nil {
		return s.Span
	}
	return source.Span{}
}

func (t *Tree) exprSpans(ids []ast.ExprID) []source.Span {
	out := make([]source.Span, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.exprSpan(id))
	}
	return out
}

func (t *Tree) stmtSpans(ids []ast.StmtID) []source.Span {
	out := make([]source.Span, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.stmtSpan(id))
	}
	return out
}

// Root appends statements to the unit's top level.
func (t *Tree) Root(stmts ...ast.StmtID) *ast.Builder {
	t.B.PushRoot(stmts...)
	return t.B
}

// --- types ---

func (t *Tree) TypeName(name string) ast.TypeID {
	return t.B.Types.NewName(t.next(), t.B.Name(name), ast.ModDefault)
}

func (t *Tree) ArrayType(elem ast.TypeID, n uint32) ast.TypeID {
	return t.B.Types.NewArray(t.next(), elem, n)
}

func (t *Tree) RefType(elem ast.TypeID, mut bool) ast.TypeID {
	return t.B.Types.NewRef(t.next(), elem, mut)
}

// --- expressions ---

func (t *Tree) Ident(name string) ast.ExprID {
	return t.B.Exprs.NewIdent(t.next(), t.B.Name(name))
}

// Int builds an integer literal; like the lexer, only negative literals are signed.
func (t *Tree) Int(text string) ast.ExprID {
	kind := ast.ExprLitUint
	if strings.HasPrefix(text, "-") {
		kind = ast.ExprLitInt
	}
	return t.B.Exprs.NewLiteral(t.next(), kind, t.B.Name(text))
}

func (t *Tree) Float(text string) ast.ExprID {
	return t.B.Exprs.NewLiteral(t.next(), ast.ExprLitFloat, t.B.Name(text))
}

func (t *Tree) Bool(v bool) ast.ExprID {
	if v {
		return t.B.Exprs.NewLiteral(t.next(), ast.ExprLitTrue, t.B.Name("true"))
	}
	return t.B.Exprs.NewLiteral(t.next(), ast.ExprLitFalse, t.B.Name("false"))
}

func (t *Tree) Str(text string) ast.ExprID {
	return t.B.Exprs.NewLiteral(t.next(), ast.ExprLitString, t.B.Name(text))
}

func (t *Tree) Bin(op ast.ExprBinaryOp, l, r ast.ExprID) ast.ExprID {
	return t.B.Exprs.NewBinary(t.cover(t.exprSpan(l), t.exprSpan(r)), op, l, r)
}

func (t *Tree) Not(e ast.ExprID) ast.ExprID {
	return t.B.Exprs.NewUnary(t.cover(t.exprSpan(e)), ast.ExprUnaryNot, e)
}

func (t *Tree) Ref(e ast.ExprID, mut bool) ast.ExprID {
	return t.B.Exprs.NewRef(t.cover(t.exprSpan(e)), mut, e)
}

func (t *Tree) Deref(e ast.ExprID) ast.ExprID {
	return t.B.Exprs.NewDeref(t.cover(t.exprSpan(e)), e)
}

func (t *Tree) Call(callee string, args ...ast.ExprID) ast.ExprID {
	c := t.Ident(callee)
	return t.B.Exprs.NewCall(t.cover(append(t.exprSpans(args), t.exprSpan(c))...), c, args)
}

func (t *Tree) Index(target, index ast.ExprID) ast.ExprID {
	return t.B.Exprs.NewIndex(t.cover(t.exprSpan(target), t.exprSpan(index)), target, index)
}

func (t *Tree) Field(target ast.ExprID, name string) ast.ExprID {
	return t.B.Exprs.NewField(t.cover(t.exprSpan(target)), target, t.B.Name(name))
}

func (t *Tree) Cast(value ast.ExprID, typ ast.TypeID) ast.ExprID {
	return t.B.Exprs.NewCast(t.cover(t.exprSpan(value)), value, typ)
}

func (t *Tree) Array(elems ...ast.ExprID) ast.ExprID {
	return t.B.Exprs.NewArray(t.cover(t.exprSpans(elems)...), ast.NoTypeID, elems)
}

func (t *Tree) Block(stmts ...ast.StmtID) ast.ExprID {
	return t.B.Exprs.NewBlock(t.cover(t.stmtSpans(stmts)...), stmts)
}

// ElseIf builds an `else if cond { body }` arm.
func (t *Tree) ElseIf(cond ast.ExprID, body ...ast.StmtID) ast.ElseArm {
	blk := t.Block(body...)
	return ast.ElseArm{Kind: ast.ElseIf, Cond: cond, Body: blk, Span: t.cover(t.exprSpan(cond), t.exprSpan(blk))}
}

// Else builds a plain `else { body }` arm.
func (t *Tree) Else(body ...ast.StmtID) ast.ElseArm {
	blk := t.Block(body...)
	return ast.ElseArm{Kind: ast.ElsePlain, Body: blk, Span: t.cover(t.exprSpan(blk))}
}

func (t *Tree) If(cond, then ast.ExprID, arms ...ast.ElseArm) ast.ExprID {
	spans := []source.Span{t.exprSpan(cond), t.exprSpan(then)}
	for _, a := range arms {
		spans = append(spans, a.Span)
	}
	return t.B.Exprs.NewIf(t.cover(spans...), cond, then, arms)
}

func (t *Tree) While(cond ast.ExprID, body ...ast.StmtID) ast.ExprID {
	blk := t.Block(body...)
	return t.B.Exprs.NewWhile(t.cover(t.exprSpan(cond), t.exprSpan(blk)), cond, blk)
}

func (t *Tree) For(binding string, iter ast.ExprID, body ...ast.StmtID) ast.ExprID {
	bindSpan := t.next()
	blk := t.Block(body...)
	return t.B.Exprs.NewFor(t.cover(bindSpan, t.exprSpan(iter), t.exprSpan(blk)), t.B.Name(binding), bindSpan, iter, blk)
}

// --- statements ---

// Let builds `name := value`.
func (t *Tree) Let(name string, value ast.ExprID) ast.StmtID {
	return t.LetT(name, ast.NoTypeID, value)
}

// LetT builds `name: typ = value`.
func (t *Tree) LetT(name string, typ ast.TypeID, value ast.ExprID) ast.StmtID {
	nameSpan := t.next()
	return t.B.Stmts.NewVar(t.cover(nameSpan, t.exprSpan(value)), nameSpan, t.B.Name(name), typ, value, ast.ModDefault)
}

// LetMut builds `mut name := value`.
func (t *Tree) LetMut(name string, value ast.ExprID) ast.StmtID {
	nameSpan := t.next()
	return t.B.Stmts.NewVar(t.cover(nameSpan, t.exprSpan(value)), nameSpan, t.B.Name(name), ast.NoTypeID, value, ast.ModMut)
}

// LetWith builds `mod name: typ = value`; typ may be NoTypeID.
func (t *Tree) LetWith(mod ast.Modifier, name string, typ ast.TypeID, value ast.ExprID) ast.StmtID {
	nameSpan := t.next()
	return t.B.Stmts.NewVar(t.cover(nameSpan, t.exprSpan(value)), nameSpan, t.B.Name(name), typ, value, mod)
}

// Decl builds `name: typ;` without an initializer.
func (t *Tree) Decl(name string, typ ast.TypeID) ast.StmtID {
	nameSpan := t.next()
	return t.B.Stmts.NewVar(t.cover(nameSpan), nameSpan, t.B.Name(name), typ, ast.NoExprID, ast.ModDefault)
}

func (t *Tree) Assign(target, value ast.ExprID) ast.StmtID {
	return t.B.Stmts.NewAssign(t.cover(t.exprSpan(target), t.exprSpan(value)), target, value)
}

// Do builds an expression statement terminated by a semicolon.
func (t *Tree) Do(e ast.ExprID) ast.StmtID {
	return t.B.Stmts.NewExpr(t.cover(t.exprSpan(e)), e, true)
}

// Tail builds a trailing expression without semicolon.
func (t *Tree) Tail(e ast.ExprID) ast.StmtID {
	return t.B.Stmts.NewExpr(t.cover(t.exprSpan(e)), e, false)
}

func (t *Tree) Return(value ast.ExprID) ast.StmtID {
	return t.B.Stmts.NewReturn(t.cover(t.exprSpan(value)), value)
}

func (t *Tree) Break() ast.StmtID {
	return t.B.Stmts.NewBreak(t.next(), ast.NoExprID)
}

func (t *Tree) Continue(value ast.ExprID) ast.StmtID {
	return t.B.Stmts.NewContinue(t.cover(t.exprSpan(value)), value)
}

func (t *Tree) Param(name string, typ ast.TypeID) ast.Param {
	return ast.Param{Name: t.B.Name(name), Type: typ, Span: t.next()}
}

// Func builds `fn name(params) result { body }`.
func (t *Tree) Func(name string, params []ast.Param, result ast.TypeID, body ...ast.StmtID) ast.StmtID {
	nameSpan := t.next()
	blk := t.Block(body...)
	spans := []source.Span{nameSpan, t.exprSpan(blk)}
	for _, p := range params {
		spans = append(spans, p.Span)
	}
	return t.B.Stmts.NewFunc(t.cover(spans...), nameSpan, t.B.Name(name), params, result, blk)
}

func (t *Tree) FieldDecl(name string, typ ast.TypeID) ast.Field {
	return ast.Field{Name: t.B.Name(name), Type: typ, Span: t.next()}
}

// TypeDecl builds a struct/class/trait/enum/union declaration.
func (t *Tree) TypeDecl(kind ast.TypeDeclKind, name string, fields []ast.Field, methods ...ast.StmtID) ast.StmtID {
	nameSpan := t.next()
	spans := append(t.stmtSpans(methods), nameSpan)
	for _, f := range fields {
		spans = append(spans, f.Span)
	}
	return t.B.Stmts.NewTypeDecl(t.cover(spans...), nameSpan, kind, t.B.Name(name), fields, nil, methods)
}

func (t *Tree) Impl(trait, target string, methods ...ast.StmtID) ast.StmtID {
	tr := t.TypeName(trait)
	tg := t.TypeName(target)
	spans := append(t.stmtSpans(methods), t.B.Types.Get(tr).Span, t.B.Types.Get(tg).Span)
	return t.B.Stmts.NewImpl(t.cover(spans...), tr, tg, methods)
}
