package ast

import (
	"reflect"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"soul/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 is reserved")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 {
		t.Fatalf("unexpected allocation %d", id)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range index must return nil")
	}
}

func TestAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	lit := b.Exprs.NewLiteral(source.Span{}, ExprLitInt, b.Name("1"))
	if _, ok := b.Exprs.Ident(lit); ok {
		t.Fatalf("literal must not be readable as ident")
	}
	data, ok := b.Exprs.Literal(lit)
	if !ok || data.Kind != ExprLitInt || b.NameOf(data.Value) != "1" {
		t.Fatalf("literal payload lost: %+v", data)
	}
	blk := b.Exprs.NewBlock(source.Span{}, nil)
	bd, _ := b.Exprs.Block(blk)
	if bd.Scope != NoScopeID {
		t.Fatalf("fresh block must have no recorded scope")
	}
	ret := b.Stmts.NewReturn(source.Span{}, lit)
	if j, ok := b.Stmts.Jump(ret); !ok || j.Value != lit {
		t.Fatalf("return payload lost")
	}
	if _, ok := b.Stmts.Var(ret); ok {
		t.Fatalf("return must not be readable as var")
	}
}

func TestBuilderMsgpackRoundTrip(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Name("x")
	one := b.Exprs.NewLiteral(source.Span{Start: 5, End: 6}, ExprLitInt, b.Name("1"))
	ref := b.Exprs.NewIdent(source.Span{Start: 12, End: 13}, x)
	sum := b.Exprs.NewBinary(source.Span{Start: 12, End: 17}, ExprBinaryAdd, ref, one)
	intType := b.Types.NewName(source.Span{Start: 3, End: 6}, b.Name("int"), ModDefault)
	b.PushRoot(
		b.Stmts.NewVar(source.Span{Start: 0, End: 7}, source.Span{Start: 0, End: 1}, x, intType, one, ModMut),
		b.Stmts.NewExpr(source.Span{Start: 12, End: 18}, sum, true),
	)

	data, err := msgpack.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Builder
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got.Root, b.Root) {
		t.Fatalf("root mismatch: %v vs %v", got.Root, b.Root)
	}
	if !reflect.DeepEqual(got.Exprs.Arena.Slice(), b.Exprs.Arena.Slice()) {
		t.Fatalf("expression arena mismatch")
	}
	if !reflect.DeepEqual(got.Stmts.Vars.Slice(), b.Stmts.Vars.Slice()) {
		t.Fatalf("var payloads mismatch")
	}
	if got.Strings.MustLookup(x) != "x" {
		t.Fatalf("string table not restored")
	}
	if bin, ok := got.Exprs.Binary(sum); !ok || bin.Left != ref || bin.Right != one {
		t.Fatalf("binary payload mismatch")
	}
}
