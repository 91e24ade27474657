package sema_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/hir"
	"soul/internal/sema"
	"soul/internal/symbols"
	"soul/internal/testkit"
	"soul/internal/types"
)

type checked struct {
	m   *hir.Module
	res *sema.TypedResponse
	bag *diag.Bag
}

func check(t *testing.T, tr *testkit.Tree) checked {
	t.Helper()
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	ctx := context.Background()
	resolved := symbols.Resolve(ctx, tr.B, symbols.Options{Reporter: rep})
	lowered := hir.Lower(ctx, tr.B, resolved, hir.Options{Reporter: rep})
	res := sema.Infer(ctx, lowered.Module, sema.Options{Reporter: rep})
	if res == nil {
		t.Fatal("typed response is nil")
	}
	return checked{m: lowered.Module, res: res, bag: bag}
}

func (c checked) declType(t *testing.T, tr *testkit.Tree, stmt ast.StmtID) types.TypeID {
	t.Helper()
	data, ok := tr.B.Stmts.Var(stmt)
	if !ok || !data.Decl.IsValid() {
		t.Fatalf("statement %d is not a resolved variable", stmt)
	}
	return c.res.DeclType(data.Decl)
}

func (c checked) primitive(t *testing.T, name string) types.TypeID {
	t.Helper()
	id, ok := c.m.Types.Primitive(name)
	if !ok {
		t.Fatalf("unknown primitive %q", name)
	}
	return id
}

func (c checked) expectClean(t *testing.T) {
	t.Helper()
	if c.bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", c.bag.Items())
	}
}

func (c checked) expectType(t *testing.T, got, want types.TypeID) {
	t.Helper()
	if c.m.Types.Unqualified(got) != want {
		t.Fatalf("type = %s, want %s", types.Label(c.m.Types, got), types.Label(c.m.Types, want))
	}
}

// every recorded type must be concrete once inference is done
func (c checked) expectSettled(t *testing.T) {
	t.Helper()
	for id, ty := range c.res.ExprTypes {
		if k := c.m.Types.Kind(ty); k == types.KindVar || k.IsUntyped() {
			t.Errorf("expression %d left as %s", id, types.Label(c.m.Types, ty))
		}
	}
	for id, ty := range c.res.LocalTypes {
		if k := c.m.Types.Kind(ty); k == types.KindVar || k.IsUntyped() {
			t.Errorf("local %d left as %s", id, types.Label(c.m.Types, ty))
		}
	}
}

func TestInferLiteralDefaults(t *testing.T) {
	tr := testkit.NewTree()
	x := tr.Let("x", tr.Int("42"))
	y := tr.Let("y", tr.Float("1.5"))
	z := tr.Let("z", tr.Str("hi"))
	tr.Root(tr.Func("main", nil, ast.NoTypeID, x, y, z))

	c := check(t, tr)
	c.expectClean(t)
	b := c.m.Types.Builtins()
	c.expectType(t, c.declType(t, tr, x), b.Int)
	c.expectType(t, c.declType(t, tr, y), b.F32)
	c.expectType(t, c.declType(t, tr, z), b.String)
	c.expectSettled(t)
}

func TestInferLetChainAtGlobalScope(t *testing.T) {
	tr := testkit.NewTree()
	x := tr.Let("x", tr.Int("42"))
	y := tr.Let("y", tr.Bin(ast.ExprBinaryAdd, tr.Ident("x"), tr.Int("1")))
	tr.Root(x, y)

	c := check(t, tr)
	c.expectClean(t)
	b := c.m.Types.Builtins()
	c.expectType(t, c.declType(t, tr, x), b.Int)
	c.expectType(t, c.declType(t, tr, y), b.Int)
	c.expectSettled(t)
}

func TestInferUndeclaredVariable(t *testing.T) {
	tr := testkit.NewTree()
	y := tr.Let("y", tr.Bin(ast.ExprBinaryAdd, tr.Ident("x"), tr.Int("1")))
	tr.Root(y)

	c := check(t, tr)
	if c.bag.Len() != 1 || c.bag.Count(diag.SemaNotFoundInScope) != 1 {
		t.Fatalf("expected exactly one not-found fault, got %+v", c.bag.Items())
	}
	c.expectType(t, c.declType(t, tr, y), c.m.Types.Builtins().Error)
}

func TestInferAnnotationGuidesLiteral(t *testing.T) {
	tr := testkit.NewTree()
	x := tr.LetT("x", tr.TypeName("f64"), tr.Int("1"))
	y := tr.LetT("y", tr.TypeName("i8"), tr.Int("-3"))
	tr.Root(tr.Func("main", nil, ast.NoTypeID, x, y))

	c := check(t, tr)
	c.expectClean(t)
	c.expectType(t, c.declType(t, tr, x), c.primitive(t, "f64"))
	c.expectType(t, c.declType(t, tr, y), c.primitive(t, "i8"))
	c.expectSettled(t)
}

func TestInferLiteralDoesNotFit(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		value func(tr *testkit.Tree) ast.ExprID
	}{
		{"negative into unsigned", "u8", func(tr *testkit.Tree) ast.ExprID { return tr.Int("-1") }},
		{"float into int", "int", func(tr *testkit.Tree) ast.ExprID { return tr.Float("2.5") }},
		{"number into bool", "bool", func(tr *testkit.Tree) ast.ExprID { return tr.Int("1") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := testkit.NewTree()
			tr.Root(tr.Func("main", nil, ast.NoTypeID, tr.LetT("x", tr.TypeName(tt.typ), tt.value(tr))))
			c := check(t, tr)
			if c.bag.Len() != 1 || c.bag.Count(diag.SemaUnifyTypeError) != 1 {
				t.Fatalf("expected one mismatch, got %+v", c.bag.Items())
			}
		})
	}
}

func TestInferArrayElementFromUse(t *testing.T) {
	tr := testkit.NewTree()
	a := tr.Let("a", tr.Array(tr.Int("1"), tr.Int("2")))
	v := tr.LetT("v", tr.TypeName("i64"), tr.Index(tr.Ident("a"), tr.Int("0")))
	tr.Root(tr.Func("main", nil, ast.NoTypeID, a, v))

	c := check(t, tr)
	c.expectClean(t)
	want := c.m.Types.Intern(types.MakeArray(c.primitive(t, "i64"), 2))
	c.expectType(t, c.declType(t, tr, a), want)
	c.expectSettled(t)
}

func TestInferEmptyArrayIsUnresolved(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("main", nil, ast.NoTypeID, tr.Let("a", tr.Array())))

	c := check(t, tr)
	if got := c.bag.Count(diag.SemaUnresolvedType); got != 1 {
		t.Fatalf("expected one unresolved fault, got %+v", c.bag.Items())
	}
	d := c.bag.Items()[0]
	if len(d.Notes) == 0 || !strings.Contains(d.Notes[0].Msg, "annotation") {
		t.Fatalf("unresolved fault should suggest an annotation: %+v", d)
	}
	c.expectSettled(t)
}

func TestInferReturnAndTail(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(
		tr.Func("bad", nil, tr.TypeName("int"), tr.Return(tr.Bool(true))),
		tr.Func("good", nil, tr.TypeName("f64"), tr.Tail(tr.Int("1"))),
	)

	c := check(t, tr)
	if c.bag.Len() != 1 || c.bag.Count(diag.SemaUnifyTypeError) != 1 {
		t.Fatalf("expected one mismatch for 'bad', got %+v", c.bag.Items())
	}
	good := c.m.FindFunc("good")
	tail := c.m.Block(good.Func.Body).Tail
	c.expectType(t, c.res.ExprTypes[tail], c.primitive(t, "f64"))
}

func TestInferMissingTailAgainstResult(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("f", nil, tr.TypeName("int"), tr.Do(tr.Int("1"))))

	c := check(t, tr)
	if c.bag.Count(diag.SemaUnifyTypeError) != 1 {
		t.Fatalf("expected unit body to mismatch int result, got %+v", c.bag.Items())
	}
}

func TestInferCalls(t *testing.T) {
	add := func(tr *testkit.Tree) ast.StmtID {
		return tr.Func("add",
			[]ast.Param{tr.Param("a", tr.TypeName("int")), tr.Param("b", tr.TypeName("int"))},
			tr.TypeName("int"),
			tr.Tail(tr.Bin(ast.ExprBinaryAdd, tr.Ident("a"), tr.Ident("b"))),
		)
	}

	t.Run("ok", func(t *testing.T) {
		tr := testkit.NewTree()
		r := tr.Let("r", tr.Call("add", tr.Int("1"), tr.Int("2")))
		tr.Root(add(tr), tr.Func("main", nil, ast.NoTypeID, r))
		c := check(t, tr)
		c.expectClean(t)
		c.expectType(t, c.declType(t, tr, r), c.m.Types.Builtins().Int)
	})
	t.Run("arity", func(t *testing.T) {
		tr := testkit.NewTree()
		tr.Root(add(tr), tr.Func("main", nil, ast.NoTypeID, tr.Do(tr.Call("add", tr.Int("1")))))
		c := check(t, tr)
		if c.bag.Len() != 1 || c.bag.Count(diag.SemaInvalidContext) != 1 {
			t.Fatalf("expected one arity fault, got %+v", c.bag.Items())
		}
	})
	t.Run("argument", func(t *testing.T) {
		tr := testkit.NewTree()
		tr.Root(add(tr), tr.Func("main", nil, ast.NoTypeID, tr.Do(tr.Call("add", tr.Int("1"), tr.Bool(false)))))
		c := check(t, tr)
		if c.bag.Len() != 1 || c.bag.Count(diag.SemaUnifyTypeError) != 1 {
			t.Fatalf("expected one argument mismatch, got %+v", c.bag.Items())
		}
	})
}

func TestInferAutoCopyBetweenModifiers(t *testing.T) {
	tr := testkit.NewTree()
	load := tr.Ident("x")
	tr.Root(tr.Func("main", nil, ast.NoTypeID,
		tr.LetWith(ast.ModConst, "x", tr.TypeName("int"), tr.Int("1")),
		tr.LetWith(ast.ModMut, "y", tr.TypeName("int"), load),
	))

	c := check(t, tr)
	c.expectClean(t)
	if len(c.res.AutoCopies) != 1 {
		t.Fatalf("expected one auto-copy, got %v", c.res.AutoCopies.Sorted())
	}
	for _, id := range c.res.AutoCopies.Sorted() {
		if c.m.Expr(id).Kind != hir.ExprLoad {
			t.Fatalf("auto-copy recorded on %s, want a load", c.m.Expr(id).Kind)
		}
	}
}

func TestInferAutoCopyOutOfReference(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(
		tr.Func("take", []ast.Param{tr.Param("n", tr.TypeName("int"))}, ast.NoTypeID),
		tr.Func("main", nil, ast.NoTypeID,
			tr.Let("v", tr.Int("5")),
			tr.Do(tr.Call("take", tr.Ref(tr.Ident("v"), false))),
		),
	)

	c := check(t, tr)
	c.expectClean(t)
	if len(c.res.AutoCopies) != 1 {
		t.Fatalf("expected the reference argument to be copied, got %v", c.res.AutoCopies.Sorted())
	}
}

func TestInferConditions(t *testing.T) {
	tr := testkit.NewTree()
	x := tr.Let("x", tr.If(tr.Bool(true), tr.Block(tr.Tail(tr.Int("1"))), tr.Else(tr.Tail(tr.Float("2.5")))))
	tr.Root(tr.Func("main", nil, ast.NoTypeID,
		x,
		tr.Do(tr.While(tr.Int("1"))),
	))

	c := check(t, tr)
	if c.bag.Len() != 1 || c.bag.Count(diag.SemaUnifyTypeError) != 1 {
		t.Fatalf("expected the while condition to be rejected, got %+v", c.bag.Items())
	}
	c.expectType(t, c.declType(t, tr, x), c.m.Types.Builtins().F32)
}

func TestInferIfWithoutElseTailMustBeUnit(t *testing.T) {
	tr := testkit.NewTree()
	tail := tr.Int("5")
	tr.Root(tr.Func("main", nil, ast.NoTypeID,
		tr.Do(tr.If(tr.Bool(true), tr.Block(tr.Tail(tail)))),
		tr.Do(tr.If(tr.Bool(false), tr.Block(tr.Do(tr.Int("6"))))),
	))

	c := check(t, tr)
	if c.bag.Len() != 1 || c.bag.Count(diag.SemaUnifyTypeError) != 1 {
		t.Fatalf("expected only the valued branch to be rejected, got %+v", c.bag.Items())
	}
}

func TestInferMutableGlobalRejected(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.LetMut("g", tr.Int("1")))

	c := check(t, tr)
	if c.bag.Len() != 1 || c.bag.Count(diag.SemaInvalidContext) != 1 {
		t.Fatalf("expected one fault for a mutable global, got %+v", c.bag.Items())
	}
}

func TestInferFieldAccess(t *testing.T) {
	tr := testkit.NewTree()
	point := tr.TypeDecl(ast.TypeDeclStruct, "Point", []ast.Field{
		tr.FieldDecl("x", tr.TypeName("i32")),
	})
	field := tr.Let("a", tr.Field(tr.Ident("p"), "x"))
	tr.Root(point, tr.Func("main", []ast.Param{tr.Param("p", tr.TypeName("Point"))}, ast.NoTypeID,
		field,
		tr.Do(tr.Field(tr.Ident("p"), "y")),
	))

	c := check(t, tr)
	if c.bag.Len() != 1 || c.bag.Count(diag.SemaNotFoundInScope) != 1 {
		t.Fatalf("expected one unknown-field fault, got %+v", c.bag.Items())
	}
	c.expectType(t, c.declType(t, tr, field), c.primitive(t, "i32"))
}

func TestInferTypedDump(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("main", nil, ast.NoTypeID, tr.Let("x", tr.Int("7"))))

	c := check(t, tr)
	c.expectClean(t)
	var buf bytes.Buffer
	if err := hir.DumpWithOptions(&buf, c.m, hir.DumpOptions{ExprTypes: c.res.ExprTypes}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), ":: int") {
		t.Fatalf("typed dump lacks expression types:\n%s", buf.String())
	}
}
