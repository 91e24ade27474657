package hir_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vmihailenco/msgpack/v5"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/hir"
	"soul/internal/symbols"
	"soul/internal/testkit"
	"soul/internal/types"
)

func lowerTree(t *testing.T, tr *testkit.Tree) (*hir.Module, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	ctx := context.Background()
	res := symbols.Resolve(ctx, tr.B, symbols.Options{Reporter: rep})
	resp := hir.Lower(ctx, tr.B, res, hir.Options{Reporter: rep})
	if resp.Module == nil {
		t.Fatal("module is nil")
	}
	if len(resp.Faults) != bag.Len() {
		t.Fatalf("response carries %d faults, reporter saw %d", len(resp.Faults), bag.Len())
	}
	return resp.Module, bag
}

func funcBody(t *testing.T, m *hir.Module, name string) *hir.Block {
	t.Helper()
	it := m.FindFunc(name)
	if it == nil {
		t.Fatalf("function %q not lowered", name)
	}
	body := m.Block(it.Func.Body)
	if body == nil {
		t.Fatalf("function %q has no body", name)
	}
	return body
}

func stmtKinds(m *hir.Module, ids []hir.StmtID) []hir.StmtKind {
	out := make([]hir.StmtKind, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.Stmt(id).Kind)
	}
	return out
}

func TestLowerSimpleFunction(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("add",
		[]ast.Param{tr.Param("a", tr.TypeName("int")), tr.Param("b", tr.TypeName("int"))},
		tr.TypeName("int"),
		tr.Return(tr.Bin(ast.ExprBinaryAdd, tr.Ident("a"), tr.Ident("b"))),
	))
	m, bag := lowerTree(t, tr)
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}

	it := m.FindFunc("add")
	if it == nil {
		t.Fatal("function add not lowered")
	}
	if len(it.Func.Params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(it.Func.Params))
	}
	if it.Func.Result != m.Types.Builtins().Int {
		t.Errorf("expected int result, got %s", types.Label(m.Types, it.Func.Result))
	}
	body := funcBody(t, m, "add")
	if got := stmtKinds(m, body.Stmts); !cmp.Equal(got, []hir.StmtKind{hir.StmtReturn}) {
		t.Fatalf("unexpected body: %v", got)
	}
	ret := m.Stmt(body.Stmts[0])
	sum := m.Expr(ret.Value)
	if sum.Kind != hir.ExprBinary {
		t.Fatalf("expected binary return value, got %s", sum.Kind)
	}
	left := m.Expr(sum.Left)
	if left.Kind != hir.ExprLoad || left.Place.Local != it.Func.Params[0].Local {
		t.Errorf("left operand should load parameter a, got %+v", left)
	}

	var buf bytes.Buffer
	if err := hir.Dump(&buf, m); err != nil {
		t.Fatalf("failed to dump: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "fn add") || !strings.Contains(out, "return") {
		t.Errorf("unexpected dump:\n%s", out)
	}
}

func TestLowerIfChainBranches(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("pick", []ast.Param{tr.Param("x", tr.TypeName("int"))}, ast.NoTypeID,
		tr.Do(tr.If(
			tr.Bin(ast.ExprBinaryEq, tr.Ident("x"), tr.Int("1")), tr.Block(),
			tr.ElseIf(tr.Bin(ast.ExprBinaryEq, tr.Ident("x"), tr.Int("2"))),
			tr.ElseIf(tr.Bin(ast.ExprBinaryEq, tr.Ident("x"), tr.Int("3"))),
			tr.Else(),
		)),
	))
	m, bag := lowerTree(t, tr)
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
	body := funcBody(t, m, "pick")
	e := m.Expr(m.Stmt(body.Stmts[0]).Value)
	if e.Kind != hir.ExprIf {
		t.Fatalf("expected if, got %s", e.Kind)
	}
	branches := e.If.Branches()
	if len(branches) != 4 {
		t.Fatalf("expected 4 branches, got %d", len(branches))
	}
	for i, br := range branches[:3] {
		if !br.Cond.IsValid() {
			t.Errorf("branch %d should have a condition", i)
		}
	}
	if branches[3].Cond.IsValid() {
		t.Error("final else must not carry a condition")
	}
}

func TestLowerElseAfterElseReportsOnce(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("f", nil, ast.NoTypeID,
		tr.Do(tr.If(tr.Bool(true), tr.Block(), tr.Else(), tr.Else())),
	))
	m, bag := lowerTree(t, tr)
	if got := bag.Count(diag.SemaInvalidContext); got != 1 {
		t.Fatalf("expected 1 invalid-context fault, got %d: %+v", got, bag.Items())
	}
	e := m.Expr(m.Stmt(funcBody(t, m, "f").Stmts[0]).Value)
	if got := len(e.If.Branches()); got != 2 {
		t.Fatalf("expected the extra else to be dropped, got %d branches", got)
	}
}

func TestLowerArrayLiteralInsideFunction(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("f", nil, ast.NoTypeID,
		tr.Let("a", tr.Array(tr.Int("1"), tr.Int("2"), tr.Int("3"))),
	))
	m, bag := lowerTree(t, tr)
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
	body := funcBody(t, m, "f")
	want := []hir.StmtKind{hir.StmtLet, hir.StmtAssign, hir.StmtAssign, hir.StmtAssign, hir.StmtLet}
	if diff := cmp.Diff(want, stmtKinds(m, body.Stmts)); diff != "" {
		t.Fatalf("statement order mismatch (-want +got):\n%s", diff)
	}

	alloc := m.Stmt(body.Stmts[0])
	tmp := m.Local(alloc.Local)
	if !strings.HasPrefix(tmp.Name, "__array") || m.Attrs.Locals[alloc.Local]&hir.AttrSynthetic == 0 {
		t.Fatalf("expected synthetic array local, got %+v", tmp)
	}
	if stack := m.Expr(alloc.Value); stack.Kind != hir.ExprStackArray || stack.Len != 3 {
		t.Fatalf("expected stack array of 3, got %+v", stack)
	}
	for i, sid := range body.Stmts[1:4] {
		st := m.Stmt(sid)
		if st.Place.Kind != hir.PlaceIndex || st.Place.Root() != alloc.Local {
			t.Fatalf("assign %d does not target the array local: %+v", i, st.Place)
		}
		idx := m.Expr(st.Place.Index)
		if idx.Lit == nil || idx.Lit.Text != []string{"0", "1", "2"}[i] {
			t.Errorf("assign %d: unexpected index %+v", i, idx.Lit)
		}
		if v := m.Expr(st.Value); v.Lit == nil || v.Lit.Text != []string{"1", "2", "3"}[i] {
			t.Errorf("assign %d: elements out of source order", i)
		}
	}
	final := m.Stmt(body.Stmts[4])
	if load := m.Expr(final.Value); load.Kind != hir.ExprLoad || load.Place.Local != alloc.Local {
		t.Fatalf("array value should be a load of the synthetic local, got %+v", load)
	}
}

func TestLowerArrayLiteralAtGlobalScope(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Let("table", tr.Array(tr.Int("4"), tr.Int("5"))))
	m, bag := lowerTree(t, tr)
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
	want := []hir.StmtKind{hir.StmtLet, hir.StmtAssign, hir.StmtAssign, hir.StmtLet}
	if diff := cmp.Diff(want, stmtKinds(m, m.Globals)); diff != "" {
		t.Fatalf("global statements mismatch (-want +got):\n%s", diff)
	}
	items := m.SortedItems()
	if len(items) != 1 || items[0].Kind != hir.ItemGlobal || items[0].Global.Stmt != m.Globals[3] {
		t.Fatalf("expected one global item bound to the final let, got %+v", items)
	}
}

func TestLowerNestedArrayAttachesToEnclosingBlock(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("f", nil, ast.NoTypeID,
		tr.Do(tr.While(tr.Bool(true), tr.Let("inner", tr.Array(tr.Int("1"))))),
	))
	m, _ := lowerTree(t, tr)
	body := funcBody(t, m, "f")
	if len(body.Stmts) != 1 {
		t.Fatalf("desugared statements leaked into the function body: %v", stmtKinds(m, body.Stmts))
	}
	loop := m.Expr(m.Stmt(body.Stmts[0]).Value)
	inner := m.Block(loop.Block)
	want := []hir.StmtKind{hir.StmtLet, hir.StmtAssign, hir.StmtLet}
	if diff := cmp.Diff(want, stmtKinds(m, inner.Stmts)); diff != "" {
		t.Fatalf("loop body mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerWhileLoop(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("count", nil, ast.NoTypeID,
		tr.LetMut("i", tr.Int("0")),
		tr.Do(tr.While(
			tr.Bin(ast.ExprBinaryLess, tr.Ident("i"), tr.Int("10")),
			tr.Assign(tr.Ident("i"), tr.Bin(ast.ExprBinaryAdd, tr.Ident("i"), tr.Int("1"))),
			tr.Break(),
		)),
	))
	m, bag := lowerTree(t, tr)
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
	body := funcBody(t, m, "count")
	loop := m.Expr(m.Stmt(body.Stmts[1]).Value)
	if loop.Kind != hir.ExprWhile || !loop.Cond.IsValid() {
		t.Fatalf("expected conditional while, got %+v", loop)
	}
	inner := m.Block(loop.Block)
	if diff := cmp.Diff([]hir.StmtKind{hir.StmtAssign, hir.StmtBreak}, stmtKinds(m, inner.Stmts)); diff != "" {
		t.Fatalf("loop body mismatch (-want +got):\n%s", diff)
	}
	let := m.Stmt(body.Stmts[0])
	if got := m.Stmt(inner.Stmts[0]).Place.Local; got != let.Local {
		t.Fatalf("assignment targets local %d, want %d", got, let.Local)
	}
}

func TestLowerForLoopIsDeferred(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("each", nil, ast.NoTypeID,
		tr.Let("xs", tr.Array(tr.Int("1"))),
		tr.Do(tr.For("x", tr.Ident("xs"), tr.Do(tr.Ident("x")))),
	))
	m, bag := lowerTree(t, tr)
	if got := bag.Count(diag.SemaUnstableFeature); got != 1 || bag.Len() != 1 {
		t.Fatalf("expected exactly one unstable-feature warning, got %+v", bag.Items())
	}
	if bag.HasErrors() {
		t.Fatal("for-loop must not be an error")
	}
	body := funcBody(t, m, "each")
	last := m.Stmt(body.Stmts[len(body.Stmts)-1])
	loop := m.Expr(last.Value)
	if loop.Kind != hir.ExprFor || !m.HasAttr(last.Value, hir.AttrUnstable) {
		t.Fatalf("expected unstable for node, got %+v", loop)
	}
	use := m.Expr(m.Stmt(m.Block(loop.For.Body).Stmts[0]).Value)
	if use.Place == nil || use.Place.Local != loop.For.Binding {
		t.Fatalf("loop body should read the binding, got %+v", use)
	}
}

func TestLowerContinueWithValue(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("f", nil, ast.NoTypeID,
		tr.Do(tr.While(tr.Bool(true), tr.Continue(tr.Int("1")))),
	))
	_, bag := lowerTree(t, tr)
	if got := bag.Count(diag.SemaInvalidContext); got != 1 {
		t.Fatalf("expected 1 invalid-context fault, got %+v", bag.Items())
	}
}

func TestLowerGlobalStatementsRejected(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(
		tr.LetMut("g", tr.Int("1")),
		tr.Do(tr.Call("f")),
		tr.Assign(tr.Ident("g"), tr.Int("2")),
		tr.Func("f", nil, ast.NoTypeID),
	)
	m, bag := lowerTree(t, tr)
	if got := bag.Count(diag.SemaInvalidContext); got != 2 {
		t.Fatalf("expected 2 invalid-context faults, got %+v", bag.Items())
	}
	if len(m.Globals) != 1 {
		t.Fatalf("rejected statements must not reach the global body, got %d", len(m.Globals))
	}
}

func TestLowerTailExpression(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("one", nil, tr.TypeName("int"), tr.Tail(tr.Int("1"))))
	m, _ := lowerTree(t, tr)
	body := funcBody(t, m, "one")
	if len(body.Stmts) != 0 || !body.Tail.IsValid() {
		t.Fatalf("expected tail-only block, got %+v", body)
	}
}

func TestLowerShadowedInitializerReadsOuter(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("f", nil, ast.NoTypeID,
		tr.Let("x", tr.Int("1")),
		tr.Do(tr.Block(tr.Let("x", tr.Bin(ast.ExprBinaryAdd, tr.Ident("x"), tr.Int("1"))))),
	))
	m, bag := lowerTree(t, tr)
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
	body := funcBody(t, m, "f")
	outer := m.Stmt(body.Stmts[0]).Local
	inner := m.Block(m.Expr(m.Stmt(body.Stmts[1]).Value).Block)
	let := m.Stmt(inner.Stmts[0])
	read := m.Expr(m.Expr(let.Value).Left)
	if read.Place.Local != outer {
		t.Fatalf("initializer reads local %d, want outer %d", read.Place.Local, outer)
	}
	if let.Local == outer {
		t.Fatal("inner declaration must get its own slot")
	}
}

func TestLowerRefOfValueSpillsTemporary(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(
		tr.Func("make", nil, tr.TypeName("int"), tr.Tail(tr.Int("1"))),
		tr.Func("f", nil, ast.NoTypeID, tr.Let("r", tr.Ref(tr.Call("make"), false))),
	)
	m, bag := lowerTree(t, tr)
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
	body := funcBody(t, m, "f")
	if len(body.Stmts) != 2 {
		t.Fatalf("expected temp + let, got %v", stmtKinds(m, body.Stmts))
	}
	tmp := m.Stmt(body.Stmts[0])
	if m.Attrs.Stmts[body.Stmts[0]]&hir.AttrSynthetic == 0 || m.Expr(tmp.Value).Kind != hir.ExprCall {
		t.Fatalf("expected synthetic temporary holding the call, got %+v", tmp)
	}
	ref := m.Expr(m.Stmt(body.Stmts[1]).Value)
	if ref.Kind != hir.ExprRef || ref.Place.Local != tmp.Local {
		t.Fatalf("reference should point at the temporary, got %+v", ref)
	}
}

func TestLowerTypeItemsAndMethods(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(
		tr.TypeDecl(ast.TypeDeclStruct, "Point",
			[]ast.Field{tr.FieldDecl("x", tr.TypeName("int")), tr.FieldDecl("y", tr.TypeName("int"))},
			tr.Func("len", nil, tr.TypeName("int"), tr.Tail(tr.Int("0"))),
		),
		tr.Func("origin", []ast.Param{tr.Param("p", tr.TypeName("Point"))}, ast.NoTypeID),
	)
	m, bag := lowerTree(t, tr)
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
	var point *hir.Item
	for _, it := range m.SortedItems() {
		if it.Kind == hir.ItemType {
			point = it
		}
	}
	if point == nil || len(point.Type.Fields) != 2 || len(point.Type.Methods) != 1 {
		t.Fatalf("unexpected type item: %+v", point)
	}
	method, ok := m.Item(point.Type.Methods[0])
	if !ok || method.Func.Owner != point.Decl {
		t.Fatalf("method owner not recorded: %+v", method)
	}
	origin := m.FindFunc("origin")
	if got := types.Label(m.Types, origin.Func.Params[0].Type); got != "Point" {
		t.Fatalf("parameter type = %q, want Point", got)
	}
}

func TestLowerSpanTables(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(tr.Func("f", nil, ast.NoTypeID,
		tr.Let("a", tr.Array(tr.Int("1"), tr.Int("2"))),
		tr.Do(tr.If(tr.Bool(true), tr.Block(tr.Do(tr.Ident("a"))))),
	))
	m, _ := lowerTree(t, tr)
	if len(m.Spans.Exprs) != len(m.Exprs) || len(m.Spans.Stmts) != len(m.Stmts) ||
		len(m.Spans.Blocks) != len(m.Blocks) || len(m.Spans.Locals) != len(m.Locals) {
		t.Fatal("span tables out of step with node tables")
	}
	for i := 1; i < len(m.Exprs); i++ {
		if m.Spans.Exprs[i].Empty() {
			t.Errorf("expr %d (%s) has no span", i, m.Exprs[i].Kind)
		}
	}
	for i := 1; i < len(m.Stmts); i++ {
		if m.Spans.Stmts[i].Empty() {
			t.Errorf("stmt %d (%s) has no span", i, m.Stmts[i].Kind)
		}
	}
}

func TestLowerModuleMsgpackRoundTrip(t *testing.T) {
	tr := testkit.NewTree()
	tr.Root(
		tr.Let("g", tr.Array(tr.Int("1"), tr.Int("2"))),
		tr.Func("f", []ast.Param{tr.Param("x", tr.TypeName("int"))}, tr.TypeName("int"),
			tr.Do(tr.If(tr.Ident("x"), tr.Block(), tr.ElseIf(tr.Bool(false)), tr.Else())),
			tr.Tail(tr.Ident("x")),
		),
	)
	m, _ := lowerTree(t, tr)

	data, err := msgpack.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got hir.Module
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	opts := []cmp.Option{cmpopts.IgnoreFields(hir.Module{}, "Types"), cmpopts.EquateEmpty()}
	if diff := cmp.Diff(m, &got, opts...); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	fn := got.FindFunc("f")
	if label := types.Label(got.Types, fn.Func.Type); label != types.Label(m.Types, fn.Func.Type) {
		t.Fatalf("function type lost in round trip: %q", label)
	}
}
