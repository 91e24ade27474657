package sema

import (
	"strings"
	"testing"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/types"
)

var testSpan = source.Span{File: 1, Start: 0, End: 1}

func newTestEnv() (*Env, *diag.Bag) {
	bag := diag.NewBag(0)
	return NewEnv(types.NewInterner(), diag.BagReporter{Bag: bag}), bag
}

func TestUnifyIdenticalKnownTypes(t *testing.T) {
	env, bag := newTestEnv()
	b := env.Types().Builtins()
	if got := env.Unify(Known(b.Int), Known(b.Int), testSpan); got != UnifyOK {
		t.Fatalf("unify(int, int) = %s", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
}

func TestUnifyMismatchReportsOnce(t *testing.T) {
	env, bag := newTestEnv()
	b := env.Types().Builtins()
	if got := env.Unify(Known(b.Int), Known(b.Bool), testSpan); got != UnifyMismatch {
		t.Fatalf("unify(int, bool) = %s", got)
	}
	if bag.Len() != 1 || bag.Count(diag.SemaUnifyTypeError) != 1 {
		t.Fatalf("expected exactly one unify fault, got %+v", bag.Items())
	}
	msg := bag.Items()[0].Message
	if !strings.Contains(msg, "'int'") || !strings.Contains(msg, "'bool'") {
		t.Fatalf("fault should name both types: %q", msg)
	}
	// the environment stays usable
	if got := env.Unify(Known(b.Bool), Known(b.Bool), testSpan); got != UnifyOK {
		t.Fatalf("unify after mismatch = %s", got)
	}
}

func TestUnifyBindsVariable(t *testing.T) {
	env, bag := newTestEnv()
	b := env.Types().Builtins()
	v := env.AllocVariable(testSpan)
	w := env.AllocVariable(testSpan)
	if !v.IsVar() || v.Var == w.Var {
		t.Fatalf("expected two distinct variables, got %+v %+v", v, w)
	}
	env.Unify(v, w, testSpan)
	env.Unify(w, Known(b.Bool), testSpan)
	got := env.Resolve(v)
	if got.IsVar() || got.Known != b.Bool {
		t.Fatalf("resolve(v) = %+v, want bool", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
}

func TestResolveCycleReportsInternal(t *testing.T) {
	env, bag := newTestEnv()
	v := env.AllocVariable(testSpan)
	w := env.AllocVariable(testSpan)
	env.subst[v.Var] = env.Type(w)
	env.subst[w.Var] = env.Type(v)

	got := env.Resolve(v)
	if got.IsVar() || got.Known != env.Types().Builtins().Error {
		t.Fatalf("cyclic resolve = %+v, want error type", got)
	}
	if bag.Count(diag.InternalError) != 1 {
		t.Fatalf("expected one internal fault, got %+v", bag.Items())
	}
}

func TestUnifyLiteralVariables(t *testing.T) {
	env, bag := newTestEnv()
	in := env.Types()
	b := in.Builtins()
	i8, _ := in.Primitive("i8")
	u8, _ := in.Primitive("u8")

	tests := []struct {
		name string
		lit  types.Kind
		to   types.TypeID
		want UnifyResult
	}{
		{"uint literal into i8", types.KindUntypedUint, i8, UnifyOK},
		{"uint literal into f64", types.KindUntypedUint, b.F64, UnifyOK},
		{"int literal into u8", types.KindUntypedInt, u8, UnifyMismatch},
		{"int literal into f32", types.KindUntypedInt, b.F32, UnifyOK},
		{"float literal into int", types.KindUntypedFloat, b.Int, UnifyMismatch},
		{"float literal into bool", types.KindUntypedFloat, b.Bool, UnifyMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := env.allocLiteral(tt.lit, testSpan)
			if got := env.unifyTypes(tt.to, lit, testSpan); got != tt.want {
				t.Fatalf("unify = %s, want %s", got, tt.want)
			}
			if tt.want == UnifyOK && env.resolveID(lit) != tt.to {
				t.Fatalf("literal not rewritten to %s", types.Label(in, tt.to))
			}
		})
	}
	if got := bag.Count(diag.SemaUnifyTypeError); got != 3 {
		t.Fatalf("expected 3 mismatches, got %d", got)
	}
}

func TestLiteralMergeKeepsNarrowerFamily(t *testing.T) {
	env, _ := newTestEnv()
	b := env.Types().Builtins()
	u := env.allocLiteral(types.KindUntypedUint, testSpan)
	f := env.allocLiteral(types.KindUntypedFloat, testSpan)
	env.unifyTypes(u, f, testSpan)
	env.applyDefaults()
	if got := env.resolveID(u); got != b.F32 {
		t.Fatalf("merged literal defaulted to %s, want f32", types.Label(env.Types(), got))
	}
}

func TestUnifyAutoCopy(t *testing.T) {
	env, bag := newTestEnv()
	in := env.Types()
	b := in.Builtins()

	mutInt := in.WithModifier(b.Int, ast.ModMut)
	constInt := in.WithModifier(b.Int, ast.ModConst)
	if got := env.unifyTypes(mutInt, constInt, testSpan); got != UnifyNeedsAutoCopy {
		t.Fatalf("mut <- const int = %s, want auto-copy", got)
	}
	if got := env.unifyTypes(constInt, mutInt, testSpan); got != UnifyOK {
		t.Fatalf("const <- mut int = %s, want ok", got)
	}
	ref := in.Intern(types.MakeReference(b.Int, false))
	if got := env.unifyTypes(b.Int, ref, testSpan); got != UnifyNeedsAutoCopy {
		t.Fatalf("int <- &int = %s, want auto-copy", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}

	named := in.RegisterNamed(ast.DeclID(7), "Big")
	mutNamed := in.WithModifier(named, ast.ModMut)
	constNamed := in.WithModifier(named, ast.ModConst)
	if got := env.unifyTypes(mutNamed, constNamed, testSpan); got != UnifyMismatch {
		t.Fatalf("non-copy value must not be copied implicitly, got %s", got)
	}
}

func TestUnifyStructural(t *testing.T) {
	env, bag := newTestEnv()
	in := env.Types()
	b := in.Builtins()

	arr3 := in.Intern(types.MakeArray(b.Int, 3))
	arr4 := in.Intern(types.MakeArray(b.Int, 4))
	if got := env.unifyTypes(arr3, arr4, testSpan); got != UnifyMismatch {
		t.Fatalf("array length mismatch not detected: %s", got)
	}
	mutRef := in.Intern(types.MakeReference(b.Int, true))
	ref := in.Intern(types.MakeReference(b.Int, false))
	if got := env.unifyTypes(mutRef, ref, testSpan); got != UnifyMismatch {
		t.Fatalf("reference mutability mismatch not detected: %s", got)
	}

	v := env.fresh(testSpan)
	fnA := in.RegisterFn([]types.TypeID{v}, b.Bool)
	fnB := in.RegisterFn([]types.TypeID{b.Char}, b.Bool)
	if got := env.unifyTypes(fnA, fnB, testSpan); got != UnifyOK {
		t.Fatalf("fn unify = %s", got)
	}
	if env.resolveID(v) != b.Char {
		t.Fatal("parameter variable not bound through function type")
	}
	if got := bag.Count(diag.SemaUnifyTypeError); got != 2 {
		t.Fatalf("expected 2 faults, got %+v", bag.Items())
	}
}

func TestUnifyErrorTypeAbsorbs(t *testing.T) {
	env, bag := newTestEnv()
	b := env.Types().Builtins()
	if got := env.unifyTypes(b.Error, b.Bool, testSpan); got != UnifyOK {
		t.Fatalf("error type should unify with anything, got %s", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected faults: %+v", bag.Items())
	}
}
