package types

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"soul/internal/ast"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Unit == NoTypeID || b.Bool == NoTypeID || b.UntypedInt == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	for _, name := range []string{"int", "i8", "i64", "uint", "u16", "f32", "f64", "bool", "char", "str", "none"} {
		if _, ok := in.Primitive(name); !ok {
			t.Fatalf("primitive %q missing", name)
		}
	}
	if id, _ := in.Primitive("int"); id != b.Int {
		t.Fatalf("int must map to the platform integer")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().String
	arr1 := in.Intern(MakeArray(elem, 3))
	arr2 := in.Intern(MakeArray(elem, 3))
	if arr1 != arr2 {
		t.Fatalf("array types should be deduplicated")
	}
	if in.Intern(MakeSlice(elem)) == arr1 || in.Intern(MakeHeapArray(elem, 3)) == arr1 {
		t.Fatalf("array storage kinds must differ")
	}
}

func TestReferenceMutabilityAffectsIdentity(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().Int
	mut := in.Intern(MakeReference(elem, true))
	imm := in.Intern(MakeReference(elem, false))
	if mut == imm {
		t.Fatalf("mutable and immutable references must differ")
	}
	if in.IsCopy(mut) || !in.IsCopy(imm) {
		t.Fatalf("only shared references are copy")
	}
}

func TestModifierAndLabels(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	mutInt := in.WithModifier(b.Int, ast.ModMut)
	if mutInt == b.Int || in.Unqualified(mutInt) != b.Int {
		t.Fatalf("modifier must change identity and strip back")
	}
	point := in.RegisterNamed(ast.DeclID(7), "Point")
	if in.RegisterNamed(ast.DeclID(7), "Point") != point {
		t.Fatalf("named types are keyed by declaration")
	}
	fn := in.RegisterFn([]TypeID{b.Int, point}, b.Bool)
	cases := map[TypeID]string{
		mutInt:                             "mut int",
		in.Intern(MakeArray(b.Int, 4)):     "int[4]",
		in.Intern(MakeOptional(point)):     "Point?",
		fn:                                 "fn(int, Point) bool",
		b.UntypedFloat:                     "{untyped float}",
		in.WithModifier(point, ast.ModMut): "mut Point",
	}
	for id, want := range cases {
		if got := Label(in, id); got != want {
			t.Fatalf("label: expected %q, got %q", want, got)
		}
	}
}

func TestNumericRules(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	fits := []struct {
		lit, target Kind
		want        bool
	}{
		{KindUntypedUint, KindUint, true},
		{KindUntypedUint, KindInt, true},
		{KindUntypedUint, KindFloat, true},
		{KindUntypedInt, KindInt, true},
		{KindUntypedInt, KindFloat, true},
		{KindUntypedInt, KindUint, false},
		{KindUntypedFloat, KindFloat, true},
		{KindUntypedFloat, KindInt, false},
		{KindUntypedInt, KindBool, false},
	}
	for _, tc := range fits {
		if got := UntypedFits(tc.lit, tc.target); got != tc.want {
			t.Fatalf("UntypedFits(%v, %v) = %v, want %v", tc.lit, tc.target, got, tc.want)
		}
	}
	if in.DefaultFor(b.UntypedInt) != b.Int || in.DefaultFor(b.UntypedUint) != b.Int || in.DefaultFor(b.UntypedFloat) != b.F32 {
		t.Fatalf("untyped defaults wrong")
	}
	i8, _ := in.Primitive("i8")
	if in.Wider(b.UntypedInt, i8) != i8 || in.Wider(b.F64, b.F32) != b.F64 || in.Wider(b.UntypedUint, b.UntypedFloat) != b.UntypedFloat {
		t.Fatalf("wider picks the wrong operand")
	}
}

func TestInternerMsgpackRoundTrip(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	point := in.RegisterNamed(ast.DeclID(3), "Point")
	fn := in.RegisterFn([]TypeID{point}, b.Unit)
	arr := in.Intern(MakeArray(fn, 2))

	data, err := msgpack.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := NewInterner()
	if err := msgpack.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Len() != in.Len() {
		t.Fatalf("expected %d types, got %d", in.Len(), out.Len())
	}
	if Label(out, arr) != Label(in, arr) {
		t.Fatalf("labels differ after round trip: %q vs %q", Label(out, arr), Label(in, arr))
	}
	if out.RegisterNamed(ast.DeclID(3), "Point") != point {
		t.Fatalf("named index not rebuilt")
	}
	if out.Builtins() != in.Builtins() {
		t.Fatalf("builtins differ after round trip")
	}
}
