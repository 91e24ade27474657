package types

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"soul/internal/ast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Error        TypeID
	Unit         TypeID
	None         TypeID
	Bool         TypeID
	Char         TypeID
	String       TypeID
	Int          TypeID
	Uint         TypeID
	F32          TypeID
	F64          TypeID
	UntypedInt   TypeID
	UntypedUint  TypeID
	UntypedFloat TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types      []Type
	index      map[typeKey]TypeID
	builtins   Builtins
	primitives map[string]TypeID
	fns        []FnInfo
	named      []NamedInfo
	namedDecl  map[ast.DeclID]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{}
	in.reset()
	in.seed()
	return in
}

func (in *Interner) reset() {
	in.types = in.types[:0]
	in.index = make(map[typeKey]TypeID, 64)
	in.primitives = make(map[string]TypeID, 16)
	in.namedDecl = make(map[ast.DeclID]TypeID)
	in.fns = append(in.fns[:0], FnInfo{})        // reserve 0 as invalid sentinel
	in.named = append(in.named[:0], NamedInfo{}) // reserve 0 as invalid sentinel
	in.internRaw(Type{Kind: KindInvalid})
}

func (in *Interner) seed() {
	b := &in.builtins
	b.Error = in.Intern(Type{Kind: KindError})
	b.Unit = in.Intern(Type{Kind: KindUnit})
	b.None = in.Intern(Type{Kind: KindNone})
	b.Bool = in.Intern(Type{Kind: KindBool})
	b.Char = in.Intern(Type{Kind: KindChar})
	b.String = in.Intern(Type{Kind: KindString})
	b.Int = in.Intern(MakeInt(WidthAny))
	b.Uint = in.Intern(MakeUint(WidthAny))
	b.F32 = in.Intern(MakeFloat(Width32))
	b.F64 = in.Intern(MakeFloat(Width64))
	b.UntypedInt = in.Intern(Type{Kind: KindUntypedInt})
	b.UntypedUint = in.Intern(Type{Kind: KindUntypedUint})
	b.UntypedFloat = in.Intern(Type{Kind: KindUntypedFloat})

	in.primitives["int"] = b.Int
	in.primitives["uint"] = b.Uint
	for _, w := range []Width{Width8, Width16, Width32, Width64} {
		in.primitives[fmt.Sprintf("i%d", w)] = in.Intern(MakeInt(w))
		in.primitives[fmt.Sprintf("u%d", w)] = in.Intern(MakeUint(w))
	}
	in.primitives["f32"] = b.F32
	in.primitives["f64"] = b.F64
	in.primitives["bool"] = b.Bool
	in.primitives["char"] = b.Char
	in.primitives["str"] = b.String
	in.primitives["none"] = b.None
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Primitive returns the builtin type spelled name.
func (in *Interner) Primitive(name string) (TypeID, bool) {
	id, ok := in.primitives[name]
	return id, ok
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns the kind of id or KindInvalid.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Len reports the number of interned types including the sentinel.
func (in *Interner) Len() int { return len(in.types) }

// WithModifier returns id with its binding modifier replaced.
func (in *Interner) WithModifier(id TypeID, mod ast.Modifier) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Modifier == mod {
		return id
	}
	tt.Modifier = mod
	return in.Intern(tt)
}

// Unqualified strips the binding modifier.
func (in *Interner) Unqualified(id TypeID) TypeID {
	return in.WithModifier(id, ast.ModDefault)
}

// Var returns the TypeID standing for inference variable n.
func (in *Interner) Var(n uint32) TypeID {
	return in.Intern(MakeVar(n))
}

type typeKey Type

type internerWire struct {
	Types []Type      `msgpack:"types"`
	Fns   []FnInfo    `msgpack:"fns"`
	Named []NamedInfo `msgpack:"named"`
}

// EncodeMsgpack writes the type table; TypeIDs stay stable across a round trip.
func (in *Interner) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(internerWire{Types: in.types, Fns: in.fns, Named: in.named})
}

// DecodeMsgpack restores a table written by EncodeMsgpack.
func (in *Interner) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w internerWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	in.reset()
	for _, t := range w.Types[min(1, len(w.Types)):] {
		in.internRaw(t)
	}
	if len(w.Fns) > 0 {
		in.fns = w.Fns
	}
	if len(w.Named) > 0 {
		in.named = w.Named
	}
	for id, t := range in.types {
		if t.Kind == KindNamed {
			in.namedDecl[t.Decl] = TypeID(id) //nolint:gosec // bounded by internRaw
		}
	}
	in.seed()
	return nil
}
