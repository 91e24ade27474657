package types

// Numeric precedence orders number families: an untyped value of family p
// fits a concrete target of family q when p >= q. Unsigned literals fit
// every number, signed literals fit signed and float, float literals only float.
const (
	PrecNone     = 0
	PrecFloat    = 1
	PrecSigned   = 2
	PrecUnsigned = 3
)

// Precedence returns the numeric family rank of k, or PrecNone.
func Precedence(k Kind) int {
	switch k {
	case KindFloat, KindUntypedFloat:
		return PrecFloat
	case KindInt, KindUntypedInt:
		return PrecSigned
	case KindUint, KindUntypedUint:
		return PrecUnsigned
	}
	return PrecNone
}

// UntypedFits reports whether an untyped literal of kind lit may become target.
func UntypedFits(lit, target Kind) bool {
	if !lit.IsUntyped() || !target.IsNumeric() || target.IsUntyped() {
		return false
	}
	return Precedence(lit) >= Precedence(target)
}

// DefaultFor returns the type an unconstrained untyped literal settles on:
// int and uint literals become int, float literals become f32.
func (in *Interner) DefaultFor(id TypeID) TypeID {
	switch in.Kind(id) {
	case KindUntypedInt, KindUntypedUint:
		return in.builtins.Int
	case KindUntypedFloat:
		return in.builtins.F32
	}
	return id
}

// Wider picks the operand type a binary numeric expression takes: concrete
// beats untyped, then the lower precedence family (float over integers), then
// the wider width.
func (in *Interner) Wider(a, b TypeID) TypeID {
	ta, okA := in.Lookup(a)
	tb, okB := in.Lookup(b)
	switch {
	case !okA:
		return b
	case !okB:
		return a
	case ta.Kind.IsUntyped() != tb.Kind.IsUntyped():
		if ta.Kind.IsUntyped() {
			return b
		}
		return a
	case Precedence(ta.Kind) != Precedence(tb.Kind):
		if Precedence(ta.Kind) < Precedence(tb.Kind) {
			return a
		}
		return b
	case tb.Width == WidthAny || (ta.Width != WidthAny && tb.Width > ta.Width):
		return b
	}
	return a
}

// IsCopy reports whether values of id may be duplicated implicitly.
func (in *Interner) IsCopy(id TypeID) bool {
	return in.isCopyDepth(id, 0)
}

func (in *Interner) isCopyDepth(id TypeID, depth int) bool {
	if depth > 16 {
		return false
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindError, KindUnit, KindNone, KindBool, KindChar,
		KindInt, KindUint, KindFloat, KindUntypedInt, KindUntypedUint, KindUntypedFloat,
		KindPointer:
		return true
	case KindReference:
		return !tt.Mutable
	case KindOptional:
		return in.isCopyDepth(tt.Elem, depth+1)
	case KindArray:
		return tt.Array == ArrayStack && in.isCopyDepth(tt.Elem, depth+1)
	}
	return false
}
