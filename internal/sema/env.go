package sema

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/types"
)

// VarID numbers inference variables; NoVarID marks a known type.
type VarID uint32

const NoVarID VarID = 0

// InferType is either a known type or an inference variable.
type InferType struct {
	Var   VarID        `msgpack:"var,omitempty" json:"var,omitempty"`
	Known types.TypeID `msgpack:"known,omitempty" json:"known,omitempty"`
	Span  source.Span  `msgpack:"span" json:"span"`
}

// Known wraps a concrete type.
func Known(id types.TypeID) InferType {
	return InferType{Known: id}
}

// IsVar reports whether t is an inference variable.
func (t InferType) IsVar() bool { return t.Var != NoVarID }

// UnifyResult is the outcome of a unification.
type UnifyResult uint8

const (
	UnifyOK UnifyResult = iota
	UnifyNeedsAutoCopy
	UnifyMismatch
)

func (r UnifyResult) String() string {
	switch r {
	case UnifyOK:
		return "ok"
	case UnifyNeedsAutoCopy:
		return "needs-auto-copy"
	default:
		return "mismatch"
	}
}

// maxTypeDepth bounds structural recursion over types.
const maxTypeDepth = 64

// Env owns inference variables and their substitution.
type Env struct {
	in       *types.Interner
	reporter diag.Reporter
	next     uint32
	subst    map[VarID]types.TypeID
	origin   map[VarID]source.Span
	// literal marks variables standing for untyped numeric literals; the
	// kind narrows as literals are unified with each other.
	literal map[VarID]types.Kind
}

// NewEnv creates an environment interning into in.
func NewEnv(in *types.Interner, reporter diag.Reporter) *Env {
	return &Env{
		in:       in,
		reporter: reporter,
		subst:    make(map[VarID]types.TypeID),
		origin:   make(map[VarID]source.Span),
		literal:  make(map[VarID]types.Kind),
	}
}

// Types returns the interner the environment works on.
func (e *Env) Types() *types.Interner { return e.in }

// Len returns how many variables were allocated.
func (e *Env) Len() int { return int(e.next) }

// AllocVariable mints an unconstrained variable.
func (e *Env) AllocVariable(span source.Span) InferType {
	n, err := safecast.Conv[uint32](uint64(e.next) + 1)
	if err != nil {
		panic(fmt.Errorf("inference variable overflow: %w", err))
	}
	e.next = n
	v := VarID(n)
	e.origin[v] = span
	return InferType{Var: v, Known: e.in.Var(n), Span: span}
}

// allocLiteral mints a variable for an untyped literal of kind lit.
func (e *Env) allocLiteral(lit types.Kind, span source.Span) types.TypeID {
	t := e.AllocVariable(span)
	e.literal[t.Var] = lit
	return t.Known
}

// fresh mints a variable and returns its type.
func (e *Env) fresh(span source.Span) types.TypeID {
	return e.AllocVariable(span).Known
}

// Type converts t to a TypeID; variables map to their KindVar type.
func (e *Env) Type(t InferType) types.TypeID {
	if t.IsVar() {
		return e.in.Var(uint32(t.Var))
	}
	return t.Known
}

// Infer wraps a TypeID, unpacking variables.
func (e *Env) Infer(id types.TypeID) InferType {
	if v := e.varOf(id); v != NoVarID {
		return InferType{Var: v, Known: id, Span: e.origin[v]}
	}
	return Known(id)
}

func (e *Env) varOf(id types.TypeID) VarID {
	tt, ok := e.in.Lookup(id)
	if !ok || tt.Kind != types.KindVar {
		return NoVarID
	}
	return VarID(tt.Payload)
}

// Resolve follows the substitution chain until a known type or an unbound
// variable. A cycle is an internal error and yields the error type.
func (e *Env) Resolve(t InferType) InferType {
	id := e.resolveID(e.Type(t))
	out := e.Infer(id)
	if out.Span.Empty() {
		out.Span = t.Span
	}
	return out
}

func (e *Env) resolveID(id types.TypeID) types.TypeID {
	outer, ok := e.in.Lookup(id)
	if !ok {
		return id
	}
	var seen map[VarID]struct{}
	for {
		v := e.varOf(id)
		if v == NoVarID {
			break
		}
		next, bound := e.subst[v]
		if !bound {
			break
		}
		if seen == nil {
			seen = make(map[VarID]struct{}, 4)
		}
		if _, dup := seen[v]; dup {
			diag.ReportInternal(e.reporter, e.origin[v], "substitution cycle through variable %d", v)
			return e.in.Builtins().Error
		}
		seen[v] = struct{}{}
		id = next
	}
	if outer.Modifier != ast.ModDefault {
		id = e.in.WithModifier(id, outer.Modifier)
	}
	return id
}

// Unify equates expect and got. A mismatch records exactly one
// UnifyTypeError naming both types.
func (e *Env) Unify(expect, got InferType, span source.Span) UnifyResult {
	return e.unifyTypes(e.Type(expect), e.Type(got), span)
}

func (e *Env) unifyTypes(expect, got types.TypeID, span source.Span) UnifyResult {
	res, reason := e.unify(expect, got, 0)
	if res == UnifyMismatch {
		msg := fmt.Sprintf("type mismatch: expected '%s', got '%s'", e.Label(expect), e.Label(got))
		if reason != "" {
			msg += ": " + reason
		}
		diag.ReportError(e.reporter, diag.SemaUnifyTypeError, span, msg).Emit()
	}
	return res
}

func (e *Env) unify(expect, got types.TypeID, depth int) (UnifyResult, string) {
	if depth > maxTypeDepth {
		return UnifyMismatch, "type is too deeply nested"
	}
	a, b := e.resolveID(expect), e.resolveID(got)
	if a == types.NoTypeID || b == types.NoTypeID {
		return UnifyOK, ""
	}
	ta, _ := e.in.Lookup(a)
	tb, _ := e.in.Lookup(b)

	if ta.Kind == types.KindVar {
		return e.bind(VarID(ta.Payload), b)
	}
	if tb.Kind == types.KindVar {
		return e.bind(VarID(tb.Payload), a)
	}
	if ta.Kind == types.KindError || tb.Kind == types.KindError {
		return UnifyOK, ""
	}

	res := UnifyOK
	if ta.Modifier != ast.ModDefault && tb.Modifier != ast.ModDefault && !modifierCompatible(ta.Modifier, tb.Modifier) {
		if !e.in.IsCopy(b) {
			return UnifyMismatch, fmt.Sprintf("a '%s' value cannot be copied into a '%s' binding", tb.Modifier, ta.Modifier)
		}
		res = UnifyNeedsAutoCopy
	}

	// an owned copy can be taken out of a reference
	if tb.Kind == types.KindReference && ta.Kind != types.KindReference {
		inner, reason := e.unify(a, tb.Elem, depth+1)
		if inner == UnifyMismatch {
			return inner, reason
		}
		if !e.in.IsCopy(e.resolveID(tb.Elem)) {
			return UnifyMismatch, "the referenced value cannot be copied implicitly"
		}
		return UnifyNeedsAutoCopy, ""
	}

	if ta.Kind.IsUntyped() && types.UntypedFits(ta.Kind, tb.Kind) ||
		tb.Kind.IsUntyped() && types.UntypedFits(tb.Kind, ta.Kind) {
		return res, ""
	}
	if ta.Kind != tb.Kind {
		return UnifyMismatch, ""
	}

	var inner UnifyResult
	var reason string
	switch ta.Kind {
	case types.KindArray:
		if ta.Array != tb.Array {
			return UnifyMismatch, fmt.Sprintf("%s array is not compatible with %s array", tb.Array, ta.Array)
		}
		if ta.Array == types.ArrayStack && ta.Count != tb.Count {
			return UnifyMismatch, fmt.Sprintf("length %d differs from %d", tb.Count, ta.Count)
		}
		inner, reason = e.unify(ta.Elem, tb.Elem, depth+1)
	case types.KindReference:
		if ta.Mutable != tb.Mutable {
			return UnifyMismatch, ""
		}
		inner, reason = e.unify(ta.Elem, tb.Elem, depth+1)
	case types.KindPointer, types.KindOptional:
		inner, reason = e.unify(ta.Elem, tb.Elem, depth+1)
	case types.KindFn:
		inner, reason = e.unifyFn(a, b, depth)
	case types.KindNamed:
		if ta.Decl != tb.Decl {
			return UnifyMismatch, ""
		}
	case types.KindInt, types.KindUint, types.KindFloat:
		if ta.Width != tb.Width {
			return UnifyMismatch, ""
		}
	}
	if inner == UnifyMismatch {
		return inner, reason
	}
	return max(res, inner), ""
}

func (e *Env) unifyFn(a, b types.TypeID, depth int) (UnifyResult, string) {
	fa, okA := e.in.FnInfo(a)
	fb, okB := e.in.FnInfo(b)
	if !okA || !okB {
		return UnifyMismatch, ""
	}
	if len(fa.Params) != len(fb.Params) {
		return UnifyMismatch, fmt.Sprintf("%d parameters differ from %d", len(fb.Params), len(fa.Params))
	}
	for i := range fa.Params {
		if r, reason := e.unify(fa.Params[i], fb.Params[i], depth+1); r == UnifyMismatch {
			return r, reason
		}
	}
	return e.unify(fa.Result, fb.Result, depth+1)
}

// bind installs v := to. Literal variables only accept numbers they fit.
func (e *Env) bind(v VarID, to types.TypeID) (UnifyResult, string) {
	to = e.in.Unqualified(to)
	w := e.varOf(to)
	if w == v {
		return UnifyOK, ""
	}
	lit, isLit := e.literal[v]
	if w != NoVarID {
		other, otherLit := e.literal[w]
		switch {
		case isLit && otherLit:
			// both must hold: keep the narrower family
			if types.Precedence(lit) < types.Precedence(other) {
				e.literal[w] = lit
			}
			e.subst[v] = to
		case isLit:
			e.subst[w] = e.in.Var(uint32(v))
		default:
			e.subst[v] = to
		}
		return UnifyOK, ""
	}
	if isLit {
		kind := e.in.Kind(to)
		switch {
		case kind == types.KindError:
		case kind.IsUntyped():
			if types.Precedence(kind) < types.Precedence(lit) {
				e.literal[v] = kind
			}
			return UnifyOK, ""
		case !types.UntypedFits(lit, kind):
			return UnifyMismatch, ""
		}
	}
	if e.occurs(v, to, 0) {
		return UnifyMismatch, "type would contain itself"
	}
	e.subst[v] = to
	return UnifyOK, ""
}

func (e *Env) occurs(v VarID, id types.TypeID, depth int) bool {
	if depth > maxTypeDepth {
		return true
	}
	id = e.resolveID(id)
	tt, ok := e.in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindVar:
		return VarID(tt.Payload) == v
	case types.KindArray, types.KindReference, types.KindPointer, types.KindOptional:
		return e.occurs(v, tt.Elem, depth+1)
	case types.KindFn:
		info, _ := e.in.FnInfo(id)
		if info == nil {
			return false
		}
		return slices.ContainsFunc(info.Params, func(p types.TypeID) bool { return e.occurs(v, p, depth+1) }) ||
			e.occurs(v, info.Result, depth+1)
	}
	return false
}

// modifierCompatible reports whether a value bound with got may flow into a
// binding declared with expect without a copy.
func modifierCompatible(expect, got ast.Modifier) bool {
	switch {
	case expect == ast.ModMut && got == ast.ModConst,
		expect == ast.ModMut && got == ast.ModLiteral,
		expect == ast.ModConst && got == ast.ModLiteral:
		return false
	}
	return true
}

// zonk replaces every bound variable in id; leaf decides what an unbound
// variable becomes.
func (e *Env) zonk(id types.TypeID, leaf func(VarID, types.TypeID) types.TypeID, depth int) types.TypeID {
	if depth > maxTypeDepth {
		diag.ReportInternal(e.reporter, source.Span{}, "type %d is nested too deeply", id)
		return e.in.Builtins().Error
	}
	id = e.resolveID(id)
	tt, ok := e.in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case types.KindVar:
		out := leaf(VarID(tt.Payload), id)
		if tt.Modifier != ast.ModDefault {
			out = e.in.WithModifier(out, tt.Modifier)
		}
		return out
	case types.KindArray, types.KindReference, types.KindPointer, types.KindOptional:
		elem := e.zonk(tt.Elem, leaf, depth+1)
		if elem == tt.Elem {
			return id
		}
		tt.Elem = elem
		return e.in.Intern(tt)
	case types.KindFn:
		info, _ := e.in.FnInfo(id)
		if info == nil {
			return id
		}
		params := make([]types.TypeID, len(info.Params))
		changed := false
		for i, p := range info.Params {
			params[i] = e.zonk(p, leaf, depth+1)
			changed = changed || params[i] != p
		}
		result := e.zonk(info.Result, leaf, depth+1)
		if !changed && result == info.Result {
			return id
		}
		return e.in.WithModifier(e.in.RegisterFn(params, result), tt.Modifier)
	}
	return id
}

// Label renders id for messages; literal variables print as their untyped kind.
func (e *Env) Label(id types.TypeID) string {
	b := e.in.Builtins()
	shown := e.zonk(id, func(v VarID, id types.TypeID) types.TypeID {
		switch e.literal[v] {
		case types.KindUntypedInt:
			return b.UntypedInt
		case types.KindUntypedUint:
			return b.UntypedUint
		case types.KindUntypedFloat:
			return b.UntypedFloat
		}
		return id
	}, 0)
	return types.Label(e.in, shown)
}

// applyDefaults settles every unbound literal variable on its default type.
func (e *Env) applyDefaults() {
	b := e.in.Builtins()
	vars := make([]VarID, 0, len(e.literal))
	for v := range e.literal {
		vars = append(vars, v)
	}
	slices.Sort(vars)
	for _, v := range vars {
		if _, bound := e.subst[v]; bound {
			continue
		}
		switch e.literal[v] {
		case types.KindUntypedFloat:
			e.subst[v] = b.F32
		default:
			e.subst[v] = b.Int
		}
	}
}

// isLiteral reports whether id resolves to an untyped literal variable.
func (e *Env) isLiteral(id types.TypeID) bool {
	v := e.varOf(e.resolveID(id))
	_, ok := e.literal[v]
	return v != NoVarID && ok
}
