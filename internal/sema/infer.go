package sema

import (
	"context"
	"strconv"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/hir"
	"soul/internal/source"
	"soul/internal/trace"
	"soul/internal/types"
)

// Options configures inference.
type Options struct {
	Reporter diag.Reporter
}

// Infer runs unification over every item of m and returns the typed tables.
// Faults never stop the walk: mismatching expressions are typed as the error
// type and inference continues.
func Infer(ctx context.Context, m *hir.Module, opts Options) *TypedResponse {
	_, span := trace.Start(ctx, trace.ScopePass, "infer")
	defer span.End("")

	bag := diag.NewBag(0)
	reporter := diag.Tee(diag.BagReporter{Bag: bag}, opts.Reporter)
	c := &checker{
		m:          m,
		in:         m.Types,
		env:        NewEnv(m.Types, reporter),
		reporter:   reporter,
		res:        newTypedResponse(),
		exprTypes:  make(map[hir.ExprID]types.TypeID),
		localTypes: make(map[hir.LocalID]types.TypeID),
	}
	c.run()

	span.Set("vars", strconv.Itoa(c.env.Len())).
		Set("auto_copies", strconv.Itoa(len(c.res.AutoCopies)))
	c.res.Faults = bag.Items()
	return c.res
}

type checker struct {
	m        *hir.Module
	in       *types.Interner
	env      *Env
	reporter diag.Reporter
	res      *TypedResponse

	exprTypes  map[hir.ExprID]types.TypeID
	localTypes map[hir.LocalID]types.TypeID

	// result is the declared result of the function being checked, or
	// NoTypeID at global scope.
	result types.TypeID
}

func (c *checker) run() {
	c.seedLocals()

	for _, sid := range c.m.Globals {
		c.inferGlobal(sid)
	}
	for _, it := range c.m.SortedItems() {
		c.inferItem(it)
	}

	c.env.applyDefaults()
	c.finalize()
}

// seedLocals gives every local its declared type, or a fresh variable.
func (c *checker) seedLocals() {
	for i := 1; i < len(c.m.Locals); i++ {
		id := hir.LocalID(i) //nolint:gosec // bounded by IDGen
		l := c.m.Locals[i]
		t := l.Type
		if t == types.NoTypeID {
			t = c.env.fresh(c.m.LocalSpan(id))
		}
		c.localTypes[id] = t
	}
}

func (c *checker) inferItem(it *hir.Item) {
	switch it.Kind {
	case hir.ItemFunc:
		c.inferFunc(it.Func)
		c.res.Types[it.Decl] = it.Func.Type
	case hir.ItemType:
		c.res.Types[it.Decl] = it.Type.Type
		for _, f := range it.Type.Fields {
			c.res.Types[f.Decl] = f.Type
		}
		for _, v := range it.Type.Variants {
			if v.Type != types.NoTypeID {
				c.res.Types[v.Decl] = v.Type
			}
		}
	case hir.ItemGlobal:
		// inferred with the global body
	}
}

// inferFunc seeds parameters from the signature, types the body and unifies
// its value with the declared result.
func (c *checker) inferFunc(fn *hir.Func) {
	if !fn.Body.IsValid() {
		return
	}
	saved := c.result
	c.result = fn.Result
	defer func() { c.result = saved }()

	for _, p := range fn.Params {
		c.localTypes[p.Local] = p.Type
	}
	bodyType, diverges := c.inferBlock(fn.Body)
	body := c.m.Block(fn.Body)
	switch {
	case body.Tail.IsValid():
		c.unifyExpr(body.Tail, fn.Result, bodyType, c.m.ExprSpan(body.Tail))
	case !diverges:
		c.unify(fn.Result, bodyType, c.m.Spans.Blocks[fn.Body])
	}
}

// unify equates two types and reports at span.
func (c *checker) unify(expect, got types.TypeID, span source.Span) UnifyResult {
	return c.env.unifyTypes(expect, got, span)
}

// unifyExpr unifies the type of value with expect, recording auto-copies on
// value and poisoning it on mismatch.
func (c *checker) unifyExpr(value hir.ExprID, expect, got types.TypeID, span source.Span) {
	switch c.unify(expect, got, span) {
	case UnifyNeedsAutoCopy:
		if value.IsValid() {
			c.res.AutoCopies.Add(value)
		}
	case UnifyMismatch:
		if value.IsValid() {
			c.exprTypes[value] = c.in.Builtins().Error
		}
	}
}

func (c *checker) errorType() types.TypeID {
	return c.in.Builtins().Error
}

// finalize resolves every recorded type, reporting variables nothing
// constrained.
func (c *checker) finalize() {
	reported := make(map[VarID]bool)
	leaf := func(v VarID, _ types.TypeID) types.TypeID {
		if !reported[v] {
			reported[v] = true
			diag.ReportError(c.reporter, diag.SemaUnresolvedType, c.env.origin[v], "type was not resolved").
				WithNote(c.env.origin[v], "add a type annotation").
				Emit()
		}
		return c.errorType()
	}

	for i := 1; i < len(c.m.Locals); i++ {
		id := hir.LocalID(i) //nolint:gosec // bounded by IDGen
		t := c.env.zonk(c.localTypes[id], leaf, 0)
		if mod := c.m.Locals[i].Modifier; mod != ast.ModDefault {
			t = c.in.WithModifier(t, mod)
		}
		c.res.LocalTypes[id] = t
		if decl := c.m.Locals[i].Decl; decl.IsValid() {
			c.res.Types[decl] = t
		}
	}
	for i := 1; i < len(c.m.Exprs); i++ {
		id := hir.ExprID(i) //nolint:gosec // bounded by IDGen
		if t, ok := c.exprTypes[id]; ok {
			c.res.ExprTypes[id] = c.env.zonk(t, leaf, 0)
		}
	}
}
