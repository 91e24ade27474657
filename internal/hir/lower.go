package hir

import (
	"context"
	"fmt"
	"strconv"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/symbols"
	"soul/internal/trace"
	"soul/internal/types"
)

// Options configures lowering.
type Options struct {
	Reporter diag.Reporter
	// Types is shared with inference; a fresh interner is used when nil.
	Types *types.Interner
}

// Response is the result of lowering one unit.
type Response struct {
	Module *Module           `msgpack:"module" json:"module"`
	Faults []diag.Diagnostic `msgpack:"faults" json:"faults"`
}

// Lower transforms a resolved syntax tree into HIR.
// It performs the following desugaring:
//   - array literals become a synthetic stack-array local filled element by element
//   - if/else-if/else chains become a linked arm list
//   - non-place operands of &, *, [] and . are spilled into temporaries
//
// For-loops are kept as deferred nodes. Lowering never stops early: faults
// are recorded and the offending node is replaced by a poison expression or
// dropped.
func Lower(ctx context.Context, b *ast.Builder, resolved *symbols.Result, opts Options) *Response {
	_, span := trace.Start(ctx, trace.ScopePass, "lower")
	defer span.End("")

	bag := diag.NewBag(0)
	l := &lowerer{
		b:          b,
		decls:      resolved.Decls,
		m:          NewModule(opts.Types),
		reporter:   diag.Tee(diag.BagReporter{Bag: bag}, opts.Reporter),
		declLocals: make(map[ast.DeclID]LocalID),
		pass:       span,
	}
	l.body = CurrentBody{Kind: BodyGlobal}
	l.pushLocals()
	for _, id := range b.Root {
		l.lowerTopLevel(id)
	}
	l.popLocals()

	span.Set("exprs", strconv.FormatUint(uint64(l.m.IDs.Exprs), 10)).
		Set("faults", strconv.Itoa(bag.Len()))
	return &Response{Module: l.m, Faults: bag.Items()}
}

// lowerer holds context for the lowering pass.
type lowerer struct {
	b        *ast.Builder
	decls    *symbols.Decls
	m        *Module
	reporter diag.Reporter

	body CurrentBody
	// scopes is the local-name stack of the function being lowered.
	scopes     []map[source.StringID]LocalID
	declLocals map[ast.DeclID]LocalID
	temps      int

	pass *trace.Span
}

func (l *lowerer) pushLocals() {
	l.scopes = append(l.scopes, make(map[source.StringID]LocalID))
}

func (l *lowerer) popLocals() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

func (l *lowerer) bindLocal(name source.StringID, decl ast.DeclID, local LocalID) {
	l.scopes[len(l.scopes)-1][name] = local
	if decl.IsValid() {
		l.declLocals[decl] = local
	}
}

// lookupLocal searches the local stack innermost first for a slot bound to
// decl under name; globals and outer frames fall back to the decl index.
func (l *lowerer) lookupLocal(name source.StringID, decl ast.DeclID) LocalID {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if id, ok := l.scopes[i][name]; ok && l.m.Locals[id].Decl == decl {
			return id
		}
	}
	return l.declLocals[decl]
}

// withBody runs fn with synthesized statements redirected to body.
func (l *lowerer) withBody(body CurrentBody, fn func()) {
	saved := l.body
	l.body = body
	fn()
	l.body = saved
}

// emit appends a statement to the current body.
func (l *lowerer) emit(st Stmt, span source.Span, attr Attr) StmtID {
	id := l.m.newStmt(st, span)
	if attr != 0 {
		l.m.Attrs.Stmts[id] |= attr
	}
	switch l.body.Kind {
	case BodyGlobal:
		l.m.Globals = append(l.m.Globals, id)
	case BodyBlock:
		blk := l.m.Block(l.body.Block)
		if blk == nil {
			diag.ReportInternal(l.reporter, span, "current body block %d does not exist", l.body.Block)
			return id
		}
		blk.Stmts = append(blk.Stmts, id)
	}
	return id
}

func (l *lowerer) name(id source.StringID) string {
	return l.b.NameOf(id)
}

func (l *lowerer) invalidContext(span source.Span, format string, args ...any) {
	diag.ReportError(l.reporter, diag.SemaInvalidContext, span, fmt.Sprintf(format, args...)).Emit()
}
