package symbols

import (
	"context"
	"fmt"
	"strconv"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
	"soul/internal/trace"
)

// Options configures a resolve run.
type Options struct {
	Reporter diag.Reporter
}

// Result is the immutable outcome of name resolution.
type Result struct {
	Table *Table
	Decls *Decls
	Impls *ImplStore
}

// Resolve runs the collect and resolve passes over the unit held by b.
// Declaration and scope IDs are written back into the tree. Every miss is
// reported and leaves NoDeclID; both passes always cover the whole tree.
func Resolve(ctx context.Context, b *ast.Builder, opts Options) *Result {
	ctx, span := trace.Start(ctx, trace.ScopePass, "resolve")
	defer span.End("")

	table := NewTable(b.Strings, opts.Reporter)
	r := &resolver{
		b:        b,
		table:    table,
		reporter: opts.Reporter,
		impls:    NewImplStore(),
		passed:   make(map[ast.DeclID]bool),
		pass:     span,
	}

	_, collect := trace.Start(ctx, trace.ScopePass, "resolve.collect")
	r.collectStmts(b.Root)
	collect.Set("decls", strconv.Itoa(table.Decls.Len())).End("")

	if table.Current() != ast.RootScopeID {
		diag.ReportInternal(r.reporter, source.Span{}, "collect pass left scope %d active", table.Current())
	}
	table.GoTo(ast.RootScopeID)

	_, walk := trace.Start(ctx, trace.ScopePass, "resolve.walk")
	r.resolveStmts(b.Root)
	walk.End("")
	r.verify()

	span.Set("scopes", strconv.Itoa(table.Len()))
	return &Result{Table: table, Decls: table.Decls, Impls: r.impls}
}

type resolver struct {
	b        *ast.Builder
	table    *Table
	reporter diag.Reporter
	impls    *ImplStore
	// passed marks variables whose declaring statement has been walked.
	passed map[ast.DeclID]bool
	pass   *trace.Span
}

func (r *resolver) declare(kind DeclKind, name source.StringID, span source.Span, mod ast.Modifier) ast.DeclID {
	id := r.table.Declare(Decl{Kind: kind, Name: name, Span: span, Modifier: mod})
	if r.pass.Enabled() {
		r.pass.Point("declare", fmt.Sprintf("%s %s #%d", kind, r.b.NameOf(name), id))
	}
	return id
}

// visible hides variables that are declared later in program order.
func (r *resolver) visible(e Entry) bool {
	return e.Kind != DeclVariable || r.passed[e.Decl]
}

// enter switches to a scope recorded by the collect pass and returns a
// function restoring the previous one.
func (r *resolver) enter(scope ast.ScopeID, at source.Span) func() {
	prev := r.table.Current()
	if !scope.IsValid() {
		diag.ReportInternal(r.reporter, at, "no scope recorded for node")
		return func() {}
	}
	if !r.table.GoTo(scope) {
		return func() {}
	}
	return func() { r.table.GoTo(prev) }
}

// verify reports a broken scope tree as an internal error.
func (r *resolver) verify() {
	if err := r.table.Validate(); err != nil {
		diag.ReportInternal(r.reporter, source.Span{}, "scope tree: %v", err)
	}
}

func (r *resolver) notFound(span source.Span, what string, name source.StringID) {
	msg := fmt.Sprintf("no %s named '%s' in scope", what, r.b.NameOf(name))
	diag.ReportError(r.reporter, diag.SemaNotFoundInScope, span, msg).Emit()
}
