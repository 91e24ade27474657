package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

type (
	tracerKey struct{}
	parentKey struct{}
	unitKey   struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil tracer disables tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// WithUnit names the unit that spans started from ctx belong to.
func WithUnit(ctx context.Context, unit string) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

// UnitFromContext returns the unit set by WithUnit.
func UnitFromContext(ctx context.Context) string {
	if ctx != nil {
		if u, ok := ctx.Value(unitKey{}).(string); ok {
			return u
		}
	}
	return ""
}

func parentFrom(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(parentKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

// Span is an open operation. A span whose scope is filtered out is inert:
// all its methods are no-ops.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	unit    string
	name    string
	started time.Time
	extra   map[string]string
}

// Start opens a span under the tracer, unit and parent span held by ctx.
// The returned context makes the new span the parent of later spans.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Level().Records(scope) {
		return ctx, &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parentFrom(ctx),
		scope:   scope,
		unit:    UnitFromContext(ctx),
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{Time: s.started, Kind: KindBegin, Scope: scope, Unit: s.unit, SpanID: s.id, ParentID: s.parent, Name: name})
	return context.WithValue(ctx, parentKey{}, s.id), s
}

func (s *Span) live() bool { return s != nil && s.tracer != nil }

// Set records a key shown on the end event.
func (s *Span) Set(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// Point emits a node-level event inside s.
func (s *Span) Point(name, detail string) {
	if !s.live() || !s.tracer.Level().Records(ScopeNode) {
		return
	}
	s.tracer.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: ScopeNode, Unit: s.unit, ParentID: s.id, Name: name, Detail: detail})
}

// Enabled reports whether Point would record anything. Callers use it to
// skip building expensive details.
func (s *Span) Enabled() bool {
	return s.live() && s.tracer.Level().Records(ScopeNode)
}

// End closes s and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	elapsed := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindEnd,
		Scope:    s.scope,
		Unit:     s.unit,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Elapsed:  elapsed,
		Extra:    s.extra,
	})
	return elapsed
}
