// Package trace records what the checker does, unit by unit.
//
// Drivers open a span per run and per unit, each pass opens one under its
// unit, and passes may drop node-level points into their span:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithUnit(ctx, "main")
//	ctx, span := trace.Start(ctx, trace.ScopePass, "resolve")
//	defer span.End("")
//	span.Point("declare", "variable x #3")
//
// Spans started from a context inherit its unit, so every event of a
// concurrent run can be attributed. A Stream writes events as they happen;
// a Ring keeps the most recent ones so the events of a failing unit can be
// printed after the fact.
package trace
