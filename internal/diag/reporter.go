package diag

import (
	"fmt"
	"path"
	"runtime"

	"soul/internal/source"
)

// Reporter receives faults from the passes. Passes never hold a Bag
// directly; BagReporter and Tee are the usual implementations.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder is a fault under construction. Emit hands it to the
// reporter once; later calls are no-ops.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func report(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return report(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return report(r, SevWarning, code, primary, msg)
}

// ReportInternal emits an InternalError naming the calling file and line.
func ReportInternal(r Reporter, primary source.Span, format string, args ...any) {
	site := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		dir, base := path.Split(path.Clean(file))
		site = fmt.Sprintf("%s/%s:%d", path.Base(dir), base, line)
	}
	msg := fmt.Sprintf("internal error at %s: %s", site, fmt.Sprintf(format, args...))
	report(r, SevError, InternalError, primary, msg).Emit()
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

func (b *ReportBuilder) Emit() {
	if b == nil || b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		b.to.Report(b.d)
	}
}

// BagReporter adds every fault to Bag; a nil Bag discards them.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

type tee []Reporter

func (t tee) Report(d Diagnostic) {
	for _, r := range t {
		if r != nil {
			r.Report(d)
		}
	}
}

// Tee forwards each fault to every non-nil reporter in order.
func Tee(reporters ...Reporter) Reporter { return tee(reporters) }
