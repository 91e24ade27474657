package diag

import (
	"strings"
	"testing"

	"soul/internal/source"
)

func TestBagLimitAndFatalThreshold(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, SemaUnstableFeature, source.Span{}, "for loops are deferred").Emit()
	if bag.HasErrors() {
		t.Fatalf("a warning must not count as an error")
	}
	if !bag.HasFatal(SevWarning) {
		t.Fatalf("warning must be fatal when the threshold is warning")
	}
	ReportError(r, SemaNotFoundInScope, source.Span{}, "x not found").Emit()
	ReportError(r, SemaNotFoundInScope, source.Span{}, "y not found").Emit()
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("expected 2 kept and 1 dropped, got %d/%d", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
}

func TestSeverityOrdering(t *testing.T) {
	tests := []struct {
		sev, threshold Severity
		fatal          bool
	}{
		{SevError, SevError, true},
		{SevWarning, SevError, false},
		{SevWarning, SevWarning, true},
		{SevNote, SevDebug, false},
		{SevDebug, SevNote, true},
	}
	for _, tt := range tests {
		if got := tt.sev.IsFatal(tt.threshold); got != tt.fatal {
			t.Fatalf("%v.IsFatal(%v) = %v, want %v", tt.sev, tt.threshold, got, tt.fatal)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("unknown severity must be rejected")
	}
	if sev, err := ParseSeverity("Warning"); err != nil || sev != SevWarning {
		t.Fatalf("ParseSeverity(Warning) = %v, %v", sev, err)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SemaScopeOverride, source.Span{Start: 5, End: 6}, "type T redeclared").
		WithNote(source.Span{Start: 1, End: 2}, "previous declaration")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note was lost")
	}
}

func TestReportInternalCarriesLocation(t *testing.T) {
	bag := NewBag(0)
	ReportInternal(BagReporter{Bag: bag}, source.Span{}, "no active scope")
	d := bag.Items()[0]
	if d.Code != InternalError || !strings.Contains(d.Message, "bag_test.go:") {
		t.Fatalf("internal error must name the detecting location, got %q", d.Message)
	}
}
