package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("main", PassResolve)
	tm.End(idx, "3 decls")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 1 {
		t.Fatalf("expected 1 phase, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Unit != "main" || rep.Phases[0].Note != "3 decls" {
		t.Fatalf("unexpected phase %+v", rep.Phases[0])
	}
	if !strings.Contains(tm.Summary(), "main:resolve") {
		t.Fatalf("summary missing unit label:\n%s", tm.Summary())
	}
}

func TestTimerConcurrentUnits(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for _, unit := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			tm.End(tm.Begin(u, PassInfer), "")
		}(unit)
	}
	wg.Wait()
	if got := len(tm.Report().Phases); got != 4 {
		t.Fatalf("expected 4 phases, got %d", got)
	}
	if got := tm.UnitReport("c").Phases; len(got) != 1 || got[0].Unit != "c" {
		t.Fatalf("unit report = %+v", got)
	}
	if _, ok := tm.ByPass()[PassInfer]; !ok {
		t.Fatalf("infer pass not aggregated")
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x", PassLower), "")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}
