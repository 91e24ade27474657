package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Pass names recorded by the semantic pipeline.
const (
	PassLoad    = "load"
	PassResolve = "resolve"
	PassLower   = "lower"
	PassInfer   = "infer"
	PassEncode  = "encode"
)

// Phase records the duration and metadata of one pass over a unit.
type Phase struct {
	Unit  string
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of semantic passes. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase for unit and returns its index.
func (t *Timer) Begin(unit, name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Unit: unit, Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		label := p.Name
		if p.Unit != "" {
			label = p.Unit + ":" + p.Name
		}
		fmt.Fprintf(&sb, "  %-28s %7.2f ms", label, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-28s %7.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport is one finished phase in serializable form.
type PhaseReport struct {
	Unit       string  `json:"unit,omitempty" msgpack:"unit,omitempty"`
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report summarizes a Timer.
type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report lists finished phases in start order with the total in milliseconds.
func (t *Timer) Report() Report {
	return t.report(func(Phase) bool { return true })
}

// UnitReport is Report restricted to the phases of one unit.
func (t *Timer) UnitReport(unit string) Report {
	return t.report(func(p Phase) bool { return p.Unit == unit })
}

func (t *Timer) report(keep func(Phase) bool) Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var report Report
	var total time.Duration
	for _, phase := range t.phases {
		if !keep(phase) {
			continue
		}
		total += phase.Dur
		report.Phases = append(report.Phases, PhaseReport{
			Unit:       phase.Unit,
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		})
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// ByPass sums durations per pass name across all units.
func (t *Timer) ByPass() map[string]time.Duration {
	out := make(map[string]time.Duration)
	if t == nil {
		return out
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.phases {
		out[p.Name] += p.Dur
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
