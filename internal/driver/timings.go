package driver

import (
	"encoding/json"
	"fmt"
	"strings"

	"soul/internal/diag"
	"soul/internal/observ"
	"soul/internal/source"
)

// timingNote turns a unit's pass timings into an observability fault. The
// message lists each pass; the single note carries the report as JSON for
// tools reading faults.
func timingNote(unit string, report observ.Report) (diag.Diagnostic, bool) {
	data, err := json.Marshal(struct {
		Unit string `json:"unit"`
		observ.Report
	}{unit, report})
	if err != nil {
		return diag.Diagnostic{}, false
	}
	passes := make([]string, 0, len(report.Phases))
	for _, p := range report.Phases {
		passes = append(passes, fmt.Sprintf("%s %.2f ms", p.Name, p.DurationMS))
	}
	msg := fmt.Sprintf("timings for %s: %.2f ms", unit, report.TotalMS)
	if len(passes) > 0 {
		msg += " (" + strings.Join(passes, ", ") + ")"
	}
	return diag.New(diag.SevNote, diag.ObsTimings, source.Span{}, msg).WithNote(source.Span{}, string(data)), true
}
