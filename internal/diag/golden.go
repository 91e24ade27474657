package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"soul/internal/source"
)

// goldenLine is one rendered fault or note.
type goldenLine struct {
	sev  string
	code string
	path string
	line uint32
	col  uint32
	msg  string
}

func (g goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", g.sev, g.code, g.path, g.line, g.col, g.msg)
}

// FormatGoldenDiagnostics renders faults one per line as
// "severity CODE path:line:col message", sorted by location so the output
// is stable across runs. Faults whose span has no file are attributed to
// unit at 0:0. Notes become lines of their own when includeNotes is set.
func FormatGoldenDiagnostics(unit string, diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	lines := make([]goldenLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		lines = append(lines, goldenAt(unit, fs, d.Primary, SeverityLabel(d.Severity), d.Code, d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, goldenAt(unit, fs, n.Span, "note", d.Code, n.Msg))
		}
	}
	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func goldenAt(unit string, fs *source.FileSet, span source.Span, sev string, code Code, msg string) goldenLine {
	g := goldenLine{sev: sev, code: code.ID(), path: unit, msg: flattenMessage(msg)}
	file := fs.Get(span.File)
	if file == nil {
		return g
	}
	g.path = strings.TrimPrefix(filepath.ToSlash(file.Path), "./")
	if len(file.Content) > 0 {
		start, _ := fs.Resolve(span)
		g.line, g.col = start.Line, start.Col
	}
	return g
}

// SeverityLabel returns the lower-case label used in textual output.
func SeverityLabel(sev Severity) string {
	return strings.ToLower(sev.String())
}

func flattenMessage(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
