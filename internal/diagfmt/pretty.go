package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"soul/internal/diag"
	"soul/internal/source"
)

const tabWidth = 4

// palette holds the colours of one Pretty call; disabled colours print
// plain text.
type palette struct {
	sev   map[diag.Severity]*color.Color
	code  *color.Color
	gut   *color.Color
	caret *color.Color
	note  *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevDebug:   mk(color.FgMagenta),
			diag.SevNote:    mk(color.FgCyan),
		},
		code:  mk(color.Bold),
		gut:   mk(color.FgBlue),
		caret: mk(color.FgRed, color.Bold),
		note:  mk(color.FgCyan),
	}
}

// Pretty prints each fault as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line underlined with ^~~~ and then its notes.
// Faults whose span has no source text print the unit name and byte offsets.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pw := &prettyWriter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for _, d := range bag.Items() {
		pw.diagnostic(d)
		if pw.err != nil {
			return pw.err
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		pw.printf("... %d more diagnostics not shown\n", dropped)
	}
	return pw.err
}

type prettyWriter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
	err  error
}

func (p *prettyWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *prettyWriter) pos(span source.Span) string {
	return position(p.fs, span, p.opts.PathMode, p.opts.BaseDir, p.opts.Unit)
}

func (p *prettyWriter) diagnostic(d diag.Diagnostic) {
	sev := p.pal.sev[d.Severity]
	if sev == nil {
		sev = p.pal.note
	}
	p.printf("%s: %s %s: %s\n", p.pos(d.Primary), sev.Sprint(d.Severity.String()), p.pal.code.Sprint(d.Code.ID()), d.Message)
	p.snippet(d.Primary)
	if !p.opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, n := range d.Notes {
		if n.Span == (source.Span{}) {
			p.printf("  %s: %s\n", p.pal.note.Sprint("note"), n.Msg)
			continue
		}
		p.printf("  %s: %s: %s\n", p.pal.note.Sprint("note"), p.pos(n.Span), n.Msg)
		p.snippet(n.Span)
	}
}

// snippet prints the lines around span with a caret line under the
// primary one. Columns are measured in display cells.
func (p *prettyWriter) snippet(span source.Span) {
	f := fileOf(p.fs, span)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := p.fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(p.opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	gutter := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		line := f.GetLine(n)
		if line == "" && n != start.Line {
			continue
		}
		p.printf(" %s %s\n", p.pal.gut.Sprintf("%*d |", gutter, n), expandTabs(line))
		if n != start.Line {
			continue
		}
		from := int(start.Col) - 1
		to := len(line)
		if end.Line == start.Line {
			to = min(int(end.Col)-1, len(line))
		}
		from = min(max(from, 0), len(line))
		pad := runewidth.StringWidth(expandTabs(line[:from]))
		width := max(runewidth.StringWidth(expandTabs(line[from:max(to, from)])), 1)
		marks := "^" + strings.Repeat("~", width-1)
		p.printf(" %s %s%s\n", p.pal.gut.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), p.pal.caret.Sprint(marks))
	}
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

// Short prints one line per diagnostic: "<pos>: <severity> <code>: <message>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	for _, d := range bag.Items() {
		pos := position(fs, d.Primary, opts.PathMode, opts.BaseDir, opts.Unit)
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", pos, strings.ToLower(d.Severity.String()), d.Code.ID(), d.Message); err != nil {
			return err
		}
	}
	return nil
}
