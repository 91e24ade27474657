package diag

import (
	"testing"

	"soul/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("./testdata/sample.soul", []byte("a\nb\n"))

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SemaScopeOverride,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 2, End: 3},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 0, End: 1}, Msg: "previous declaration"},
				{Span: source.Span{File: 42}, Msg: "unknown file"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SemaUnstableFeature,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		NewError(IOLoadFileError, source.Span{}, "failed"),
	}

	want := "error IO4001 main:0:0 failed\n" +
		"note SEM3001 main:0:0 unknown file\n" +
		"note SEM3001 testdata/sample.soul:1:1 previous declaration\n" +
		"error SEM3001 testdata/sample.soul:2:1 first line second\n" +
		"warning SEM3007 testdata/sample.soul:2:1 another"
	if got := FormatGoldenDiagnostics("main", diags, fs, true); got != want {
		t.Fatalf("unexpected golden output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	withoutNotes := FormatGoldenDiagnostics("main", diags[1:2], nil, false)
	if withoutNotes != "warning SEM3007 main:0:0 another" {
		t.Fatalf("missing file set should attribute to the unit, got %q", withoutNotes)
	}
}
