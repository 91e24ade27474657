package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("main.soul", []byte("x := 1;\ny := x;\n"))
	if id != 1 || fs.Len() != 1 {
		t.Fatalf("first file must get ID 1, got %d (len %d)", id, fs.Len())
	}
	start, end := fs.Resolve(Span{File: id, Start: 8, End: 9})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 2}) {
		t.Fatalf("unexpected positions %+v %+v", start, end)
	}
	tests := map[uint32]string{0: "", 1: "x := 1;", 2: "y := x;", 3: "", 7: ""}
	for line, want := range tests {
		if got := fs.Get(id).GetLine(line); got != want {
			t.Fatalf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestNoFileID(t *testing.T) {
	fs := NewFileSet()
	fs.Add("./a/../b.soul", []byte("a\r\nb"))
	if fs.Get(NoFileID) != nil || fs.Get(9) != nil {
		t.Fatal("NoFileID and unknown IDs must not resolve")
	}
	if start, _ := fs.Resolve(Span{Start: 3}); start.Line != 0 {
		t.Fatalf("span without file must resolve to line 0, got %+v", start)
	}
	f := fs.Get(1)
	if f.Path != "b.soul" || string(f.Content) != "a\r\nb" {
		t.Fatalf("path must be cleaned and content kept verbatim, got %q %q", f.Path, f.Content)
	}
}
