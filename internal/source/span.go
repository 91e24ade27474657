package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file. The zero
// Span means "no location".
type Span struct {
	File  FileID `msgpack:"file" json:"file"`
	Start uint32 `msgpack:"start" json:"start"`
	End   uint32 `msgpack:"end" json:"end"`
}

// IsZero reports whether s carries no location at all.
func (s Span) IsZero() bool { return s == Span{} }

func (s Span) Empty() bool { return s.End <= s.Start }

func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether byte offset off lies in s.
func (s Span) Contains(off uint32) bool { return s.Start <= off && off < s.End }

// Within reports whether s lies inside outer. Everything lies inside a
// span that starts a file with no length, which builders use as "unknown".
func (s Span) Within(outer Span) bool {
	if outer.Start == 0 && outer.Empty() {
		return true
	}
	return s.File == outer.File && outer.Start <= s.Start && s.End <= outer.End
}

// Cover widens s to include other. A zero-width span at offset 0 adopts
// other; spans of different files leave s unchanged.
func (s Span) Cover(other Span) Span {
	switch {
	case s.File != other.File:
		return s
	case s.Start == 0 && s.Empty():
		return other
	}
	return Span{File: s.File, Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d..%d", s.File, s.Start, s.End)
}
