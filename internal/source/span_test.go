package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "nested span keeps outer",
			a:        Span{File: 1, Start: 10, End: 40},
			b:        Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "different files are not merged",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 5},
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "zero span adopts other",
			a:        Span{},
			b:        Span{Start: 4, End: 9},
			expected: Span{Start: 4, End: 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Fatalf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanLenAndContains(t *testing.T) {
	s := Span{Start: 3, End: 7}
	if s.Len() != 4 {
		t.Fatalf("expected len 4, got %d", s.Len())
	}
	if !s.Contains(3) || s.Contains(7) {
		t.Fatalf("Contains must be half-open")
	}
	if !(Span{Start: 5, End: 5}).Empty() {
		t.Fatalf("zero-width span must be empty")
	}
}

func TestSpanWithin(t *testing.T) {
	outer := Span{File: 1, Start: 10, End: 40}
	if !(Span{File: 1, Start: 12, End: 40}).Within(outer) {
		t.Fatalf("suffix must lie within outer")
	}
	if (Span{File: 2, Start: 12, End: 20}).Within(outer) {
		t.Fatalf("span from another file must not lie within outer")
	}
	if !(Span{File: 3, Start: 1, End: 2}).Within(Span{}) {
		t.Fatalf("everything lies within the zero span")
	}
}
