package ui

import (
	"strings"
	"testing"
)

func TestProgressTracksUnits(t *testing.T) {
	m := NewProgressModel("checking", []string{"a", "b"}, nil).(*progressModel)

	m.applyEvent(Event{Unit: "a", Pass: "lower", Status: StatusWorking})
	if got := m.fraction(); got != 0.25 {
		t.Fatalf("fraction after a/lower = %v, want 0.25", got)
	}
	m.applyEvent(Event{Unit: "a", Status: StatusDone})
	m.applyEvent(Event{Unit: "b", Status: StatusError})
	m.applyEvent(Event{Unit: "unknown", Status: StatusDone})
	if got := m.fraction(); got != 1 {
		t.Fatalf("fraction when finished = %v, want 1", got)
	}

	view := m.View()
	for _, want := range []string{"(2/2)", "done", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a/very/long/unit/path.unit", 10, "a/very/..."},
		{"日本語のユニット", 7, "日本..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
