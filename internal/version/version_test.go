package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"bare", "1.2.3", "", "", "soulc 1.2.3"},
		{"commit", "1.2.3", "abc123", "", "soulc 1.2.3 (commit abc123)"},
		{"all", "0.1.0-dev", "abc123", "2026-01-15", "soulc 0.1.0-dev (commit abc123, built 2026-01-15)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
			if got := Info(false); got != tt.want {
				t.Fatalf("Info() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColoredKeepsText(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	for _, v := range []string{"0.1.0-dev", "1.2.3", "nightly"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	Version = "1.2.3"
	if got := Colored(); !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", got)
	}
}
