package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
// Values are ordered: a higher value is more severe.
type Severity uint8

const (
	// SevNote is for supplementary information.
	SevNote Severity = iota
	// SevDebug is for compiler-internal observations.
	SevDebug
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "NOTE"
	case SevDebug:
		return "DEBUG"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// IsFatal reports whether a fault of this severity meets the fatal threshold.
func (s Severity) IsFatal(threshold Severity) bool {
	return s >= threshold
}

// ParseSeverity converts a config or flag value to a Severity.
func ParseSeverity(v string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "note":
		return SevNote, nil
	case "debug":
		return SevDebug, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error", "":
		return SevError, nil
	}
	return SevError, fmt.Errorf("invalid severity: %q (expected: note|debug|warning|error)", v)
}
