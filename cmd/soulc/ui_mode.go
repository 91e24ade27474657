package main

import (
	"os"
	"strings"
)

// uiMode selects whether check renders the progress view.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, "on": uiModeOn, "off": uiModeOff}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return "", errInvalidFlag("ui", value, "auto|on|off")
}

// active reports whether the progress view should run for the given flags.
// Quiet runs and JSON output never get it; auto needs both streams on a TTY.
func (m uiMode) active(f checkFlags) bool {
	if f.quiet || f.format == "json" || m == uiModeOff {
		return false
	}
	return m == uiModeOn || (isTerminal(os.Stdout) && isTerminal(os.Stderr))
}
