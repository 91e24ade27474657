package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"

	"soul/internal/source"
)

// autoPathLimit is the length above which PathModeAuto prints the basename.
const autoPathLimit = 40

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		return path
	case PathModeRelative:
		if base == "" {
			return path
		}
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	}
	if len(path) > autoPathLimit {
		return filepath.Base(path)
	}
	return path
}

// fileOf returns the file behind span, or nil for spans without a file.
func fileOf(fs *source.FileSet, span source.Span) *source.File {
	if fs == nil || span.File == 0 {
		return nil
	}
	return fs.Get(span.File)
}

// position renders "path:line:col", falling back to the unit name and byte
// offsets when the file text is unavailable.
func position(fs *source.FileSet, span source.Span, mode PathMode, base, unit string) string {
	f := fileOf(fs, span)
	if f == nil {
		if unit == "" {
			unit = "<unit>"
		}
		if span == (source.Span{}) {
			return unit
		}
		return fmt.Sprintf("%s@%d..%d", unit, span.Start, span.End)
	}
	start, _ := fs.Resolve(span)
	if len(f.Content) == 0 {
		return fmt.Sprintf("%s@%d..%d", formatPath(f.Path, mode, base), span.Start, span.End)
	}
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode, base), start.Line, start.Col)
}
