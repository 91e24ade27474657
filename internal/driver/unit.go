package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"soul/internal/ast"
	"soul/internal/diag"
	"soul/internal/source"
)

// UnitExt is the extension of encoded unit files.
const UnitExt = ".unit"

// UnitFile is the source text behind a tree's spans. Files are numbered
// from 1 in slice order; FileID 0 means no file.
type UnitFile struct {
	Path    string `msgpack:"path"`
	Content []byte `msgpack:"content,omitempty"`
}

// Unit is one compilation unit: a parsed tree, the faults the parser
// reported while building it, and the text its spans point into. The text
// is optional and only used for rendering faults.
type Unit struct {
	Name   string            `msgpack:"name"`
	Files  []UnitFile        `msgpack:"files,omitempty"`
	Tree   *ast.Builder      `msgpack:"tree"`
	Faults []diag.Diagnostic `msgpack:"faults,omitempty"`
}

// FileSet rebuilds the unit's files so positions can be resolved.
func (u *Unit) FileSet() *source.FileSet {
	fs := source.NewFileSet()
	for _, f := range u.Files {
		fs.Add(f.Path, f.Content)
	}
	return fs
}

// Encode returns the msgpack form of u.
func (u *Unit) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(u); err != nil {
		return nil, fmt.Errorf("encode unit %q: %w", u.Name, err)
	}
	return buf.Bytes(), nil
}

// DecodeUnit parses the msgpack form produced by Encode.
func DecodeUnit(data []byte) (*Unit, error) {
	var u Unit
	if err := msgpack.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	if u.Tree == nil {
		return nil, fmt.Errorf("unit %q has no tree", u.Name)
	}
	return &u, nil
}

// LoadUnit reads an encoded unit from path. The unit name defaults to the
// file name without extension.
func LoadUnit(path string) (*Unit, Digest, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Digest{}, err
	}
	u, err := DecodeUnit(data)
	if err != nil {
		return nil, Digest{}, fmt.Errorf("%s: %w", path, err)
	}
	if u.Name == "" {
		u.Name = strings.TrimSuffix(filepath.Base(path), UnitExt)
	}
	return u, digestOf(data), nil
}

// WriteUnit encodes u to path.
func WriteUnit(path string, u *Unit) error {
	data, err := u.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ListUnits expands the arguments into unit files: directories are walked
// for *.unit files, plain paths are kept. The result is sorted and unique.
func ListUnits(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, UnitExt) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}
