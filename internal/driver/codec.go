package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"soul/internal/types"
)

// Format selects the wire encoding of a Result.
type Format uint8

const (
	// FormatMsgpack is the binary form; it round-trips every ID, span and fault.
	FormatMsgpack Format = iota + 1
	// FormatJSON is a readable dump; type tables are rendered as labels.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatMsgpack:
		return "msgpack"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "msgpack", "mp", "":
		return FormatMsgpack, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("invalid format: %q (expected: msgpack|json)", s)
}

// Codec encodes check results.
type Codec struct {
	Format Format
	Indent bool
}

type jsonReport struct {
	*Result
	TypeLabels map[types.TypeID]string `json:"type_labels,omitempty"`
}

// Encode writes res to w.
func (c Codec) Encode(w io.Writer, res *Result) error {
	switch c.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		if c.Indent {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(jsonReport{Result: res, TypeLabels: typeLabels(res)}); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatMsgpack, 0:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode msgpack: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %s", c.Format)
}

// Decode reads a Result written in msgpack form. JSON dumps drop the type
// table and cannot be decoded.
func (c Codec) Decode(r io.Reader) (*Result, error) {
	if c.Format == FormatJSON {
		return nil, fmt.Errorf("json reports are write-only")
	}
	var res Result
	if err := msgpack.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return &res, nil
}

func typeLabels(res *Result) map[types.TypeID]string {
	if res == nil || res.HIR == nil || res.HIR.Module == nil || res.HIR.Module.Types == nil {
		return nil
	}
	in := res.HIR.Module.Types
	out := make(map[types.TypeID]string, in.Len())
	for i := 1; i < in.Len(); i++ {
		id := types.TypeID(i) //nolint:gosec // bounded by the interner
		out[id] = types.Label(in, id)
	}
	return out
}
