package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatText Format = iota
	FormatNDJSON
)

// ParseFormat reads "text" or "ndjson"; "json" is accepted as an alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatText, fmt.Errorf("invalid trace format %q (expected text|ndjson)", s)
}

// Encode renders ev as one line.
func (f Format) Encode(ev *Event) []byte {
	if f == FormatNDJSON {
		return encodeJSON(ev)
	}
	return encodeText(ev)
}

type jsonEvent struct {
	Time      string            `json:"time"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope"`
	Unit      string            `json:"unit,omitempty"`
	SpanID    uint64            `json:"span,omitempty"`
	ParentID  uint64            `json:"parent,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	ElapsedMS float64           `json:"elapsed_ms,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

func encodeJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:      ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		Unit:      ev.Unit,
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		Detail:    ev.Detail,
		ElapsedMS: float64(ev.Elapsed) / float64(time.Millisecond),
		Extra:     ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// encodeText writes "#seq unit scope mark name (detail) {k=v} elapsed",
// indenting by scope depth.
func encodeText(ev *Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "#%06d ", ev.Seq)
	if ev.Unit != "" {
		b.WriteString(ev.Unit)
		b.WriteByte(' ')
	}
	b.WriteString(strings.Repeat("  ", int(ev.Scope)-1))
	switch ev.Kind {
	case KindBegin:
		b.WriteString("> ")
	case KindEnd:
		b.WriteString("< ")
	default:
		b.WriteString(". ")
	}
	b.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		b.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k + "=" + ev.Extra[k])
		}
		b.WriteByte('}')
	}
	if ev.Kind == KindEnd {
		fmt.Fprintf(&b, " %.3fms", float64(ev.Elapsed)/float64(time.Millisecond))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
