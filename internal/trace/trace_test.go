package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithUnit(WithTracer(context.Background(), NewStream(&buf, LevelDetail, FormatText)), "main")

	ctx, unit := Start(ctx, ScopeUnit, "unit")
	_, pass := Start(ctx, ScopePass, "resolve")
	pass.Point("declare", "x")
	pass.Set("decls", "1").End("")
	unit.End("")

	out := buf.String()
	for _, want := range []string{"main     > resolve", "main     < resolve {decls=1}", "main   > unit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "declare") {
		t.Fatalf("node points must be filtered below debug:\n%s", out)
	}
}

func TestStartLinksParents(t *testing.T) {
	ring := NewRing(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	ctx, outer := Start(ctx, ScopeDriver, "check")
	_, inner := Start(ctx, ScopeUnit, "unit")
	inner.Point("note", "")
	inner.End("")
	outer.End("")

	evs := ring.Snapshot()
	if len(evs) != 5 {
		t.Fatalf("expected 5 events, got %d", len(evs))
	}
	if evs[1].ParentID != evs[0].SpanID {
		t.Fatalf("unit span not parented to driver span: %+v", evs[1])
	}
	if evs[2].Kind != KindPoint || evs[2].ParentID != evs[1].SpanID {
		t.Fatalf("point not attached to unit span: %+v", evs[2])
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithUnit(WithTracer(context.Background(), NewStream(&buf, LevelDebug, FormatNDJSON)), "lib")
	_, s := Start(ctx, ScopeUnit, "unit")
	s.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "end" || ev["detail"] != "ok" || ev["unit"] != "lib" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestRingWrapsAndDumpsPerUnit(t *testing.T) {
	ring := NewRing(3, LevelDebug)
	base := WithTracer(context.Background(), ring)
	for _, unit := range []string{"a", "b", "a", "b"} {
		_, s := Start(WithUnit(base, unit), ScopeUnit, "unit")
		s.Point("p", unit)
	}
	snap := ring.Snapshot()
	if len(snap) != 3 || snap[0].Unit != "a" || snap[1].Unit != "b" || snap[2].Unit != "b" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, "a", FormatText); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("expected 1 event for unit a, got %d:\n%s", n, buf.String())
	}
}

func TestNew(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("off level must give Nop, got %v, %v", tr, err)
	}
	tr, err = New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := RingOf(tr); !ok {
		t.Fatal("error level must keep a ring")
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := RingOf(tr); !ok {
		t.Fatal("both mode must keep a ring")
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("unknown level must be rejected")
	}
	if m, err := ParseMode("RING"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode(RING) = %v, %v", m, err)
	}
}

func TestFromContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must fall back to Nop")
	}
	_, s := Start(context.Background(), ScopePass, "x")
	if s.Enabled() || s.End("") != 0 {
		t.Fatal("span without tracer must be inert")
	}
}
