package trace

import (
	"io"
	"os"
	"sync"
)

// Stream writes each event as soon as it is emitted.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: format}
}

func (t *Stream) Emit(ev *Event) {
	if !t.level.Records(ev.Scope) {
		return
	}
	ev.Seq = seq.Add(1)
	line := t.format.Encode(ev)
	t.mu.Lock()
	defer t.mu.Unlock()
	// trace write errors never fail a check
	_, _ = t.w.Write(line)
}

func (t *Stream) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the output unless it is stdout or stderr.
func (t *Stream) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stdout || t.w == os.Stderr {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *Stream) Level() Level { return t.level }

// Ring keeps the last capacity events in memory.
type Ring struct {
	mu     sync.Mutex
	events []Event
	next   int
	filled bool
	level  Level
}

func NewRing(capacity int, level Level) *Ring {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &Ring{events: make([]Event, capacity), level: level}
}

func (t *Ring) Emit(ev *Event) {
	if !t.level.Records(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.next] = *ev
	t.events[t.next].Seq = seq.Add(1)
	t.next++
	if t.next == len(t.events) {
		t.next = 0
		t.filled = true
	}
}

// Snapshot returns the kept events, oldest first.
func (t *Ring) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.filled {
		return append([]Event(nil), t.events[:t.next]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.next:]...)
	return append(out, t.events[:t.next]...)
}

// Dump writes the kept events of unit, or all of them when unit is empty.
func (t *Ring) Dump(w io.Writer, unit string, format Format) error {
	for _, ev := range t.Snapshot() {
		if unit != "" && ev.Unit != unit {
			continue
		}
		if _, err := w.Write(format.Encode(&ev)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Ring) Flush() error { return nil }
func (t *Ring) Close() error { return nil }
func (t *Ring) Level() Level { return t.level }
