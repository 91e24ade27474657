package source

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// StringID names an interned identifier. NoStringID is the empty name.
type StringID uint32

const NoStringID StringID = 0

// Interner maps identifier text to dense StringIDs. Text is NFC-normalised
// first, so "café" typed composed or decomposed is one name.
type Interner struct {
	names []string
	ids   map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{names: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

func canonical(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Intern returns the ID of s, adding it on first use. The interner keeps
// its own copy so callers may reuse their buffers.
func (in *Interner) Intern(s string) StringID {
	s = canonical(s)
	if id, ok := in.ids[s]; ok {
		return id
	}
	s = strings.Clone(s)
	id := StringID(len(in.names))
	in.names = append(in.names, s)
	in.ids[s] = id
	return id
}

// Find looks s up without adding it.
func (in *Interner) Find(s string) (StringID, bool) {
	id, ok := in.ids[canonical(s)]
	return id, ok
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.names) {
		return "", false
	}
	return in.names[id], true
}

// MustLookup is Lookup for IDs known to come from this interner.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: unknown string id")
	}
	return s
}

// Len counts interned names including the reserved empty one.
func (in *Interner) Len() int { return len(in.names) }

// Snapshot lists every name by ID for serialization.
func (in *Interner) Snapshot() []string { return slices.Clone(in.names) }

// Restore rebuilds an interner from a Snapshot with the same IDs.
func Restore(names []string) *Interner {
	in := NewInterner()
	for _, s := range names[min(1, len(names)):] {
		in.ids[s] = StringID(len(in.names))
		in.names = append(in.names, s)
	}
	return in
}
