package ast

import (
	"github.com/vmihailenco/msgpack/v5"

	"soul/internal/source"
)

type Hints struct{ Stmts, Exprs, Types uint }

// Builder owns every node of one syntax tree. Root is the top-level
// statement list of the compilation unit.
type Builder struct {
	Strings *source.Interner
	Stmts   *Stmts
	Exprs   *Exprs
	Types   *TypeExprs
	Root    []StmtID
}

// NewBuilder allocates arenas sized by hints. A nil strings interner gets a fresh one.
func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Strings: strings,
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Types:   NewTypeExprs(hints.Types),
	}
}

// PushRoot appends top-level statements.
func (b *Builder) PushRoot(stmts ...StmtID) {
	b.Root = append(b.Root, stmts...)
}

// Name interns an identifier.
func (b *Builder) Name(s string) source.StringID {
	return b.Strings.Intern(s)
}

// NameOf returns the text of an interned identifier or "<anon>".
func (b *Builder) NameOf(id source.StringID) string {
	if s, ok := b.Strings.Lookup(id); ok && s != "" {
		return s
	}
	return "<anon>"
}

type builderWire struct {
	Strings []string   `msgpack:"strings"`
	Stmts   *Stmts     `msgpack:"stmts"`
	Exprs   *Exprs     `msgpack:"exprs"`
	Types   *TypeExprs `msgpack:"types"`
	Root    []StmtID   `msgpack:"root"`
}

// EncodeMsgpack writes the whole tree, including the string table, so a
// parser running in another process can hand units to the checker.
func (b *Builder) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(builderWire{
		Strings: b.Strings.Snapshot(),
		Stmts:   b.Stmts,
		Exprs:   b.Exprs,
		Types:   b.Types,
		Root:    b.Root,
	})
}

func (b *Builder) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w builderWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	b.Strings = source.Restore(w.Strings)
	b.Stmts, b.Exprs, b.Types, b.Root = w.Stmts, w.Exprs, w.Types, w.Root
	if b.Stmts == nil {
		b.Stmts = NewStmts(0)
	}
	if b.Exprs == nil {
		b.Exprs = NewExprs(0)
	}
	if b.Types == nil {
		b.Types = NewTypeExprs(0)
	}
	return nil
}
