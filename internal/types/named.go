package types

import (
	"fmt"

	"fortio.org/safecast"

	"soul/internal/ast"
)

// NamedInfo stores the display name of a user-declared type.
type NamedInfo struct {
	Decl ast.DeclID `msgpack:"decl" json:"decl"`
	Name string     `msgpack:"name" json:"name"`
}

// RegisterNamed returns the nominal type for a declaration, creating it on
// first use. Two declarations never share a type even with equal names.
func (in *Interner) RegisterNamed(decl ast.DeclID, name string) TypeID {
	if id, ok := in.namedDecl[decl]; ok {
		return id
	}
	in.named = append(in.named, NamedInfo{Decl: decl, Name: name})
	slot, err := safecast.Conv[uint32](len(in.named) - 1)
	if err != nil {
		panic(fmt.Errorf("named info overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindNamed, Decl: decl, Payload: slot})
	in.namedDecl[decl] = id
	return id
}

// NamedInfo retrieves the declaration behind a named type.
func (in *Interner) NamedInfo(id TypeID) (*NamedInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNamed {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.named) {
		return nil, false
	}
	return &in.named[tt.Payload], true
}
