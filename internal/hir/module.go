package hir

import (
	"slices"

	"soul/internal/ast"
	"soul/internal/source"
	"soul/internal/types"
)

// ItemKind enumerates top-level item forms.
type ItemKind uint8

const (
	ItemFunc ItemKind = iota + 1
	ItemType
	ItemGlobal
)

func (k ItemKind) String() string {
	switch k {
	case ItemFunc:
		return "fn"
	case ItemType:
		return "type"
	case ItemGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Item is a declaration-level entry keyed by its DeclID.
type Item struct {
	Kind   ItemKind    `msgpack:"kind" json:"kind"`
	Decl   ast.DeclID  `msgpack:"decl" json:"decl"`
	Name   string      `msgpack:"name" json:"name"`
	Span   source.Span `msgpack:"span" json:"span"`
	Func   *Func       `msgpack:"func,omitempty" json:"func,omitempty"`
	Type   *TypeItem   `msgpack:"type,omitempty" json:"type,omitempty"`
	Global *Global     `msgpack:"global,omitempty" json:"global,omitempty"`
}

// Param is a function parameter bound to a local slot.
type Param struct {
	Local LocalID      `msgpack:"local" json:"local"`
	Decl  ast.DeclID   `msgpack:"decl" json:"decl"`
	Type  types.TypeID `msgpack:"type" json:"type"`
}

// Func describes a lowered function.
type Func struct {
	Params []Param      `msgpack:"params" json:"params"`
	Result types.TypeID `msgpack:"result" json:"result"` // unit when omitted
	Body   BlockID      `msgpack:"body,omitempty" json:"body,omitempty"`
	Owner  ast.DeclID   `msgpack:"owner,omitempty" json:"owner,omitempty"` // enclosing type for methods
	Type   types.TypeID `msgpack:"fn_type" json:"fn_type"`
}

// FieldDef is a field or variant of a type declaration.
type FieldDef struct {
	Decl ast.DeclID   `msgpack:"decl" json:"decl"`
	Name string       `msgpack:"name" json:"name"`
	Type types.TypeID `msgpack:"type" json:"type"`
}

// TypeItem describes a struct/class/trait/enum/union declaration.
type TypeItem struct {
	Kind     ast.TypeDeclKind `msgpack:"kind" json:"kind"`
	Type     types.TypeID     `msgpack:"type" json:"type"`
	Fields   []FieldDef       `msgpack:"fields,omitempty" json:"fields,omitempty"`
	Variants []FieldDef       `msgpack:"variants,omitempty" json:"variants,omitempty"`
	Methods  []ast.DeclID     `msgpack:"methods,omitempty" json:"methods,omitempty"`
}

// Global is a top-level variable; its initializer lives in Module.Globals.
type Global struct {
	Local LocalID `msgpack:"local" json:"local"`
	Stmt  StmtID  `msgpack:"stmt" json:"stmt"`
}

// Impl records an `impl Trait for Target` block.
type Impl struct {
	Trait   ast.DeclID   `msgpack:"trait" json:"trait"`
	Target  types.TypeID `msgpack:"target" json:"target"`
	Methods []ast.DeclID `msgpack:"methods,omitempty" json:"methods,omitempty"`
	Span    source.Span  `msgpack:"span" json:"span"`
}

// Local describes one local slot.
type Local struct {
	Name     string       `msgpack:"name" json:"name"`
	Decl     ast.DeclID   `msgpack:"decl,omitempty" json:"decl,omitempty"` // NoDeclID for temporaries
	Type     types.TypeID `msgpack:"type,omitempty" json:"type,omitempty"` // declared type, if any
	Modifier ast.Modifier `msgpack:"modifier,omitempty" json:"modifier,omitempty"`
}

// Attr flags side information about a node.
type Attr uint8

const (
	AttrSynthetic Attr = 1 << iota // produced by desugaring
	AttrUnstable                   // feature not finalized
)

// Spans holds the source span of every node, indexed by ID.
type Spans struct {
	Blocks []source.Span `msgpack:"blocks" json:"blocks"`
	Stmts  []source.Span `msgpack:"stmts" json:"stmts"`
	Exprs  []source.Span `msgpack:"exprs" json:"exprs"`
	Locals []source.Span `msgpack:"locals" json:"locals"`
}

// Attrs holds flags for nodes that carry any.
type Attrs struct {
	Stmts  map[StmtID]Attr  `msgpack:"stmts,omitempty" json:"stmts,omitempty"`
	Exprs  map[ExprID]Attr  `msgpack:"exprs,omitempty" json:"exprs,omitempty"`
	Locals map[LocalID]Attr `msgpack:"locals,omitempty" json:"locals,omitempty"`
}

// Module is the lowered form of one unit. Node tables are indexed by ID
// with slot 0 reserved; spans and attributes live in side tables.
type Module struct {
	Items     map[ast.DeclID]*Item `msgpack:"items" json:"items"`
	ItemOrder []ast.DeclID         `msgpack:"item_order" json:"item_order"`
	Impls     []Impl               `msgpack:"impls,omitempty" json:"impls,omitempty"`
	Globals   []StmtID             `msgpack:"globals" json:"globals"`

	Blocks []Block `msgpack:"blocks" json:"blocks"`
	Stmts  []Stmt  `msgpack:"stmt_table" json:"stmt_table"`
	Exprs  []Expr  `msgpack:"expr_table" json:"expr_table"`
	Locals []Local `msgpack:"locals" json:"locals"`

	Spans Spans `msgpack:"spans" json:"spans"`
	Attrs Attrs `msgpack:"attrs" json:"attrs"`

	IDs   IDGen           `msgpack:"ids" json:"ids"`
	Types *types.Interner `msgpack:"types" json:"-"`
}

// NewModule creates an empty module with sentinel slots in place.
func NewModule(typesIn *types.Interner) *Module {
	if typesIn == nil {
		typesIn = types.NewInterner()
	}
	return &Module{
		Items:  make(map[ast.DeclID]*Item),
		Blocks: make([]Block, 1, 32),
		Stmts:  make([]Stmt, 1, 64),
		Exprs:  make([]Expr, 1, 128),
		Locals: make([]Local, 1, 32),
		Spans: Spans{
			Blocks: make([]source.Span, 1, 32),
			Stmts:  make([]source.Span, 1, 64),
			Exprs:  make([]source.Span, 1, 128),
			Locals: make([]source.Span, 1, 32),
		},
		Attrs: Attrs{
			Stmts:  make(map[StmtID]Attr),
			Exprs:  make(map[ExprID]Attr),
			Locals: make(map[LocalID]Attr),
		},
		Types: typesIn,
	}
}

func (m *Module) newBlock(span source.Span) BlockID {
	id := m.IDs.Block()
	m.Blocks = append(m.Blocks, Block{})
	m.Spans.Blocks = append(m.Spans.Blocks, span)
	return id
}

func (m *Module) newStmt(st Stmt, span source.Span) StmtID {
	id := m.IDs.Stmt()
	m.Stmts = append(m.Stmts, st)
	m.Spans.Stmts = append(m.Spans.Stmts, span)
	return id
}

func (m *Module) newExpr(e Expr, span source.Span) ExprID {
	id := m.IDs.Expr()
	m.Exprs = append(m.Exprs, e)
	m.Spans.Exprs = append(m.Spans.Exprs, span)
	return id
}

func (m *Module) newLocal(l Local, span source.Span) LocalID {
	id := m.IDs.Local()
	m.Locals = append(m.Locals, l)
	m.Spans.Locals = append(m.Spans.Locals, span)
	return id
}

func (m *Module) addItem(item *Item) {
	if _, exists := m.Items[item.Decl]; !exists {
		m.ItemOrder = append(m.ItemOrder, item.Decl)
	}
	m.Items[item.Decl] = item
}

// Block returns the block or nil.
func (m *Module) Block(id BlockID) *Block {
	if !id.IsValid() || int(id) >= len(m.Blocks) {
		return nil
	}
	return &m.Blocks[id]
}

// Stmt returns the statement or nil.
func (m *Module) Stmt(id StmtID) *Stmt {
	if !id.IsValid() || int(id) >= len(m.Stmts) {
		return nil
	}
	return &m.Stmts[id]
}

// Expr returns the expression or nil.
func (m *Module) Expr(id ExprID) *Expr {
	if !id.IsValid() || int(id) >= len(m.Exprs) {
		return nil
	}
	return &m.Exprs[id]
}

// Local returns the local or nil.
func (m *Module) Local(id LocalID) *Local {
	if !id.IsValid() || int(id) >= len(m.Locals) {
		return nil
	}
	return &m.Locals[id]
}

// ExprSpan returns the recorded span of an expression.
func (m *Module) ExprSpan(id ExprID) source.Span {
	if int(id) >= len(m.Spans.Exprs) {
		return source.Span{}
	}
	return m.Spans.Exprs[id]
}

// StmtSpan returns the recorded span of a statement.
func (m *Module) StmtSpan(id StmtID) source.Span {
	if int(id) >= len(m.Spans.Stmts) {
		return source.Span{}
	}
	return m.Spans.Stmts[id]
}

// LocalSpan returns the recorded span of a local.
func (m *Module) LocalSpan(id LocalID) source.Span {
	if int(id) >= len(m.Spans.Locals) {
		return source.Span{}
	}
	return m.Spans.Locals[id]
}

// Item returns the item declared by decl.
func (m *Module) Item(decl ast.DeclID) (*Item, bool) {
	it, ok := m.Items[decl]
	return it, ok
}

// FindFunc finds a function item by name, returns nil if not found.
func (m *Module) FindFunc(name string) *Item {
	for _, decl := range m.ItemOrder {
		if it := m.Items[decl]; it.Kind == ItemFunc && it.Name == name {
			return it
		}
	}
	return nil
}

// LocalByDecl finds the local slot bound to a declaration.
func (m *Module) LocalByDecl(decl ast.DeclID) LocalID {
	for i := 1; i < len(m.Locals); i++ {
		if m.Locals[i].Decl == decl && decl.IsValid() {
			return LocalID(i) //nolint:gosec // bounded by IDGen
		}
	}
	return NoLocalID
}

// HasAttr reports whether expression id carries attr.
func (m *Module) HasAttr(id ExprID, attr Attr) bool {
	return m.Attrs.Exprs[id]&attr != 0
}

// SortedItems returns items ordered by DeclID.
func (m *Module) SortedItems() []*Item {
	ids := slices.Clone(m.ItemOrder)
	slices.Sort(ids)
	out := make([]*Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.Items[id])
	}
	return out
}
