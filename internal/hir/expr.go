package hir

import (
	"soul/internal/ast"
	"soul/internal/types"
)

// ExprKind enumerates HIR expression forms.
type ExprKind uint8

const (
	ExprError      ExprKind = iota // poison left where a reference failed to resolve
	ExprLit                        // literal value
	ExprLoad                       // read of a place
	ExprFuncRef                    // reference to a function declaration
	ExprBinary                     // binary operator
	ExprUnary                      // unary operator
	ExprRef                        // &place / &mut place
	ExprCall                       // call with resolved callee and overload candidates
	ExprCast                       // value as Type
	ExprBlock                      // nested block
	ExprIf                         // if / else-if / else chain
	ExprWhile                      // while loop, optional condition
	ExprFor                        // deferred for-loop
	ExprStackArray                 // uninitialized fixed-size array
)

func (k ExprKind) String() string {
	switch k {
	case ExprError:
		return "error"
	case ExprLit:
		return "lit"
	case ExprLoad:
		return "load"
	case ExprFuncRef:
		return "fnref"
	case ExprBinary:
		return "binary"
	case ExprUnary:
		return "unary"
	case ExprRef:
		return "ref"
	case ExprCall:
		return "call"
	case ExprCast:
		return "cast"
	case ExprBlock:
		return "block"
	case ExprIf:
		return "if"
	case ExprWhile:
		return "while"
	case ExprFor:
		return "for"
	case ExprStackArray:
		return "stack_array"
	default:
		return "unknown"
	}
}

// Literal keeps the literal's syntactic kind and source text.
type Literal struct {
	Kind ast.ExprLitKind `msgpack:"kind" json:"kind"`
	Text string          `msgpack:"text" json:"text"`
}

// PlaceKind enumerates addressable locations.
type PlaceKind uint8

const (
	PlaceLocal PlaceKind = iota + 1
	PlaceIndex
	PlaceDeref
	PlaceField
)

// Place is an addressable location: a local or a projection of another place.
type Place struct {
	Kind  PlaceKind `msgpack:"kind" json:"kind"`
	Local LocalID   `msgpack:"local,omitempty" json:"local,omitempty"` // PlaceLocal
	Base  *Place    `msgpack:"base,omitempty" json:"base,omitempty"`   // Index, Deref, Field
	Index ExprID    `msgpack:"index,omitempty" json:"index,omitempty"` // PlaceIndex
	Field string    `msgpack:"field,omitempty" json:"field,omitempty"` // PlaceField
}

// Root returns the local at the bottom of a projection chain.
func (p *Place) Root() LocalID {
	for p != nil && p.Kind != PlaceLocal {
		p = p.Base
	}
	if p == nil {
		return NoLocalID
	}
	return p.Local
}

// ArmKind distinguishes the two forms of an else arm.
type ArmKind uint8

const (
	ArmElse ArmKind = iota + 1
	ArmElseIf
)

// If is one link of an if/else chain.
type If struct {
	Cond ExprID  `msgpack:"cond" json:"cond"`
	Body BlockID `msgpack:"body" json:"body"`
	Else *Arm    `msgpack:"else,omitempty" json:"else,omitempty"`
}

// Arm is either a final else block or the next if of the chain.
type Arm struct {
	Kind ArmKind `msgpack:"kind" json:"kind"`
	Body BlockID `msgpack:"body,omitempty" json:"body,omitempty"` // ArmElse
	If   *If     `msgpack:"if,omitempty" json:"if,omitempty"`     // ArmElseIf
}

// Branch is one flattened entry of an if chain.
type Branch struct {
	Cond ExprID // NoExprID for the final else
	Body BlockID
}

// Branches walks the chain in source order.
func (i *If) Branches() []Branch {
	var out []Branch
	for cur := i; cur != nil; {
		out = append(out, Branch{Cond: cur.Cond, Body: cur.Body})
		arm := cur.Else
		cur = nil
		if arm == nil {
			break
		}
		switch arm.Kind {
		case ArmElse:
			out = append(out, Branch{Body: arm.Body})
		case ArmElseIf:
			cur = arm.If
		}
	}
	return out
}

// For keeps a for-loop in its surface shape until the iteration protocol is
// settled; only its parts are lowered.
type For struct {
	Binding LocalID `msgpack:"binding" json:"binding"`
	Iter    ExprID  `msgpack:"iter" json:"iter"`
	Body    BlockID `msgpack:"body" json:"body"`
}

// Expr is an HIR expression. Kind selects which fields are meaningful.
type Expr struct {
	Kind ExprKind `msgpack:"kind" json:"kind"`

	Lit   *Literal   `msgpack:"lit,omitempty" json:"lit,omitempty"`
	Place *Place     `msgpack:"place,omitempty" json:"place,omitempty"` // Load, Ref
	Decl  ast.DeclID `msgpack:"decl,omitempty" json:"decl,omitempty"`   // FuncRef

	Op      ast.ExprBinaryOp `msgpack:"op,omitempty" json:"op,omitempty"`
	UnaryOp ast.ExprUnaryOp  `msgpack:"unary_op,omitempty" json:"unary_op,omitempty"`
	Left    ExprID           `msgpack:"left,omitempty" json:"left,omitempty"`
	Right   ExprID           `msgpack:"right,omitempty" json:"right,omitempty"`
	Operand ExprID           `msgpack:"operand,omitempty" json:"operand,omitempty"`
	Mut     bool             `msgpack:"mut,omitempty" json:"mut,omitempty"`

	Callee     ExprID       `msgpack:"callee,omitempty" json:"callee,omitempty"`
	Args       []ExprID     `msgpack:"args,omitempty" json:"args,omitempty"`
	Candidates []ast.DeclID `msgpack:"candidates,omitempty" json:"candidates,omitempty"`

	Type types.TypeID `msgpack:"type,omitempty" json:"type,omitempty"` // Cast target, StackArray element
	Len  uint32       `msgpack:"len,omitempty" json:"len,omitempty"`   // StackArray

	Block BlockID `msgpack:"block,omitempty" json:"block,omitempty"` // Block, While body
	Cond  ExprID  `msgpack:"cond,omitempty" json:"cond,omitempty"`   // While
	If    *If     `msgpack:"if,omitempty" json:"if,omitempty"`
	For   *For    `msgpack:"for,omitempty" json:"for,omitempty"`
}
