package ast

import (
	"soul/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota + 1
	ExprLit
	ExprBinary
	ExprUnary
	ExprRef
	ExprDeref
	ExprCall
	ExprIndex
	ExprField
	ExprArray
	ExprCast
	ExprBlock
	ExprIf
	ExprWhile
	ExprFor
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "Ident"
	case ExprLit:
		return "Lit"
	case ExprBinary:
		return "Binary"
	case ExprUnary:
		return "Unary"
	case ExprRef:
		return "Ref"
	case ExprDeref:
		return "Deref"
	case ExprCall:
		return "Call"
	case ExprIndex:
		return "Index"
	case ExprField:
		return "Field"
	case ExprArray:
		return "Array"
	case ExprCast:
		return "Cast"
	case ExprBlock:
		return "Block"
	case ExprIf:
		return "If"
	case ExprWhile:
		return "While"
	case ExprFor:
		return "For"
	default:
		return "Unknown"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota + 1
	ExprLitUint
	ExprLitFloat
	ExprLitTrue
	ExprLitFalse
	ExprLitString
	ExprLitChar
)

type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota + 1
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShiftLeft
	ExprBinaryShiftRight
)

var binaryOpText = map[ExprBinaryOp]string{
	ExprBinaryAdd:        "+",
	ExprBinarySub:        "-",
	ExprBinaryMul:        "*",
	ExprBinaryDiv:        "/",
	ExprBinaryMod:        "%",
	ExprBinaryEq:         "==",
	ExprBinaryNotEq:      "!=",
	ExprBinaryLess:       "<",
	ExprBinaryLessEq:     "<=",
	ExprBinaryGreater:    ">",
	ExprBinaryGreaterEq:  ">=",
	ExprBinaryLogicalAnd: "&&",
	ExprBinaryLogicalOr:  "||",
	ExprBinaryBitAnd:     "&",
	ExprBinaryBitOr:      "|",
	ExprBinaryBitXor:     "^",
	ExprBinaryShiftLeft:  "<<",
	ExprBinaryShiftRight: ">>",
}

func (op ExprBinaryOp) String() string {
	if s, ok := binaryOpText[op]; ok {
		return s
	}
	return "?"
}

type ExprUnaryOp uint8

const (
	ExprUnaryNeg ExprUnaryOp = iota + 1
	ExprUnaryNot
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNeg:
		return "-"
	case ExprUnaryNot:
		return "!"
	default:
		return "?"
	}
}

type ExprIdentData struct {
	Name source.StringID
	Decl DeclID // filled by the resolver
}

type ExprLiteralData struct {
	Kind  ExprLitKind
	Value source.StringID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprRefData struct {
	Mut   bool
	Value ExprID
}

type ExprDerefData struct {
	Value ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
	// Candidates lists every visible function declaration with the callee's
	// name, innermost first. Picking one is left to later passes.
	Candidates []DeclID
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

type ExprFieldData struct {
	Target ExprID
	Field  source.StringID
}

type ExprArrayData struct {
	Elems    []ExprID
	ElemType TypeID // optional
}

type ExprCastData struct {
	Value ExprID
	Type  TypeID
}

type ExprBlockData struct {
	Stmts []StmtID
	Scope ScopeID
}

type ElseKind uint8

const (
	ElseIf ElseKind = iota + 1
	ElsePlain
)

// ElseArm is one `else if` or `else` following an if expression, in source order.
type ElseArm struct {
	Kind ElseKind
	Cond ExprID // ElseIf only
	Body ExprID // block expression
	Span source.Span
}

type ExprIfData struct {
	Cond ExprID
	Then ExprID
	Arms []ElseArm
}

type ExprWhileData struct {
	Cond ExprID // NoExprID for an infinite loop
	Body ExprID
}

type ExprForData struct {
	Binding     source.StringID
	BindingSpan source.Span
	Decl        DeclID
	Iter        ExprID
	Body        ExprID
	Scope       ScopeID
}
