package ast

import (
	"soul/internal/source"
)

type StmtKind uint8

const (
	StmtVar StmtKind = iota + 1
	StmtAssign
	StmtFunc
	StmtTypeDecl
	StmtImpl
	StmtExpr
	StmtReturn
	StmtBreak
	StmtContinue
)

func (k StmtKind) String() string {
	switch k {
	case StmtVar:
		return "Var"
	case StmtAssign:
		return "Assign"
	case StmtFunc:
		return "Func"
	case StmtTypeDecl:
		return "TypeDecl"
	case StmtImpl:
		return "Impl"
	case StmtExpr:
		return "Expr"
	case StmtReturn:
		return "Return"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	default:
		return "Unknown"
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtVarData struct {
	Name     source.StringID
	NameSpan source.Span
	Type     TypeID // NoTypeID if type is inferred
	Value    ExprID // NoExprID if no initialization
	Modifier Modifier
	Decl     DeclID
}

type StmtAssignData struct {
	Target ExprID
	Value  ExprID
}

type Param struct {
	Name     source.StringID
	Type     TypeID
	Modifier Modifier
	Span     source.Span
	Decl     DeclID
}

type StmtFuncData struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []Param
	Result   TypeID // NoTypeID means unit
	Body     ExprID // block expression; NoExprID for a bodiless declaration
	Modifier Modifier
	Decl     DeclID
	Scope    ScopeID
}

type TypeDeclKind uint8

const (
	TypeDeclStruct TypeDeclKind = iota + 1
	TypeDeclClass
	TypeDeclTrait
	TypeDeclEnum
	TypeDeclUnion
)

func (k TypeDeclKind) String() string {
	switch k {
	case TypeDeclStruct:
		return "struct"
	case TypeDeclClass:
		return "class"
	case TypeDeclTrait:
		return "trait"
	case TypeDeclEnum:
		return "enum"
	case TypeDeclUnion:
		return "union"
	default:
		return "type"
	}
}

type Field struct {
	Name source.StringID
	Type TypeID
	Span source.Span
	Decl DeclID
}

// Variant is an enum or union member. Type is NoTypeID for enum variants.
type Variant struct {
	Name source.StringID
	Type TypeID
	Span source.Span
	Decl DeclID
}

type StmtTypeDeclData struct {
	Kind     TypeDeclKind
	Name     source.StringID
	NameSpan source.Span
	Fields   []Field
	Variants []Variant
	Methods  []StmtID
	Decl     DeclID
	Scope    ScopeID
}

// StmtImplData is `impl Trait for Target { ... }`; Trait is NoTypeID for a
// plain `use Target { ... }` method block.
type StmtImplData struct {
	Trait   TypeID
	Target  TypeID
	Methods []StmtID
	Scope   ScopeID
}

type StmtExprData struct {
	Expr      ExprID
	Semicolon bool
}

// StmtJumpData is shared by return, break and continue.
type StmtJumpData struct {
	Value ExprID
}
