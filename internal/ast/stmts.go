package ast

import (
	"soul/internal/source"
)

// Stmts manages allocation of statements.
type Stmts struct {
	Arena     *Arena[Stmt]
	Vars      *Arena[StmtVarData]
	Assigns   *Arena[StmtAssignData]
	Funcs     *Arena[StmtFuncData]
	TypeDecls *Arena[StmtTypeDeclData]
	Impls     *Arena[StmtImplData]
	Exprs     *Arena[StmtExprData]
	Jumps     *Arena[StmtJumpData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:     NewArena[Stmt](capHint),
		Vars:      NewArena[StmtVarData](capHint),
		Assigns:   NewArena[StmtAssignData](capHint),
		Funcs:     NewArena[StmtFuncData](capHint),
		TypeDecls: NewArena[StmtTypeDeclData](capHint),
		Impls:     NewArena[StmtImplData](capHint),
		Exprs:     NewArena[StmtExprData](capHint),
		Jumps:     NewArena[StmtJumpData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the statement with the given ID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return 0, false
	}
	return uint32(st.Payload), true
}

// NewVar creates `name := value` / `name: T = value`.
func (s *Stmts) NewVar(span, nameSpan source.Span, name source.StringID, typ TypeID, value ExprID, mod Modifier) StmtID {
	payload := s.Vars.Allocate(StmtVarData{
		Name:     name,
		NameSpan: nameSpan,
		Type:     typ,
		Value:    value,
		Modifier: mod,
	})
	return s.new(StmtVar, span, payload)
}

func (s *Stmts) Var(id StmtID) (*StmtVarData, bool) {
	p, ok := s.payload(id, StmtVar)
	if !ok {
		return nil, false
	}
	return s.Vars.Get(p), true
}

func (s *Stmts) NewAssign(span source.Span, target, value ExprID) StmtID {
	payload := s.Assigns.Allocate(StmtAssignData{Target: target, Value: value})
	return s.new(StmtAssign, span, payload)
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	p, ok := s.payload(id, StmtAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(p), true
}

// NewFunc creates a function declaration. body must be a block expression or NoExprID.
func (s *Stmts) NewFunc(span, nameSpan source.Span, name source.StringID, params []Param, result TypeID, body ExprID) StmtID {
	payload := s.Funcs.Allocate(StmtFuncData{
		Name:     name,
		NameSpan: nameSpan,
		Params:   append([]Param(nil), params...),
		Result:   result,
		Body:     body,
		Scope:    NoScopeID,
	})
	return s.new(StmtFunc, span, payload)
}

func (s *Stmts) Func(id StmtID) (*StmtFuncData, bool) {
	p, ok := s.payload(id, StmtFunc)
	if !ok {
		return nil, false
	}
	return s.Funcs.Get(p), true
}

// NewTypeDecl creates a struct, class, trait, enum or union declaration.
func (s *Stmts) NewTypeDecl(span, nameSpan source.Span, kind TypeDeclKind, name source.StringID, fields []Field, variants []Variant, methods []StmtID) StmtID {
	payload := s.TypeDecls.Allocate(StmtTypeDeclData{
		Kind:     kind,
		Name:     name,
		NameSpan: nameSpan,
		Fields:   append([]Field(nil), fields...),
		Variants: append([]Variant(nil), variants...),
		Methods:  append([]StmtID(nil), methods...),
		Scope:    NoScopeID,
	})
	return s.new(StmtTypeDecl, span, payload)
}

func (s *Stmts) TypeDecl(id StmtID) (*StmtTypeDeclData, bool) {
	p, ok := s.payload(id, StmtTypeDecl)
	if !ok {
		return nil, false
	}
	return s.TypeDecls.Get(p), true
}

func (s *Stmts) NewImpl(span source.Span, trait, target TypeID, methods []StmtID) StmtID {
	payload := s.Impls.Allocate(StmtImplData{
		Trait:   trait,
		Target:  target,
		Methods: append([]StmtID(nil), methods...),
		Scope:   NoScopeID,
	})
	return s.new(StmtImpl, span, payload)
}

func (s *Stmts) Impl(id StmtID) (*StmtImplData, bool) {
	p, ok := s.payload(id, StmtImpl)
	if !ok {
		return nil, false
	}
	return s.Impls.Get(p), true
}

// NewExpr wraps an expression as a statement. A block's last expression
// statement without a semicolon is its tail value.
func (s *Stmts) NewExpr(span source.Span, expr ExprID, semicolon bool) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Expr: expr, Semicolon: semicolon})
	return s.new(StmtExpr, span, payload)
}

func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(p), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Jumps.Allocate(StmtJumpData{Value: value}))
}

func (s *Stmts) NewBreak(span source.Span, value ExprID) StmtID {
	return s.new(StmtBreak, span, s.Jumps.Allocate(StmtJumpData{Value: value}))
}

func (s *Stmts) NewContinue(span source.Span, value ExprID) StmtID {
	return s.new(StmtContinue, span, s.Jumps.Allocate(StmtJumpData{Value: value}))
}

// Jump returns the payload of a return, break or continue statement.
func (s *Stmts) Jump(id StmtID) (*StmtJumpData, bool) {
	st := s.Get(id)
	if st == nil {
		return nil, false
	}
	switch st.Kind {
	case StmtReturn, StmtBreak, StmtContinue:
		return s.Jumps.Get(uint32(st.Payload)), true
	}
	return nil, false
}
