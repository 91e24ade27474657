package hir

import (
	"fmt"
	"io"
	"strings"

	"soul/internal/types"
)

// DumpOptions configures HIR dumping.
type DumpOptions struct {
	// ExprTypes annotates expressions with inferred types when set.
	ExprTypes map[ExprID]types.TypeID
	// Spans appends the source span of every statement.
	Spans bool
}

// Printer is used to dump HIR to text format.
type Printer struct {
	w      io.Writer
	m      *Module
	indent int
	opts   DumpOptions
	err    error
}

// NewPrinter creates a new HIR printer.
func NewPrinter(w io.Writer, m *Module, opts DumpOptions) *Printer {
	return &Printer{w: w, m: m, opts: opts}
}

// Dump writes the HIR module to the writer.
func Dump(w io.Writer, m *Module) error {
	return DumpWithOptions(w, m, DumpOptions{})
}

// DumpWithOptions writes a formatted HIR module to the provided writer with options.
func DumpWithOptions(w io.Writer, m *Module, opts DumpOptions) error {
	p := NewPrinter(w, m, opts)
	return p.PrintModule()
}

// PrintModule prints a complete module.
func (p *Printer) PrintModule() error {
	m := p.m
	items := m.SortedItems()

	for _, it := range items {
		if it.Kind != ItemType {
			continue
		}
		p.printf("type %s <%s> (decl=%d)\n", it.Name, it.Type.Kind, it.Decl)
		for _, f := range it.Type.Fields {
			p.printf("  field %s: %s\n", f.Name, p.typeStr(f.Type))
		}
		for _, v := range it.Type.Variants {
			p.printf("  variant %s", v.Name)
			if v.Type != types.NoTypeID {
				p.printf("(%s)", p.typeStr(v.Type))
			}
			p.printf("\n")
		}
	}

	for _, impl := range m.Impls {
		p.printf("impl trait=%d for %s methods=%v\n", impl.Trait, p.typeStr(impl.Target), impl.Methods)
	}

	if len(m.Globals) > 0 {
		p.printf("globals {\n")
		p.indent++
		for _, sid := range m.Globals {
			p.printStmt(sid)
		}
		p.indent--
		p.printf("}\n")
	}

	for _, it := range items {
		if it.Kind == ItemFunc {
			p.printFunc(it)
		}
	}
	return p.err
}

func (p *Printer) printFunc(it *Item) {
	f := it.Func
	p.printf("\nfn %s(", it.Name)
	for i, param := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s: %s", p.localName(param.Local), p.typeStr(param.Type))
	}
	p.printf(") -> %s (decl=%d", p.typeStr(f.Result), it.Decl)
	if f.Owner.IsValid() {
		p.printf(", owner=%d", f.Owner)
	}
	p.printf(")")
	if !f.Body.IsValid() {
		p.printf("\n")
		return
	}
	p.printf(" ")
	p.printBlock(f.Body)
	p.printf("\n")
}

func (p *Printer) printBlock(id BlockID) {
	b := p.m.Block(id)
	if b == nil {
		p.printf("{}")
		return
	}
	p.printf("{\n")
	p.indent++
	for _, sid := range b.Stmts {
		p.printStmt(sid)
	}
	if b.Tail.IsValid() {
		p.printIndent()
		p.printf("tail ")
		p.printExpr(b.Tail)
		p.printf("\n")
	}
	p.indent--
	p.printIndent()
	p.printf("}")
}

func (p *Printer) printStmt(id StmtID) {
	s := p.m.Stmt(id)
	if s == nil {
		return
	}
	p.printIndent()
	if p.m.Attrs.Stmts[id]&AttrSynthetic != 0 {
		p.printf("@synthetic ")
	}
	switch s.Kind {
	case StmtLet:
		l := p.m.Local(s.Local)
		p.printf("let ")
		if l != nil && l.Modifier != 0 {
			p.printf("%s ", l.Modifier)
		}
		p.printf("%s", p.localName(s.Local))
		if l != nil && l.Type != types.NoTypeID {
			p.printf(": %s", p.typeStr(l.Type))
		}
		if s.Value.IsValid() {
			p.printf(" = ")
			p.printExpr(s.Value)
		}
	case StmtAssign:
		p.printPlace(s.Place)
		p.printf(" = ")
		p.printExpr(s.Value)
	case StmtExpr:
		p.printExpr(s.Value)
	case StmtReturn, StmtBreak:
		p.printf("%s", s.Kind)
		if s.Value.IsValid() {
			p.printf(" ")
			p.printExpr(s.Value)
		}
	default:
		p.printf("%s", s.Kind)
	}
	if p.opts.Spans {
		sp := p.m.StmtSpan(id)
		p.printf(" @%d..%d", sp.Start, sp.End)
	}
	p.printf("\n")
}

func (p *Printer) printExpr(id ExprID) {
	e := p.m.Expr(id)
	if e == nil {
		p.printf("<nil>")
		return
	}
	switch e.Kind {
	case ExprError:
		p.printf("<error>")
	case ExprLit:
		p.printf("%s", e.Lit.Text)
	case ExprLoad:
		p.printPlace(e.Place)
	case ExprFuncRef:
		p.printf("fn#%d", e.Decl)
	case ExprBinary:
		p.printf("(")
		p.printExpr(e.Left)
		p.printf(" %s ", e.Op)
		p.printExpr(e.Right)
		p.printf(")")
	case ExprUnary:
		p.printf("%s", e.UnaryOp)
		p.printExpr(e.Operand)
	case ExprRef:
		p.printf("&")
		if e.Mut {
			p.printf("mut ")
		}
		p.printPlace(e.Place)
	case ExprCall:
		p.printExpr(e.Callee)
		p.printf("(")
		for i, a := range e.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(a)
		}
		p.printf(")")
		if len(e.Candidates) > 1 {
			p.printf(" candidates=%v", e.Candidates)
		}
	case ExprCast:
		p.printExpr(e.Operand)
		p.printf(" as %s", p.typeStr(e.Type))
	case ExprBlock:
		p.printBlock(e.Block)
	case ExprIf:
		for i, br := range e.If.Branches() {
			switch {
			case i == 0:
				p.printf("if ")
				p.printExpr(br.Cond)
				p.printf(" ")
			case br.Cond.IsValid():
				p.printf(" else if ")
				p.printExpr(br.Cond)
				p.printf(" ")
			default:
				p.printf(" else ")
			}
			p.printBlock(br.Body)
		}
	case ExprWhile:
		p.printf("while ")
		if e.Cond.IsValid() {
			p.printExpr(e.Cond)
			p.printf(" ")
		}
		p.printBlock(e.Block)
	case ExprFor:
		p.printf("@unstable for %s in ", p.localName(e.For.Binding))
		p.printExpr(e.For.Iter)
		p.printf(" ")
		p.printBlock(e.For.Body)
	case ExprStackArray:
		p.printf("stack_array<%s>[%d]", p.typeStr(e.Type), e.Len)
	default:
		p.printf("<%s>", e.Kind)
	}
	if t, ok := p.opts.ExprTypes[id]; ok {
		p.printf(" :: %s", p.typeStr(t))
	}
}

func (p *Printer) printPlace(pl *Place) {
	if pl == nil {
		p.printf("<error>")
		return
	}
	switch pl.Kind {
	case PlaceLocal:
		p.printf("%s", p.localName(pl.Local))
	case PlaceIndex:
		p.printPlace(pl.Base)
		p.printf("[")
		p.printExpr(pl.Index)
		p.printf("]")
	case PlaceDeref:
		p.printf("*")
		p.printPlace(pl.Base)
	case PlaceField:
		p.printPlace(pl.Base)
		p.printf(".%s", pl.Field)
	}
}

func (p *Printer) localName(id LocalID) string {
	if l := p.m.Local(id); l != nil {
		return fmt.Sprintf("%s#%d", l.Name, id)
	}
	return fmt.Sprintf("<local %d>", id)
}

func (p *Printer) typeStr(id types.TypeID) string {
	if id == types.NoTypeID {
		return "_"
	}
	return types.Label(p.m.Types, id)
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
