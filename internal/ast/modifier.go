package ast

// Modifier is the binding modifier written on declarations and types.
type Modifier uint8

const (
	ModDefault Modifier = iota
	ModMut
	ModConst
	ModLiteral
)

func (m Modifier) String() string {
	switch m {
	case ModMut:
		return "mut"
	case ModConst:
		return "const"
	case ModLiteral:
		return "literal"
	default:
		return ""
	}
}
