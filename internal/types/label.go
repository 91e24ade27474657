package types

import (
	"fmt"
	"strings"
)

// Label returns a user-friendly label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	if typesIn == nil {
		return "?"
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	label := bareLabel(typesIn, tt, depth)
	if mod := tt.Modifier.String(); mod != "" {
		return mod + " " + label
	}
	return label
}

func bareLabel(typesIn *Interner, tt Type, depth int) string {
	switch tt.Kind {
	case KindError:
		return "<error>"
	case KindUnit:
		return "()"
	case KindNone, KindBool, KindChar, KindString:
		return tt.Kind.String()
	case KindUntypedInt, KindUntypedUint, KindUntypedFloat:
		return "{" + tt.Kind.String() + "}"
	case KindInt:
		return formatIntType(tt.Width, true)
	case KindUint:
		return formatIntType(tt.Width, false)
	case KindFloat:
		return fmt.Sprintf("f%d", tt.Width)
	case KindPointer:
		return "*" + labelDepth(typesIn, tt.Elem, depth+1)
	case KindReference:
		if tt.Mutable {
			return "&mut " + labelDepth(typesIn, tt.Elem, depth+1)
		}
		return "&" + labelDepth(typesIn, tt.Elem, depth+1)
	case KindOptional:
		return labelDepth(typesIn, tt.Elem, depth+1) + "?"
	case KindArray:
		elem := labelDepth(typesIn, tt.Elem, depth+1)
		switch {
		case tt.Array == ArraySlice || tt.Count == ArrayDynamicLength:
			return elem + "[]"
		case tt.Array == ArrayHeap:
			return fmt.Sprintf("heap %s[%d]", elem, tt.Count)
		default:
			return fmt.Sprintf("%s[%d]", elem, tt.Count)
		}
	case KindNamed:
		if info, ok := typesIn.NamedInfo(typeIDOf(typesIn, tt)); ok {
			return info.Name
		}
		return "<named>"
	case KindFn:
		info, ok := typesIn.FnInfo(typeIDOf(typesIn, tt))
		if !ok {
			return "fn(?)"
		}
		parts := make([]string, len(info.Params))
		for i, p := range info.Params {
			parts[i] = labelDepth(typesIn, p, depth+1)
		}
		return fmt.Sprintf("fn(%s) %s", strings.Join(parts, ", "), labelDepth(typesIn, info.Result, depth+1))
	case KindVar:
		return fmt.Sprintf("'t%d", tt.Payload)
	default:
		return tt.Kind.String()
	}
}

// typeIDOf finds the unqualified id of a named or fn descriptor.
func typeIDOf(typesIn *Interner, tt Type) TypeID {
	tt.Modifier = 0
	return typesIn.index[typeKey(tt)]
}

func formatIntType(width Width, signed bool) string {
	prefix := "i"
	base := "int"
	if !signed {
		prefix = "u"
		base = "uint"
	}
	if width == WidthAny {
		return base
	}
	return fmt.Sprintf("%s%d", prefix, width)
}
