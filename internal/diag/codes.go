package diag

import (
	"fmt"
)

type Code uint16

const (
	// catch-all
	UnknownCode Code = 0

	// Parser faults, carried in with the unit
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnclosedBlock   Code = 2002

	// resolution and typing
	SemaInfo            Code = 3000
	SemaScopeOverride   Code = 3001
	SemaNotFoundInScope Code = 3002
	SemaInvalidTypeKind Code = 3003
	SemaInvalidContext  Code = 3004
	SemaUnifyTypeError  Code = 3005
	SemaUnresolvedType  Code = 3006
	SemaUnstableFeature Code = 3007

	// I/O
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Internal invariant violations
	InternalError Code = 9000
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		SynInfo:             "Syntax information",
		SynUnexpectedToken:  "Unexpected token",
		SynUnclosedBlock:    "Unclosed block",
		SemaInfo:            "Semantic information",
		SemaScopeOverride:   "Declaration overrides an existing one in the same scope",
		SemaNotFoundInScope: "Name not found in scope",
		SemaInvalidTypeKind: "Invalid kind of type",
		SemaInvalidContext:  "Construct not valid in this context",
		SemaUnifyTypeError:  "Type mismatch",
		SemaUnresolvedType:  "Type was not resolved",
		SemaUnstableFeature: "Unstable feature",
		IOLoadFileError:     "I/O load file error",
		IODecodeError:       "Unit decode error",
		ObsInfo:             "Observability information",
		ObsTimings:          "Pipeline timings",
		InternalError:       "Internal compiler error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("ICE%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
