package diag

import (
	"soul/internal/source"
)

type Note struct {
	Span source.Span `msgpack:"span" json:"span"`
	Msg  string      `msgpack:"msg" json:"msg"`
}

// Diagnostic is one accumulated fault.
type Diagnostic struct {
	Severity Severity    `msgpack:"severity" json:"severity"`
	Code     Code        `msgpack:"code" json:"code"`
	Message  string      `msgpack:"message" json:"message"`
	Primary  source.Span `msgpack:"primary" json:"primary"`
	Notes    []Note      `msgpack:"notes,omitempty" json:"notes,omitempty"`
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
