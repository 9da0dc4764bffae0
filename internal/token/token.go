package token

import (
	"quill/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwGlobal, KwUsing, KwNamespace, KwClass, KwStruct, KwInterface, KwRecord, KwEnum:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsDeclKeyword reports whether the token starts a type declaration.
func (t Token) IsDeclKeyword() bool {
	switch t.Kind {
	case KwClass, KwStruct, KwInterface, KwRecord, KwEnum:
		return true
	default:
		return false
	}
}
