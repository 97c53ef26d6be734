// Package token turns raw YANG schema text into a token stream. String
// concatenation with '+' is resolved here, so the statement builder only
// ever sees whole logical strings.
package token

import "fmt"

// Type is the kind of a token.
type Type uint8

const (
	TNone Type = iota
	// TQString is a quoted string, unquoted and with concatenation applied.
	TQString
	// TUString is an unquoted string (keywords and bare arguments).
	TUString
	// TSemi ends a statement.
	TSemi
	// TLBrace begins a statement block.
	TLBrace
	// TRBrace ends a statement block.
	TRBrace
)

func (t Type) String() string {
	switch t {
	case TQString:
		return "quoted-string"
	case TUString:
		return "string"
	case TSemi:
		return ";"
	case TLBrace:
		return "{"
	case TRBrace:
		return "}"
	}
	return "<none>"
}

// Pos is a line:column source position, 1-based.
type Pos struct {
	Line, Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is one lexical unit of a YANG document.
type Token struct {
	Type  Type
	Bytes []byte
	Pos   Pos
}

func (t Token) String() string {
	return string(t.Bytes)
}

// IsString reports whether the token is a quoted or unquoted string.
func (t Token) IsString() bool {
	return t.Type == TQString || t.Type == TUString
}
