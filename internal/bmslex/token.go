// Package bmslex is the lexical front end for BMS text (component A/B of
// spec.md §2): a stateful Cursor, a chain of relaxers that normalize common
// authoring mistakes, channel lookup, and a Lex entry point that turns a
// source string into an ordered TokenStream plus recoverable warnings.
//
// Grounded on the teacher's internal/corelx/lexer.go (line/column tracking,
// a token-type enum, keyword table) and adapted to BMS's command/message
// line shape instead of CoreLX's indentation-sensitive grammar.
package bmslex

import "nitro-core-dx/internal/diag"

// TokenKind tags what kind of line-level token was produced.
type TokenKind int

const (
	// TokenHeader is `#NAME args...`.
	TokenHeader TokenKind = iota
	// TokenMessage is `#XXXYY:DATA`.
	TokenMessage
	// TokenNotACommand preserves a non-command source line verbatim.
	TokenNotACommand

	// Control-flow tokens, spec.md §4.2.
	TokenRandom
	TokenSetRandom
	TokenIf
	TokenElseIf
	TokenElse
	TokenEndIf
	TokenEndRandom
	TokenSwitch
	TokenSetSwitch
	TokenCase
	TokenDef
	TokenSkip
	TokenEndSwitch
)

// Token is one lexical unit with its byte range in the source.
type Token struct {
	Kind  TokenKind
	Range diag.ByteRange

	// Header fields.
	HeaderName string
	HeaderArgs string

	// Message fields.
	Track   int64
	Channel string // raw 2-char channel code, looked up later by a ChannelMapper
	Message string

	// NotACommand field.
	Text string

	// Control-flow numeric argument (Random/SetRandom max or value,
	// If/ElseIf/Case condition value). Nil when the token carries none
	// (Else, EndIf, EndRandom, Def, Skip, EndSwitch).
	Value *int64
}

// LexOutput is the result of lexing one BMS source document.
type LexOutput struct {
	Tokens   []Token
	Warnings []diag.Diagnostic
}
