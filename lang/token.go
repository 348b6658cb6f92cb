package lang

import (
	"fmt"
	"strings"
)

// TokenType identifies the lexical class of a [Token].
type TokenType uint8

// Token types.
const (
	TokenEOF TokenType = iota

	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenStarStar

	TokenEqualEqual
	TokenBangEqual
	TokenLesser
	TokenLesserEqual
	TokenGreater
	TokenGreaterEqual

	TokenAmpersand
	TokenPipe
	TokenCaret
	TokenBang

	TokenLeftParen
	TokenRightParen
	TokenLeftBracket
	TokenRightBracket

	TokenInteger
	TokenFloat
	TokenString
	TokenTrue
	TokenFalse
	TokenNull
	TokenIdentifier

	TokenComma
	TokenDollar
	TokenColon
	TokenPeriod
)

var tokenNames = [...]string{
	TokenEOF:          "EOF",
	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenStar:         "STAR",
	TokenSlash:        "SLASH",
	TokenPercent:      "PERCENT",
	TokenStarStar:     "STAR_STAR",
	TokenEqualEqual:   "EQUAL_EQUAL",
	TokenBangEqual:    "BANG_EQUAL",
	TokenLesser:       "LESSER",
	TokenLesserEqual:  "LESSER_EQUAL",
	TokenGreater:      "GREATER",
	TokenGreaterEqual: "GREATER_EQUAL",
	TokenAmpersand:    "AMPERSAND",
	TokenPipe:         "PIPE",
	TokenCaret:        "CARET",
	TokenBang:         "BANG",
	TokenLeftParen:    "LEFT_PAREN",
	TokenRightParen:   "RIGHT_PAREN",
	TokenLeftBracket:  "LEFT_BRACKET",
	TokenRightBracket: "RIGHT_BRACKET",
	TokenInteger:      "INTEGER",
	TokenFloat:        "FLOAT",
	TokenString:       "STRING",
	TokenTrue:         "TRUE",
	TokenFalse:        "FALSE",
	TokenNull:         "NULL",
	TokenIdentifier:   "IDENTIFIER",
	TokenComma:        "COMMA",
	TokenDollar:       "DOLLAR",
	TokenColon:        "COLON",
	TokenPeriod:       "PERIOD",
}

// String returns the upper-case name of the token type, which is also the
// name under which operators are registered.
func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}

	return fmt.Sprintf("TokenType(%d)", t)
}

// keywords maps reserved identifiers to their token types.
var keywords = map[string]TokenType{
	"True":  TokenTrue,
	"False": TokenFalse,
	"Null":  TokenNull,
}

// Token is a single lexical unit of BEXL source.
//
// Lexeme holds the raw source text of the token. Literal holds the decoded
// payload for literal tokens: int64 for INTEGER, float64 for FLOAT, string
// for STRING and bool for TRUE/FALSE. Line and Column are 0-based. Length is
// the number of source bytes the token spans.
type Token struct {
	Literal any
	Lexeme  string
	Line    int
	Column  int
	Length  int
	Type    TokenType
}

// Name returns the name of the token's type.
func (t Token) Name() string { return t.Type.String() }

// End returns the column immediately following the token.
func (t Token) End() int { return t.Column + t.Length }

// String returns the debug form of the token.
func (t Token) String() string {
	return t.Pretty(0)
}

// Pretty returns the debug form of the token indented by indent spaces.
func (t Token) Pretty(indent int) string {
	value := t.Lexeme
	if s, ok := t.Literal.(string); ok {
		value = s
	}

	return fmt.Sprintf("%sToken(%d:%d, %s, %q)",
		strings.Repeat(" ", indent), t.Line, t.Column, t.Type, value)
}
