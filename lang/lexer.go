package lang

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// munch is a node in the maximal-munch table. A character that continues a
// longer operator selects a child node; otherwise the node's own type is
// produced.
type munch struct {
	next map[byte]munch
	typ  TokenType
}

var operators = map[byte]munch{
	'+': {typ: TokenPlus},
	'-': {typ: TokenMinus},
	'/': {typ: TokenSlash},
	'%': {typ: TokenPercent},
	'&': {typ: TokenAmpersand},
	'|': {typ: TokenPipe},
	'^': {typ: TokenCaret},
	'(': {typ: TokenLeftParen},
	')': {typ: TokenRightParen},
	'[': {typ: TokenLeftBracket},
	']': {typ: TokenRightBracket},
	',': {typ: TokenComma},
	'$': {typ: TokenDollar},
	':': {typ: TokenColon},
	'.': {typ: TokenPeriod},
	'*': {typ: TokenStar, next: map[byte]munch{'*': {typ: TokenStarStar}}},
	'!': {typ: TokenBang, next: map[byte]munch{'=': {typ: TokenBangEqual}}},
	'<': {typ: TokenLesser, next: map[byte]munch{'=': {typ: TokenLesserEqual}}},
	'>': {typ: TokenGreater, next: map[byte]munch{'=': {typ: TokenGreaterEqual}}},
}

// Lexer scans BEXL source text into tokens.
type Lexer struct {
	source    string
	start     int
	current   int
	line      int
	lineStart int
}

// NewLexer returns a lexer over source.
func NewLexer(source string) *Lexer {
	return &Lexer{source: source}
}

// Lex scans source into tokens terminated by an EOF token.
func Lex(source string) ([]Token, error) {
	return NewLexer(source).Lex()
}

// Lex scans the lexer's entire source. It may be called more than once.
func (l *Lexer) Lex() ([]Token, error) {
	l.start, l.current, l.line, l.lineStart = 0, 0, 0, 0

	tokens := make([]Token, 0, len(l.source)/2+1)

	for {
		tok, err := l.scan()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)

		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) eof() bool { return l.current >= len(l.source) }

func (l *Lexer) advance() byte {
	l.current++

	return l.source[l.current-1]
}

// peek returns the character depth positions ahead of the last consumed
// one, or 0 past the end of input. peek(1) is the next character.
func (l *Lexer) peek(depth int) byte {
	pos := l.current + depth - 1
	if pos < 0 || pos >= len(l.source) {
		return 0
	}

	return l.source[pos]
}

func (l *Lexer) match(c byte) bool {
	if l.peek(1) == c {
		l.current++

		return true
	}

	return false
}

func (l *Lexer) newline() {
	l.line++
	l.lineStart = l.current
}

func (l *Lexer) token(typ TokenType, literal any) Token {
	tok := Token{
		Type:    typ,
		Literal: literal,
		Line:    l.line,
		Column:  l.start - l.lineStart,
		Length:  l.current - l.start,
	}

	if typ != TokenEOF {
		tok.Lexeme = l.source[l.start:l.current]
	}

	return tok
}

func (l *Lexer) scan() (Token, error) {
	for {
		l.start = l.current

		if l.eof() {
			return l.token(TokenEOF, nil), nil
		}

		c := l.advance()

		switch {
		case c == '\n':
			l.newline()

			continue

		case isSpace(c):
			continue

		case c == '=':
			if l.match('=') {
				return l.token(TokenEqualEqual, nil), nil
			}

		case c == '\'':
			return l.scanString()

		case isDigit(c):
			return l.scanNumber(), nil

		case isAlpha(c):
			return l.scanIdentifier(), nil

		default:
			if m, ok := operators[c]; ok {
				return l.token(l.munch(m), nil), nil
			}
		}

		r, _ := utf8.DecodeRuneInString(l.source[l.start:])

		return Token{}, lexerError(l.line, l.start-l.lineStart,
			"Unexpected character %q", string(r))
	}
}

// munch extends the operator described by m as far as the input allows.
func (l *Lexer) munch(m munch) TokenType {
	for len(m.next) > 0 {
		n, ok := m.next[l.peek(1)]
		if !ok {
			break
		}

		l.current++
		m = n
	}

	return m.typ
}

func (l *Lexer) scanString() (Token, error) {
	line, column := l.line, l.start-l.lineStart

	for !l.eof() && l.peek(1) != '\'' {
		switch l.advance() {
		case '\\':
			l.match('\'')
		case '\n':
			l.newline()
		}
	}

	if l.eof() {
		return Token{}, lexerError(line, column, "Unterminated string literal")
	}

	l.current++ // closing quote

	value := strings.ReplaceAll(l.source[l.start+1:l.current-1], `\'`, "'")

	return Token{
		Type:    TokenString,
		Lexeme:  l.source[l.start:l.current],
		Literal: value,
		Line:    line,
		Column:  column,
		Length:  l.current - l.start,
	}, nil
}

func (l *Lexer) scanNumber() Token {
	for isDigit(l.peek(1)) {
		l.current++
	}

	if l.peek(1) == '.' && isDigit(l.peek(2)) {
		l.current++

		for isDigit(l.peek(1)) {
			l.current++
		}
	}

	if c := l.peek(1); c == 'e' || c == 'E' {
		after := l.peek(2)
		signed := (after == '+' || after == '-') && isDigit(l.peek(3))

		if signed || isDigit(after) {
			l.current += 2

			for isDigit(l.peek(1)) {
				l.current++
			}
		}
	}

	text := strings.ToLower(l.source[l.start:l.current])

	if strings.ContainsAny(text, ".e") {
		f, _ := strconv.ParseFloat(text, 64)

		return l.token(TokenFloat, f)
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil || !inIntegerRange(i) {
		// Too large to be an exact INTEGER: keep the magnitude as a float.
		f, _ := strconv.ParseFloat(text, 64)

		return l.token(TokenFloat, f)
	}

	return l.token(TokenInteger, i)
}

func (l *Lexer) scanIdentifier() Token {
	for isIdentifier(l.peek(1)) {
		l.current++
	}

	if typ, ok := keywords[l.source[l.start:l.current]]; ok {
		switch typ {
		case TokenTrue:
			return l.token(typ, true)
		case TokenFalse:
			return l.token(typ, false)
		}

		return l.token(typ, nil)
	}

	return l.token(TokenIdentifier, nil)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}

	return false
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentifier(c byte) bool { return c == '_' || isDigit(c) || isAlpha(c) }
