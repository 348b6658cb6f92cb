package lang

import (
	"errors"
	"slices"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}

	return types
}

func TestLex(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []TokenType
	}{
		{
			name:   "empty",
			source: "",
			want:   []TokenType{TokenEOF},
		},
		{
			name:   "arithmetic",
			source: "1 + 2.5 * 3",
			want:   []TokenType{TokenInteger, TokenPlus, TokenFloat, TokenStar, TokenInteger, TokenEOF},
		},
		{
			name:   "maximal munch",
			source: "** == != <= >= < > !",
			want: []TokenType{
				TokenStarStar, TokenEqualEqual, TokenBangEqual, TokenLesserEqual,
				TokenGreaterEqual, TokenLesser, TokenGreater, TokenBang, TokenEOF,
			},
		},
		{
			name:   "keywords",
			source: "True False Null true",
			want:   []TokenType{TokenTrue, TokenFalse, TokenNull, TokenIdentifier, TokenEOF},
		},
		{
			name:   "variable property",
			source: "$rec.name",
			want:   []TokenType{TokenDollar, TokenIdentifier, TokenPeriod, TokenIdentifier, TokenEOF},
		},
		{
			name:   "call",
			source: "f(a, 'b')",
			want: []TokenType{
				TokenIdentifier, TokenLeftParen, TokenIdentifier, TokenComma,
				TokenString, TokenRightParen, TokenEOF,
			},
		},
		{
			name:   "slice",
			source: "x[1:]",
			want: []TokenType{
				TokenIdentifier, TokenLeftBracket, TokenInteger, TokenColon,
				TokenRightBracket, TokenEOF,
			},
		},
		{
			name:   "boolean operators",
			source: "a & b | c ^ d",
			want: []TokenType{
				TokenIdentifier, TokenAmpersand, TokenIdentifier, TokenPipe,
				TokenIdentifier, TokenCaret, TokenIdentifier, TokenEOF,
			},
		},
		{
			name:   "exponent",
			source: "1e3 2E-2",
			want:   []TokenType{TokenFloat, TokenFloat, TokenEOF},
		},
		{
			name:   "dangling exponent",
			source: "1e",
			want:   []TokenType{TokenInteger, TokenIdentifier, TokenEOF},
		},
		{
			name:   "integer overflow becomes float",
			source: "99999999999999999999",
			want:   []TokenType{TokenFloat, TokenEOF},
		},
		{
			name:   "multiple lines",
			source: "1\n+\n2",
			want:   []TokenType{TokenInteger, TokenPlus, TokenInteger, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.source)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.source, err)
			}

			if got := tokenTypes(tokens); !slices.Equal(got, tt.want) {
				t.Errorf("Lex(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestLex_Literals(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   any
	}{
		{"integer", "42", int64(42)},
		{"float", "2.5", 2.5},
		{"exponent", "1e3", 1000.0},
		{"string", "'abc'", "abc"},
		{"escaped quote", `'it\'s'`, "it's"},
		{"multi-line string", "'a\nb'", "a\nb"},
		{"true", "True", true},
		{"false", "False", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.source)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.source, err)
			}

			if got := tokens[0].Literal; got != tt.want {
				t.Errorf("Lex(%q) literal = %#v, want %#v", tt.source, got, tt.want)
			}
		})
	}
}

func TestLex_Positions(t *testing.T) {
	tokens, err := Lex("1 +\n  'ab'")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}

	want := []string{
		`Token(0:0, INTEGER, "1")`,
		`Token(0:2, PLUS, "+")`,
		`Token(1:2, STRING, "ab")`,
		`Token(1:6, EOF, "")`,
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}

	for i, tok := range tokens {
		if tok.String() != want[i] {
			t.Errorf("token %d = %s, want %s", i, tok, want[i])
		}
	}

	if tokens[2].Length != 4 || tokens[2].End() != 6 {
		t.Errorf("string token length = %d, end = %d, want 4 and 6",
			tokens[2].Length, tokens[2].End())
	}
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		line   int
		column int
	}{
		{"unterminated string", "1 + 'abc", 0, 4},
		{"unexpected character", "1 # 2", 0, 2},
		{"lone equals", "a = b", 0, 2},
		{"second line", "1 +\n  @", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.source)
			if !errors.Is(err, ErrLexer) {
				t.Fatalf("Lex(%q) error = %v, want ErrLexer", tt.source, err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Lex(%q) error is not an *Error", tt.source)
			}

			line, _ := e.Line()
			column, _ := e.Column()

			if line != tt.line || column != tt.column {
				t.Errorf("Lex(%q) error at %d:%d, want %d:%d",
					tt.source, line, column, tt.line, tt.column)
			}
		})
	}
}
