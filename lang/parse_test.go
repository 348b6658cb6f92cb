package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "literal",
			source: "1",
			want:   "Literal(1)",
		},
		{
			name:   "null",
			source: "Null",
			want:   "Literal(null)",
		},
		{
			name:   "variable",
			source: "$x",
			want:   "Variable(x)",
		},
		{
			name:   "binary",
			source: "1 + 2",
			want: `Binary(
  PLUS,
  Literal(1),
  Literal(2)
)`,
		},
		{
			name:   "left associative",
			source: "1 - 2 - 3",
			want: `Binary(
  MINUS,
  Binary(
    MINUS,
    Literal(1),
    Literal(2)
  ),
  Literal(3)
)`,
		},
		{
			name:   "factor binds tighter than term",
			source: "1 + 2 * 3",
			want: `Binary(
  PLUS,
  Literal(1),
  Binary(
    STAR,
    Literal(2),
    Literal(3)
  )
)`,
		},
		{
			name:   "unary",
			source: "-!x()",
			want: `Unary(
  MINUS,
  Unary(
    BANG,
    Function(
      "x"
    )
  )
)`,
		},
		{
			name:   "call",
			source: "f(1, 'a')",
			want: `Function(
  "f",
  Literal(1),
  Literal(a)
)`,
		},
		{
			name:   "property",
			source: "$r.name",
			want: `Property(
  "name",
  Variable(r)
)`,
		},
		{
			name:   "index",
			source: "$xs[0]",
			want: `Indexing(
  Variable(xs),
  Literal(0)
)`,
		},
		{
			name:   "slice",
			source: "$xs[:2]",
			want: `Indexing(
  Variable(xs),
  (
    null,
    Literal(2)
  )
)`,
		},
		{
			name:   "grouping",
			source: "(1)",
			want: `Grouping(
  Literal(1)
)`,
		},
		{
			name:   "list",
			source: "[1, True]",
			want: `List(
  Literal(1),
  Literal(True)
)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.source)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.source, err)
			}

			if got := root.Pretty(0); got != tt.want {
				t.Errorf("Parse(%q) =\n%s\nwant\n%s", tt.source, got, tt.want)
			}
		})
	}
}

func TestParse_Spans(t *testing.T) {
	root, err := Parse("f(1) + $x.y")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if got := root.Start(); got.Type != TokenIdentifier || got.Column != 0 {
		t.Errorf("Start() = %s, want identifier at column 0", got)
	}

	if got := root.End(); got.Lexeme != "y" || got.Column != 10 {
		t.Errorf("End() = %s, want y at column 10", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
		column  int
	}{
		{"missing operand", "1 +", "Unexpected token EOF", 3},
		{"trailing token", "1 2", "Unexpected token INTEGER", 2},
		{"unclosed call", "f(1", "Expected token RIGHT_PAREN", 3},
		{"unclosed list", "[1, 2", "Expected token RIGHT_BRACKET", 5},
		{"bare identifier", "x + 1", "Expected token LEFT_PAREN", 2},
		{"variable without name", "$1", "Expected token IDENTIFIER", 1},
		{"property without name", "$r.1", "Expected token IDENTIFIER", 3},
		{"empty index", "$x[]", "Unexpected token RIGHT_BRACKET", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			if !errors.Is(err, ErrParser) {
				t.Fatalf("Parse(%q) error = %v, want ErrParser", tt.source, err)
			}

			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Parse(%q) error = %q, want %q", tt.source, err, tt.message)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Parse(%q) error is not an *Error", tt.source)
			}

			if col, _ := e.Column(); col != tt.column {
				t.Errorf("Parse(%q) error column = %d, want %d", tt.source, col, tt.column)
			}
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	deep := strings.Repeat("(", DefaultMaxDepth+1) + "1" + strings.Repeat(")", DefaultMaxDepth+1)

	_, err := Parse(deep)
	if !errors.Is(err, ErrParser) {
		t.Fatalf("Parse(deep) error = %v, want ErrParser", err)
	}

	unary := strings.Repeat("-", DefaultMaxDepth+1) + "1"

	if _, err := Parse(unary); !errors.Is(err, ErrParser) {
		t.Errorf("Parse(unary chain) error = %v, want ErrParser", err)
	}

	shallow := strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10)

	if _, err := Parse(shallow); err != nil {
		t.Errorf("Parse(shallow) error = %v", err)
	}
}
