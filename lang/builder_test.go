package lang

import (
	"errors"
	"testing"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name string
		root Node
		want string
	}{
		{
			name: "binary",
			root: b.Binary(TokenPlus, b.Literal(IntegerVal(1)), b.Literal(IntegerVal(2))),
			want: "INTEGER(3)",
		},
		{
			name: "unary",
			root: b.Unary(TokenMinus, b.Group(b.Literal(FloatVal(1.5)))),
			want: "FLOAT(-1.5)",
		},
		{
			name: "call",
			root: b.Call("round", b.Variable("total")),
			want: "INTEGER(10)",
		},
		{
			name: "property",
			root: b.Property(b.Variable("user"), "name"),
			want: `STRING("ann")`,
		},
		{
			name: "index",
			root: b.Index(b.List(b.Literal(StringVal("a")), b.Literal(StringVal("b"))), b.Literal(IntegerVal(-1))),
			want: `STRING("b")`,
		},
		{
			name: "slice",
			root: b.Slice(b.Literal(StringVal("hello")), nil, b.Literal(IntegerVal(2))),
			want: `STRING("he")`,
		},
	}

	vars := WithVariables(map[string]any{
		"total": 10.4,
		"user":  map[string]any{"name": "ann"},
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpret(t.Context(), tt.root, vars)
			if err != nil {
				t.Fatalf("Interpret error: %v", err)
			}

			if got.String() != tt.want {
				t.Errorf("Interpret = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuilder_MatchesParser(t *testing.T) {
	b := NewBuilder()

	built := b.Binary(TokenStar,
		b.Group(b.Binary(TokenPlus, b.Literal(IntegerVal(1)), b.Variable("x"))),
		b.Call("abs", b.Literal(IntegerVal(-2))),
	)

	parsed, err := Parse("(1 + $x) * abs(-2)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// The parser produces a unary minus where the builder used a literal.
	want := `Binary(
  STAR,
  Grouping(
    Binary(
      PLUS,
      Literal(1),
      Variable(x)
    )
  ),
  Function(
    "abs",
    Literal(-2)
  )
)`

	if got := built.Pretty(0); got != want {
		t.Errorf("built tree =\n%s\nwant\n%s", got, want)
	}

	vars := WithVariables(map[string]any{"x": 4})

	bv, err := Interpret(t.Context(), built, vars)
	if err != nil {
		t.Fatalf("Interpret(built): %v", err)
	}

	pv, err := Interpret(t.Context(), parsed, vars)
	if err != nil {
		t.Fatalf("Interpret(parsed): %v", err)
	}

	if !Identical(bv, pv) {
		t.Errorf("built = %s, parsed = %s", bv, pv)
	}
}

func TestBuilder_ErrorsHaveNoPosition(t *testing.T) {
	b := NewBuilder()

	root := b.Binary(TokenSlash, b.Literal(IntegerVal(1)), b.Literal(IntegerVal(0)))

	_, err := Interpret(t.Context(), root)
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("error = %v, want ErrExecution", err)
	}

	want := "error: Cannot divide by zero\n"
	if got := FormatError("", err); got != want {
		t.Errorf("FormatError = %q, want %q", got, want)
	}
}
