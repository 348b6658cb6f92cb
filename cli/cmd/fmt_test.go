package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestFmt_Tokens(t *testing.T) {
	ctx, out, _ := testContext(t, nil)

	cmd := Tokens{sourceArg{Expr: "1 + 2"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d tokens, want 4:\n%s", len(lines), out)
	}

	if !strings.Contains(lines[3], "EOF") {
		t.Errorf("last token = %q, want EOF", lines[3])
	}
}

func TestFmt_TokensError(t *testing.T) {
	ctx, out, errOut := testContext(t, nil)

	cmd := Tokens{sourceArg{Expr: `'abc`}}

	err := cmd.Run(ctx)
	if !errors.Is(err, ErrEvaluate) {
		t.Fatalf("Run() error = %v, want ErrEvaluate", err)
	}

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", out)
	}

	if !strings.Contains(errOut.String(), "Unterminated string literal") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestFmt_AST(t *testing.T) {
	ctx, out, _ := testContext(t, nil)

	cmd := AST{sourceArg{Expr: "max(1, $x)"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{"Function(", "Variable(x)", "Literal(1)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
}

func TestFmt_ASTFromFile(t *testing.T) {
	ctx, out, _ := testContext(t, nil)

	path := writeFile(t, "e.bexl", "-1")

	cmd := AST{sourceArg{Source: path}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "Unary(") {
		t.Errorf("tree = %q", out)
	}
}

func TestFmt_Structured(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		ctx, out, _ := testContext(t, nil)

		cmd := JSON{sourceArg: sourceArg{Expr: `list(1, 'a', Null)`}}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if want := "[1,\"a\",null]\n"; out.String() != want {
			t.Errorf("stdout = %q, want %q", out, want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		ctx, out, _ := testContext(t, nil)

		cmd := YAML{sourceArg: sourceArg{Expr: `record('k', True)`}, Indent: 2}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if want := "k: true\n"; out.String() != want {
			t.Errorf("stdout = %q, want %q", out, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		ctx, _, errOut := testContext(t, nil)

		cmd := JSON{sourceArg: sourceArg{Expr: "$missing + 1"}}
		if err := cmd.Run(ctx); !errors.Is(err, ErrEvaluate) {
			t.Fatalf("Run() error = %v, want ErrEvaluate", err)
		}

		if errOut.Len() == 0 {
			t.Error("no diagnostic written")
		}
	})
}
