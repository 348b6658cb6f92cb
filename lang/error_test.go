package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "lexer",
			source: "'abc",
			want: "error: Unterminated string literal\n" +
				"  1 | 'abc\n" +
				"      ^\n",
		},
		{
			name:   "parser at end of input",
			source: "1 +",
			want: "error: Unexpected token EOF\n" +
				"  1 | 1 +\n" +
				"         ^\n",
		},
		{
			name:   "interpreter",
			source: "1 + (2 / 0)",
			want: "error: Cannot divide by zero\n" +
				"  1 | 1 + (2 / 0)\n" +
				"           ^^^^^\n",
		},
		{
			name:   "multi-line node",
			source: "[1,\n 2][5]",
			want: "error: Position exceeds bounds of sequence\n" +
				"  1 | [1,\n" +
				"      ^^^\n",
		},
		{
			name:   "second line",
			source: "1 +\n  $nope",
			want: "error: Could not resolve variable \"nope\"\n" +
				"  2 |   $nope\n" +
				"         ^^^^\n",
		},
		{
			name:   "suggestion",
			source: "uppr('a')",
			want: "error: No implementation exists for \"uppr\"\n" +
				"  1 | uppr('a')\n" +
				"      ^^^^^^^^^\n" +
				"hint: did you mean \"upper\"?\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(t.Context(), tt.source, WithoutCache())
			if err == nil {
				t.Fatalf("Evaluate(%q) succeeded", tt.source)
			}

			if got := FormatError(tt.source, err); got != tt.want {
				t.Errorf("FormatError =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestFormatError_Foreign(t *testing.T) {
	if got := FormatError("x", io.EOF); got != "error: EOF\n" {
		t.Errorf("FormatError(io.EOF) = %q", got)
	}

	if got := FormatError("x", nil); got != "" {
		t.Errorf("FormatError(nil) = %q", got)
	}
}

func TestError_Kinds(t *testing.T) {
	tests := []struct {
		err     error
		kinds   []error
		notKind []error
		class   string
	}{
		{
			err:     ErrResolver.Errorf("x"),
			kinds:   []error{ErrResolver, ErrInterpreter, ErrBEXL},
			notKind: []error{ErrDispatch, ErrParser},
			class:   "resolver error",
		},
		{
			err:     ErrLexer.Errorf("x").With(slog.Int("n", 1)),
			kinds:   []error{ErrLexer, ErrBEXL},
			notKind: []error{ErrInterpreter},
			class:   "lexer error",
		},
		{
			err:     ErrExecution.Wrap(io.ErrUnexpectedEOF),
			kinds:   []error{ErrExecution, ErrInterpreter, ErrBEXL, io.ErrUnexpectedEOF},
			notKind: []error{ErrConversion},
			class:   "execution error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			for _, k := range tt.kinds {
				if !errors.Is(tt.err, k) {
					t.Errorf("%v is not %v", tt.err, k)
				}
			}

			for _, k := range tt.notKind {
				if errors.Is(tt.err, k) {
					t.Errorf("%v is %v", tt.err, k)
				}
			}

			var e *Error
			if !errors.As(tt.err, &e) {
				t.Fatalf("%v is not an *Error", tt.err)
			}

			if e.Class() != tt.class {
				t.Errorf("Class() = %q, want %q", e.Class(), tt.class)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := ErrExecution.Wrap(io.EOF)

	if got := err.Error(); got != "execution error: EOF" {
		t.Errorf("Error() = %q, want %q", got, "execution error: EOF")
	}

	withMsg := ErrExecution.Errorf("reading").Wrap(io.EOF)
	if got := withMsg.Error(); got != "reading: EOF" {
		t.Errorf("Error() = %q, want %q", got, "reading: EOF")
	}

	if withMsg.Message() != "reading" {
		t.Errorf("Message() = %q, want reading", withMsg.Message())
	}
}

func TestError_SharedSentinelNotMutated(t *testing.T) {
	_, err := Evaluate(t.Context(), "9007199254740991 + 1", WithoutCache())
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("error = %v, want ErrExecution", err)
	}

	if errIntegerOverflow.Node() != nil {
		t.Error("annotating an overflow error mutated the shared error value")
	}
}

func TestError_ForeignWrapperNotMutated(t *testing.T) {
	r, err := NewRegistry(func(r *Registry) error {
		return r.Functions.Register("boom", nil, func(...Value) (Value, error) {
			return Value{}, fmt.Errorf("boom: %w", ErrExecution)
		})
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	_, err = Evaluate(t.Context(), "boom()", WithRegistry(r), WithoutCache())
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("error = %v, want ErrExecution", err)
	}

	var e *Error
	if !errors.As(err, &e) || e.Node() == nil {
		t.Fatalf("error %v carries no node", err)
	}

	if e.Class() != ErrExecution.Message() {
		t.Errorf("Class() = %q, want %q", e.Class(), ErrExecution.Message())
	}

	if ErrExecution.Node() != nil {
		t.Error("annotating a wrapped kind mutated the shared kind")
	}

	if n := ErrExecution.Wrap(io.EOF).Node(); n != nil {
		t.Errorf("fresh error carries node %v", n)
	}
}
