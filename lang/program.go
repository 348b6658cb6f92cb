package lang

import (
	"context"
	"io"
	"log/slog"
	"slices"
)

// Program is a parsed expression that may be evaluated repeatedly and
// concurrently.
type Program struct {
	source string
	tokens []Token
	root   Node
}

// Compile lexes and parses source.
func Compile(source string) (*Program, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}

	root, err := ParseTokens(tokens)
	if err != nil {
		return nil, err
	}

	return &Program{source: source, tokens: tokens, root: root}, nil
}

// CompileReader reads all of r and compiles it.
func CompileReader(ctx context.Context, r io.Reader) (*Program, error) {
	source, err := ReadSource(ctx, r)
	if err != nil {
		return nil, err
	}

	p, err := Compile(source)
	if err != nil {
		return nil, WrapError(err).With(slog.Int("source_length", len(source)))
	}

	return p, nil
}

// Source returns the text the program was compiled from.
func (p *Program) Source() string { return p.source }

// Tokens returns the lexed tokens, ending with [TokenEOF].
func (p *Program) Tokens() []Token { return slices.Clone(p.tokens) }

// Root returns the syntax tree.
func (p *Program) Root() Node { return p.root }

// Eval interprets the program.
func (p *Program) Eval(ctx context.Context, opts ...Option) (Value, error) {
	return Interpret(ctx, p.root, opts...)
}
