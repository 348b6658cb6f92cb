package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/bexl/lang"
	"github.com/ardnew/bexl/log"
)

// Fmt prints an intermediate or structured form of one expression.
type Fmt struct {
	AST    AST    `cmd:"" default:"withargs" help:"Print the syntax tree (default)."`
	Tokens Tokens `cmd:""                    help:"Print the token stream."`
	JSON   JSON   `cmd:""                    help:"Evaluate and print the result as JSON."`
	YAML   YAML   `cmd:""                    help:"Evaluate and print the result as YAML."`
}

// sourceArg selects the single expression a fmt subcommand works on.
type sourceArg struct {
	Expr   string `help:"Expression text, used instead of source"        placeholder:"EXPR" short:"e"`
	Source string `help:"Source input file or '-' for default stdin."   name:"source"      arg:"" default:"-"`
}

func (s sourceArg) read(ctx context.Context) (input, error) {
	if s.Expr != "" {
		return input{name: "expr", text: s.Expr}, nil
	}

	inputs, err := readInputs(ctx, nil, []string{s.Source})
	if err != nil {
		return input{}, err
	}

	if len(inputs) == 0 {
		return input{name: s.Source}, nil
	}

	return inputs[0], nil
}

// compile reads and compiles the expression, showing any error.
func (s sourceArg) compile(ctx context.Context, command string) (*lang.Program, error) {
	in, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	p, err := lang.Compile(in.text)
	if err != nil {
		return nil, report(ctx, in, command, err)
	}

	return p, nil
}

// report shows err underlined in its source and returns it as
// [ErrEvaluate].
func report(ctx context.Context, in input, command string, err error) error {
	fmt.Fprint(stderr(ctx), lang.FormatError(in.text, err))

	return ErrEvaluate.With(
		slog.String("command", command),
		slog.String("source", in.name),
	).Wrap(err)
}

// Tokens prints the lexed tokens of an expression.
type Tokens struct {
	sourceArg `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	in, err := t.read(ctx)
	if err != nil {
		return err
	}

	tokens, err := lang.Lex(in.text)
	if err != nil {
		return report(ctx, in, "fmt tokens", err)
	}

	if err := lang.WriteTokens(stdout(ctx), tokens); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// AST prints the syntax tree of an expression.
type AST struct {
	sourceArg `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	p, err := a.compile(ctx, "fmt ast")
	if err != nil {
		return err
	}

	if err := lang.WriteTree(stdout(ctx), p.Root()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// JSON evaluates an expression and prints the native result as JSON.
type JSON struct {
	sourceArg `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output (0 for compact output)" short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return evalFormatted(ctx, j.sourceArg, "fmt json", lang.FormatJSON, j.Indent)
}

// YAML evaluates an expression and prints the native result as YAML.
type YAML struct {
	sourceArg `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return evalFormatted(ctx, y.sourceArg, "fmt yaml", lang.FormatYAML, y.Indent)
}

func evalFormatted(
	ctx context.Context,
	src sourceArg,
	command string,
	format lang.Format,
	indent int,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	in, err := src.read(ctx)
	if err != nil {
		return err
	}

	v, err := lang.Evaluate(ctx, in.text,
		lang.WithResolver(variablesFrom(ctx)),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return report(ctx, in, command, err)
	}

	if err := lang.WriteValue(ctx, stdout(ctx), v, format, indent); err != nil {
		return ErrWriteOutput.With(slog.String("command", command)).Wrap(err)
	}

	return nil
}
