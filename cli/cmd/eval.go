package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/bexl/lang"
	"github.com/ardnew/bexl/log"
)

// Eval evaluates expressions given inline, read from files, or read from
// stdin.
type Eval struct {
	Expr    []string `help:"Expression to evaluate; may be repeated"                     placeholder:"EXPR"                       short:"e"`
	Sources []string `help:"Files holding one expression each, or '-' for stdin"         name:"source"     optional:"" arg:""`
	Output  string   `help:"Result format: ${enum}"                                      default:"plain"   enum:"plain,debug,json,yaml" short:"o"`
	Indent  int      `help:"Indent width of JSON and YAML results (0 for compact output)" default:"2"`
	Debug   bool     `help:"Print tokens, syntax tree and typed result before each result" short:"d"`
}

// Run executes the eval command. Every input is evaluated even if an
// earlier one fails.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := lang.ParseFormat(e.Output)
	if err != nil {
		return err
	}

	inputs, err := readInputs(ctx, e.Expr, e.Sources)
	if err != nil {
		return err
	}

	failed := 0

	for _, in := range inputs {
		err := e.evaluate(ctx, in, format)
		if errors.Is(err, ErrEvaluate) {
			failed++

			continue
		}

		if err != nil {
			return err
		}
	}

	if failed > 0 {
		return ErrEvaluate.With(
			slog.String("command", "eval"),
			slog.Int("failed", failed),
			slog.Int("inputs", len(inputs)),
		)
	}

	return nil
}

func (e *Eval) evaluate(ctx context.Context, in input, format lang.Format) error {
	var (
		p   *lang.Program
		v   lang.Value
		err error
	)

	p, err = lang.Compile(in.text)
	if err == nil {
		v, err = p.Eval(ctx,
			lang.WithResolver(variablesFrom(ctx)),
			lang.WithLogger(log.Default()),
		)
	}

	if err != nil {
		fmt.Fprint(stderr(ctx), lang.FormatError(in.text, err))

		log.DebugContext(ctx, "evaluation failed",
			slog.String("source", in.name),
			slog.Any("error", err),
		)

		return ErrEvaluate.With(slog.String("source", in.name)).Wrap(err)
	}

	out := stdout(ctx)

	if e.Debug {
		if err := lang.WriteDebug(out, p, v); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	if err := lang.WriteValue(ctx, out, v, format, e.Indent); err != nil {
		return ErrWriteOutput.With(slog.String("format", format.String())).Wrap(err)
	}

	return nil
}
