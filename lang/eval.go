package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/bexl/log"
)

// interpreter walks one syntax tree. It holds no state between
// evaluations, so a tree may be evaluated by many interpreters at once.
type interpreter struct {
	ctx      context.Context
	registry *Registry
	resolver Resolver
	logger   log.Logger
	trace    bool
}

// Interpret evaluates root with the registry and variables selected by
// opts.
func Interpret(ctx context.Context, root Node, opts ...Option) (Value, error) {
	o, err := makeOptions(opts...)
	if err != nil {
		return Value{}, err
	}

	o.registry.Seal()

	in := interpreter{
		ctx:      ctx,
		registry: o.registry,
		resolver: o.resolver,
		logger:   o.logger,
		trace:    o.logger.Enabled(ctx, log.LevelTrace),
	}

	return in.eval(root)
}

// eval dispatches on the node variant. Errors are annotated with n unless
// a deeper node already claimed them.
func (in *interpreter) eval(n Node) (Value, error) {
	if err := context.Cause(in.ctx); err != nil {
		return Value{}, ErrExecution.Wrap(err)
	}

	v, err := in.visit(n)
	if err != nil {
		return Value{}, annotate(err, n)
	}

	return v, nil
}

func (in *interpreter) visit(n Node) (Value, error) {
	switch n := n.(type) {
	case *LiteralExpr:
		return n.Value, nil

	case *GroupingExpr:
		return in.eval(n.Expr)

	case *ListExpr:
		elems, err := in.evalAll(n.Elements)
		if err != nil {
			return Value{}, err
		}

		return ListVal(elems...), nil

	case *VariableExpr:
		if in.resolver == nil {
			return Value{}, ErrResolver.Errorf("Could not resolve variable %q", n.Name())
		}

		v, err := in.resolver.Get(n.Name())
		if err != nil {
			return Value{}, err
		}

		if in.trace {
			in.logger.TraceContext(in.ctx, "resolve",
				slog.String("name", n.Name()),
				slog.Any("value", v),
			)
		}

		return v, nil

	case *PropertyExpr:
		base, err := in.eval(n.Expr)
		if err != nil {
			return Value{}, err
		}

		return in.call(in.registry.Functions, "property", base, StringVal(n.Name()))

	case *IndexExpr:
		return in.index(n)

	case *UnaryExpr:
		right, err := in.eval(n.Right)
		if err != nil {
			return Value{}, err
		}

		return in.call(in.registry.Unary, n.Name(), right)

	case *BinaryExpr:
		left, err := in.eval(n.Left)
		if err != nil {
			return Value{}, err
		}

		right, err := in.eval(n.Right)
		if err != nil {
			return Value{}, err
		}

		return in.call(in.registry.Binary, n.Name(), left, right)

	case *CallExpr:
		args, err := in.evalAll(n.Args)
		if err != nil {
			return Value{}, err
		}

		return in.call(in.registry.Functions, n.Name(), args...)
	}

	return Value{}, ErrInterpreter.Errorf("Unknown node %T", n)
}

func (in *interpreter) index(n *IndexExpr) (Value, error) {
	base, err := in.eval(n.Expr)
	if err != nil {
		return Value{}, err
	}

	if !n.Slice {
		pos, err := in.eval(n.Index)
		if err != nil {
			return Value{}, err
		}

		return in.call(in.registry.Functions, "at", base, pos)
	}

	low := IntegerVal(0)

	if n.Low != nil {
		if low, err = in.eval(n.Low); err != nil {
			return Value{}, err
		}
	}

	if n.High == nil {
		return in.call(in.registry.Functions, "slice", base, low)
	}

	high, err := in.eval(n.High)
	if err != nil {
		return Value{}, err
	}

	return in.call(in.registry.Functions, "slice", base, low, high)
}

func (in *interpreter) evalAll(nodes []Node) ([]Value, error) {
	out := make([]Value, len(nodes))

	for i, n := range nodes {
		v, err := in.eval(n)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func (in *interpreter) call(d *Dispatcher, name string, args ...Value) (Value, error) {
	v, err := d.Call(name, args...)

	if in.trace {
		in.logger.TraceContext(in.ctx, "dispatch",
			slog.String("kind", d.kind),
			slog.String("name", name),
			slog.Int("args", len(args)),
			slog.Bool("ok", err == nil),
		)
	}

	return v, err
}
