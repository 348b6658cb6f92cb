package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/bexl/log"
)

// Option configures an evaluation.
type Option func(options) options

type options struct {
	registry *Registry
	resolver Resolver
	vars     map[string]any
	cache    *Cache
	logger   log.Logger
	noCache  bool
}

func makeOptions(opts ...Option) (options, error) {
	var o options

	for _, opt := range opts {
		o = opt(o)
	}

	if o.registry == nil {
		o.registry = DefaultRegistry()
	}

	if o.vars != nil {
		r, err := MakeResolver(o.vars)
		if err != nil {
			return o, err
		}

		o.resolver = r
	}

	if o.cache == nil {
		o.cache = &defaultCache
	}

	return o, nil
}

// WithVariables evaluates with a fresh resolver holding vars. Values may be
// [Value]s or native Go values accepted by [FromNative].
func WithVariables(vars map[string]any) Option {
	return func(o options) options {
		o.vars = vars
		o.resolver = nil

		return o
	}
}

// WithResolver evaluates with r supplying variables. The resolver is used
// as is and may be shared with the caller.
func WithResolver(r Resolver) Option {
	return func(o options) options {
		o.resolver = r
		o.vars = nil

		return o
	}
}

// WithRegistry evaluates with the operators and functions of r instead of
// [DefaultRegistry]. The registry is sealed by the evaluation.
func WithRegistry(r *Registry) Option {
	return func(o options) options {
		o.registry = r

		return o
	}
}

// WithLogger traces lexing, parsing and dispatch to l.
func WithLogger(l log.Logger) Option {
	return func(o options) options {
		o.logger = l

		return o
	}
}

// WithCache memoizes parsed sources in c instead of the shared cache.
func WithCache(c *Cache) Option {
	return func(o options) options {
		o.cache = c
		o.noCache = false

		return o
	}
}

// WithoutCache parses the source on every evaluation.
func WithoutCache() Option {
	return func(o options) options {
		o.noCache = true

		return o
	}
}

// Evaluate lexes, parses and interprets source.
func Evaluate(ctx context.Context, source string, opts ...Option) (Value, error) {
	o, err := makeOptions(opts...)
	if err != nil {
		return Value{}, err
	}

	logger := o.logger.With(slog.String("expr", source))

	var root Node

	if o.noCache {
		root, err = Parse(source)
	} else {
		root, err = o.cache.Parse(ctx, source)
	}

	if err != nil {
		logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return Value{}, err
	}

	// Interpret must not rebuild the resolver from vars.
	opts = append(opts, WithResolver(o.resolver), WithRegistry(o.registry), WithLogger(logger))

	v, err := Interpret(ctx, root, opts...)
	if err != nil {
		logger.DebugContext(ctx, "evaluation failed", slog.Any("error", err))

		return Value{}, err
	}

	logger.DebugContext(ctx, "evaluated",
		slog.String("type", v.Type().String()),
		slog.Any("result", v),
	)

	return v, nil
}

// EvaluateNative is like [Evaluate] but unwraps the result with
// [ToNative].
func EvaluateNative(ctx context.Context, source string, opts ...Option) (any, error) {
	v, err := Evaluate(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	return ToNative(v), nil
}
