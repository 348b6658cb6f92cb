package lang

import (
	"errors"
	"slices"
)

// Common signature sets.
var (
	numericPairs = []Signature{
		Sig(TypeInteger, TypeInteger),
		Sig(TypeInteger, TypeFloat),
		Sig(TypeFloat, TypeInteger),
		Sig(TypeFloat, TypeFloat),
	}

	numericUnary = []Signature{
		Sig(TypeInteger),
		Sig(TypeFloat),
	}
)

// forward returns an implementation that calls the function registered
// as name, so operators and functions share one implementation and a
// function overridden before sealing overrides its operator too.
func forward(r *Registry, name string) Func {
	return func(args ...Value) (Value, error) {
		return r.Functions.Call(name, args...)
	}
}

func installOperators(r *Registry) error {
	calendarPlus := []Signature{
		Sig(TypeDate, TypeInteger), Sig(TypeDate, TypeFloat),
		Sig(TypeDateTime, TypeInteger), Sig(TypeDateTime, TypeFloat),
		Sig(TypeTime, TypeInteger), Sig(TypeTime, TypeFloat),
		Sig(TypeInteger, TypeDate), Sig(TypeFloat, TypeDate),
		Sig(TypeInteger, TypeDateTime), Sig(TypeFloat, TypeDateTime),
		Sig(TypeInteger, TypeTime), Sig(TypeFloat, TypeTime),
	}

	calendarMinus := []Signature{
		Sig(TypeDate, TypeInteger), Sig(TypeDate, TypeFloat),
		Sig(TypeDateTime, TypeInteger), Sig(TypeDateTime, TypeFloat),
		Sig(TypeTime, TypeInteger), Sig(TypeTime, TypeFloat),
		Sig(TypeDate, TypeDate), Sig(TypeDate, TypeDateTime),
		Sig(TypeDateTime, TypeDate), Sig(TypeDateTime, TypeDateTime),
		Sig(TypeTime, TypeTime),
	}

	b := registrar{d: r.Binary}

	b.add(TokenPlus.String(), forward(r, "add"), slices.Concat(numericPairs, calendarPlus)...)
	b.add(TokenMinus.String(), forward(r, "subtract"), slices.Concat(numericPairs, calendarMinus)...)
	b.add(TokenStar.String(), forward(r, "multiply"), numericPairs...)
	b.add(TokenSlash.String(), forward(r, "divide"), numericPairs...)
	b.add(TokenPercent.String(), forward(r, "modulo"), numericPairs...)
	b.add(TokenStarStar.String(), forward(r, "pow"), numericPairs...)

	for tok, name := range map[TokenType]string{
		TokenAmpersand:    "and",
		TokenPipe:         "or",
		TokenCaret:        "xor",
		TokenEqualEqual:   "equal",
		TokenBangEqual:    "notEqual",
		TokenLesser:       "lesser",
		TokenLesserEqual:  "lesserEqual",
		TokenGreater:      "greater",
		TokenGreaterEqual: "greaterEqual",
	} {
		b.add(tok.String(), forward(r, name))
	}

	u := registrar{d: r.Unary}

	u.add(TokenMinus.String(), forward(r, "negative"), numericUnary...)
	u.add(TokenBang.String(), forward(r, "not"), Sig(TypeBoolean))

	return errors.Join(b.err(), u.err())
}

// arity wraps a catch-all implementation that takes exactly n arguments.
func arity(name string, n int, fn Func) Func {
	return func(args ...Value) (Value, error) {
		if len(args) != n {
			return Value{}, ErrDispatch.Errorf("%q expects %d argument(s), not %d",
				name, n, len(args))
		}

		return fn(args...)
	}
}
