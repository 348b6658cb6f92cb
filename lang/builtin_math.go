package lang

import (
	"math"
	"math/rand/v2"
)

var errIntegerOverflow = ErrExecution.Errorf("Integer overflow")

// arithmeticType is FLOAT if either operand is FLOAT, else INTEGER.
func arithmeticType(a, b Value) Type {
	if a.typ == TypeFloat || b.typ == TypeFloat {
		return TypeFloat
	}

	return TypeInteger
}

// arithmetic builds a binary numeric implementation. Integer operands use
// iop, any FLOAT operand uses fop, and a null operand yields the null of
// the result type.
func arithmetic(iop func(a, b int64) (int64, error), fop func(a, b float64) float64) Func {
	return func(args ...Value) (Value, error) {
		a, b := args[0], args[1]
		t := arithmeticType(a, b)

		if a.IsNull() || b.IsNull() {
			return NullVal(t), nil
		}

		if t == TypeFloat {
			return FloatVal(fop(a.Float(), b.Float())), nil
		}

		i, err := iop(a.i, b.i)
		if err != nil {
			return Value{}, err
		}

		return IntegerVal(i), nil
	}
}

func addInt(a, b int64) (int64, error) {
	c := a + b
	if (c > a) != (b > 0) || !inIntegerRange(c) {
		return 0, errIntegerOverflow
	}

	return c, nil
}

func subInt(a, b int64) (int64, error) {
	c := a - b
	if (c < a) != (b > 0) || !inIntegerRange(c) {
		return 0, errIntegerOverflow
	}

	return c, nil
}

func mulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) ||
		!inIntegerRange(c) {
		return 0, errIntegerOverflow
	}

	return c, nil
}

func modInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrExecution.Errorf("Cannot divide by zero")
	}

	if b == -1 {
		return 0, nil
	}

	return a % b, nil
}

// powInt computes a**b by squaring. Negative exponents truncate the real
// result toward zero.
func powInt(a, b int64) (int64, error) {
	if b < 0 {
		switch a {
		case 0:
			return 0, ErrExecution.Errorf("Cannot divide by zero")
		case 1:
			return 1, nil
		case -1:
			if b%2 == 0 {
				return 1, nil
			}

			return -1, nil
		}

		return 0, nil
	}

	result := int64(1)

	for b > 0 {
		var err error

		if b&1 == 1 {
			if result, err = mulInt(result, a); err != nil {
				return 0, err
			}
		}

		b >>= 1
		if b > 0 {
			if a, err = mulInt(a, a); err != nil {
				return 0, err
			}
		}
	}

	return result, nil
}

func divide(args ...Value) (Value, error) {
	a, b := args[0], args[1]

	if a.IsNull() || b.IsNull() {
		return NullVal(TypeFloat), nil
	}

	if b.Float() == 0 {
		return Value{}, ErrExecution.Errorf("Cannot divide by zero")
	}

	return FloatVal(a.Float() / b.Float()), nil
}

func negative(args ...Value) (Value, error) {
	v := args[0]

	switch {
	case v.IsNull():
		return v, nil
	case v.typ == TypeInteger:
		if !inIntegerRange(v.i) {
			return Value{}, errIntegerOverflow
		}

		return IntegerVal(-v.i), nil
	case v.f == 0:
		return FloatVal(0), nil
	}

	return FloatVal(-v.f), nil
}

func abs(args ...Value) (Value, error) {
	v := args[0]

	switch {
	case v.IsNull():
		return v, nil
	case v.typ == TypeFloat:
		return FloatVal(math.Abs(v.f)), nil
	case !inIntegerRange(v.i):
		return Value{}, errIntegerOverflow
	case v.i < 0:
		return IntegerVal(-v.i), nil
	}

	return v, nil
}

// integral converts the whole number f to an INTEGER.
func integral(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < MinInteger || f > MaxInteger {
		return Value{}, ErrExecution.Errorf("%s cannot be represented as an INTEGER", formatFloat(f))
	}

	return IntegerVal(int64(f)), nil
}

// roundHalfEven rounds value to the given number of decimal places,
// breaking ties toward the even neighbor.
func roundHalfEven(value float64, decimals int64) float64 {
	precision := math.Pow(10, float64(decimals))

	return math.RoundToEven(value*precision) / precision
}

func round(args ...Value) (Value, error) {
	v := args[0]

	if len(args) == 1 {
		if v.IsNull() {
			return NullVal(TypeInteger), nil
		}

		if v.typ == TypeInteger {
			return v, nil
		}

		return integral(math.RoundToEven(v.f))
	}

	places := args[1]
	if v.IsNull() || places.IsNull() {
		return NullVal(TypeFloat), nil
	}

	return FloatVal(roundHalfEven(v.Float(), places.i)), nil
}

// unaryMath lifts fn to a one-argument implementation returning type t.
func unaryMath(t Type, fn func(float64) float64) Func {
	return func(args ...Value) (Value, error) {
		v := args[0]
		if v.IsNull() {
			return NullVal(t), nil
		}

		if t == TypeInteger {
			if v.typ == TypeInteger {
				return v, nil
			}

			return integral(fn(v.f))
		}

		return FloatVal(fn(v.Float())), nil
	}
}

// binaryFloat lifts fn to a two-argument implementation returning FLOAT.
func binaryFloat(fn func(a, b float64) float64) Func {
	return func(args ...Value) (Value, error) {
		a, b := args[0], args[1]
		if a.IsNull() || b.IsNull() {
			return NullVal(TypeFloat), nil
		}

		return FloatVal(fn(a.Float(), b.Float())), nil
	}
}

func constant(v Value) Func {
	return func(...Value) (Value, error) { return v, nil }
}

func installMath(r *Registry) error {
	f := registrar{d: r.Functions}

	f.add("add", arithmetic(addInt, func(a, b float64) float64 { return a + b }), numericPairs...)
	f.add("subtract", arithmetic(subInt, func(a, b float64) float64 { return a - b }), numericPairs...)
	f.add("multiply", arithmetic(mulInt, func(a, b float64) float64 { return a * b }), numericPairs...)
	f.add("modulo", arithmetic(modInt, math.Mod), numericPairs...)
	f.add("pow", arithmetic(powInt, math.Pow), numericPairs...)
	f.add("divide", divide, numericPairs...)

	f.add("negative", negative, numericUnary...)
	f.add("abs", abs, numericUnary...)

	f.add("log", binaryFloat(func(x, base float64) float64 {
		return math.Log(x) / math.Log(base)
	}), numericPairs...)
	f.add("hypot", binaryFloat(math.Hypot), numericPairs...)

	f.add("round", round, numericUnary...)
	f.add("round", round, Sig(TypeInteger, TypeInteger), Sig(TypeFloat, TypeInteger))

	f.add("ceil", unaryMath(TypeInteger, math.Ceil), numericUnary...)
	f.add("floor", unaryMath(TypeInteger, math.Floor), numericUnary...)
	f.add("trunc", unaryMath(TypeInteger, math.Trunc), numericUnary...)
	f.add("sin", unaryMath(TypeFloat, math.Sin), numericUnary...)
	f.add("cos", unaryMath(TypeFloat, math.Cos), numericUnary...)
	f.add("tan", unaryMath(TypeFloat, math.Tan), numericUnary...)
	f.add("sqrt", unaryMath(TypeFloat, math.Sqrt), numericUnary...)

	f.add("random", func(...Value) (Value, error) { return FloatVal(rand.Float64()), nil })
	f.add("pi", constant(FloatVal(math.Pi)))
	f.add("e", constant(FloatVal(math.E)))

	return f.err()
}
