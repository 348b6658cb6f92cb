package lang

// ordering lifts a test on the result of [Compare] to a comparison
// implementation. Unordered operands compare false.
func ordering(test func(order int) bool) Func {
	return func(args ...Value) (Value, error) {
		order, ok, err := Compare(args[0], args[1])
		if err != nil {
			return Value{}, err
		}

		return BooleanVal(ok && test(order)), nil
	}
}

func equal(args ...Value) (Value, error) {
	eq, err := Equal(args[0], args[1])
	if err != nil {
		return Value{}, err
	}

	return BooleanVal(eq), nil
}

func notEqual(args ...Value) (Value, error) {
	eq, err := Equal(args[0], args[1])
	if err != nil {
		return Value{}, err
	}

	return BooleanVal(!eq), nil
}

func between(args ...Value) (Value, error) {
	v, start, end := args[0], args[1], args[2]
	if v.IsNull() || start.IsNull() || end.IsNull() {
		return False, nil
	}

	// Bounds take the type of the tested value.
	lo, okLo, err := Compare(v, start)
	if err != nil {
		return Value{}, err
	}

	hi, okHi, err := Compare(v, end)
	if err != nil {
		return Value{}, err
	}

	return BooleanVal(okLo && okHi && lo >= 0 && hi <= 0), nil
}

func installComparison(r *Registry) error {
	f := registrar{d: r.Functions}

	f.add("equal", arity("equal", 2, equal))
	f.add("notEqual", arity("notEqual", 2, notEqual))
	f.add("greater", arity("greater", 2, ordering(func(o int) bool { return o > 0 })))
	f.add("greaterEqual", arity("greaterEqual", 2, ordering(func(o int) bool { return o >= 0 })))
	f.add("lesser", arity("lesser", 2, ordering(func(o int) bool { return o < 0 })))
	f.add("lesserEqual", arity("lesserEqual", 2, ordering(func(o int) bool { return o <= 0 })))

	var sigs []Signature

	for _, v := range numericUnary {
		for _, pair := range numericPairs {
			sigs = append(sigs, Sig(v[0], pair[0], pair[1]))
		}
	}

	f.add("between", between, sigs...)

	return f.err()
}
