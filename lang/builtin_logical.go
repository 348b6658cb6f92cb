package lang

func not(args ...Value) (Value, error) {
	return BooleanVal(!args[0].b), nil
}

// truth lifts a boolean operator to a catch-all over the truthiness of
// its operands.
func truth(op func(a, b bool) bool) Func {
	return func(args ...Value) (Value, error) {
		return BooleanVal(op(Truthy(args[0]), Truthy(args[1]))), nil
	}
}

func errArgumentCount() error {
	return ErrExecution.Errorf("Incorrect number of arguments")
}

// branch returns the value following the first truthy condition, or the
// final argument.
func branch(args ...Value) (Value, error) {
	if len(args) < 3 || len(args)%2 != 1 {
		return Value{}, errArgumentCount()
	}

	for i := 0; i < len(args)-1; i += 2 {
		if Truthy(args[i]) {
			return args[i+1], nil
		}
	}

	return args[len(args)-1], nil
}

// choose returns the result paired with the first case equal to the
// subject, or the final argument.
func choose(args ...Value) (Value, error) {
	if len(args) < 4 || len(args)%2 != 0 {
		return Value{}, errArgumentCount()
	}

	subject := args[0]

	for i := 1; i < len(args)-1; i += 2 {
		eq, err := Equal(subject, args[i])
		if err != nil {
			return Value{}, err
		}

		if eq {
			return args[i+1], nil
		}
	}

	return args[len(args)-1], nil
}

func installLogical(r *Registry) error {
	f := registrar{d: r.Functions}

	f.add("not", not, Sig(TypeBoolean))
	f.add("and", arity("and", 2, truth(func(a, b bool) bool { return a && b })))
	f.add("or", arity("or", 2, truth(func(a, b bool) bool { return a || b })))
	f.add("xor", arity("xor", 2, truth(func(a, b bool) bool { return a != b })))
	f.add("if", branch)
	f.add("switch", choose)

	return f.err()
}
