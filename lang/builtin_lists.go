package lang

import (
	"math"
	"slices"
)

// consistent reports whether every element of vals has one of types.
func consistent(vals []Value, types ...Type) bool {
	return !slices.ContainsFunc(vals, func(v Value) bool {
		return !slices.Contains(types, v.typ)
	})
}

// nonNull returns the non-null elements of vals.
func nonNull(vals []Value) []Value {
	return slices.DeleteFunc(slices.Clone(vals), Value.IsNull)
}

// extreme returns an implementation of min or max. The list must hold
// only numbers, only dates or only times; nulls are skipped.
func extreme(name string, better func(order int) bool) Func {
	return func(args ...Value) (Value, error) {
		list := args[0]
		if list.IsNull() {
			return Null, nil
		}

		vals := nonNull(list.list)

		if !consistent(vals, TypeInteger, TypeFloat) &&
			!consistent(vals, TypeDate, TypeDateTime) &&
			!consistent(vals, TypeTime) {
			return Value{}, ErrDispatch.Errorf(
				"%q must be invoked on a list that contains all INTEGER/FLOAT, "+
					"all DATE/DATETIME, or all TIME values", name)
		}

		var (
			best  Value
			found bool
		)

		for _, v := range vals {
			if !found || better(orderOf(v, best)) {
				best, found = v, true
			}
		}

		if !found {
			return Null, nil
		}

		return best, nil
	}
}

// orderOf compares two numbers or two calendar values by payload without
// casting either to the type of the other.
func orderOf(a, b Value) int {
	if a.isNumeric() {
		x, y := a.Float(), b.Float()

		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}

		return 0
	}

	return a.t.Compare(b.t)
}

func errNumericList(name string) error {
	return ErrDispatch.Errorf(
		"%q cannot be invoked on a list containing values of types other than INTEGER or FLOAT",
		name)
}

func sum(args ...Value) (Value, error) {
	list := args[0]
	if list.IsNull() {
		return Null, nil
	}

	vals := nonNull(list.list)

	if !consistent(vals, TypeInteger, TypeFloat) {
		return Value{}, errNumericList("sum")
	}

	if consistent(vals, TypeInteger) {
		var total int64

		for _, v := range vals {
			var err error
			if total, err = addInt(total, v.i); err != nil {
				return Value{}, err
			}
		}

		return IntegerVal(total), nil
	}

	var total float64
	for _, v := range vals {
		total += v.Float()
	}

	if total == math.Trunc(total) && math.Abs(total) <= MaxInteger {
		return IntegerVal(int64(total)), nil
	}

	return FloatVal(total), nil
}

func average(args ...Value) (Value, error) {
	list := args[0]
	if list.IsNull() {
		return Null, nil
	}

	vals := nonNull(list.list)

	if !consistent(vals, TypeInteger, TypeFloat) {
		return Value{}, errNumericList("average")
	}
	if len(vals) == 0 {
		return Null, nil
	}

	var total float64
	for _, v := range vals {
		total += v.Float()
	}

	return FloatVal(total / float64(len(vals))), nil
}

func countTruthy(list Value) int {
	n := 0

	for _, v := range list.list {
		if Truthy(v) {
			n++
		}
	}

	return n
}

func installLists(r *Registry) error {
	f := registrar{d: r.Functions}

	f.add("min", extreme("min", func(o int) bool { return o < 0 }), Sig(TypeList))
	f.add("max", extreme("max", func(o int) bool { return o > 0 }), Sig(TypeList))
	f.add("sum", sum, Sig(TypeList))
	f.add("average", average, Sig(TypeList))

	f.add("all", func(args ...Value) (Value, error) {
		return BooleanVal(countTruthy(args[0]) == len(args[0].list)), nil
	}, Sig(TypeList))
	f.add("any", func(args ...Value) (Value, error) {
		return BooleanVal(countTruthy(args[0]) > 0), nil
	}, Sig(TypeList))
	f.add("none", func(args ...Value) (Value, error) {
		return BooleanVal(countTruthy(args[0]) == 0), nil
	}, Sig(TypeList))
	f.add("count", func(args ...Value) (Value, error) {
		return IntegerVal(int64(countTruthy(args[0]))), nil
	}, Sig(TypeList))

	return f.err()
}
