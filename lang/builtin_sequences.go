package lang

import (
	"slices"
	"strings"
)

// sequence is a STRING or LIST viewed as indexable elements. Strings are
// indexed by character.
type sequence struct {
	runes []rune
	elems []Value
	typ   Type
}

func sequenceOf(v Value) sequence {
	if v.typ == TypeString {
		return sequence{typ: TypeString, runes: []rune(v.s)}
	}

	return sequence{typ: TypeList, elems: v.list}
}

func (s sequence) len() int {
	if s.typ == TypeString {
		return len(s.runes)
	}

	return len(s.elems)
}

func (s sequence) slice(lo, hi int) Value {
	if s.typ == TypeString {
		return StringVal(string(s.runes[lo:hi]))
	}

	return ListVal(slices.Clone(s.elems[lo:hi])...)
}

// bound resolves a slice index against length n. Negative indices count
// from the end and out-of-range indices are clamped.
func bound(i int64, n int) int {
	if i < 0 {
		return int(max(int64(n)+i, 0))
	}

	return int(min(i, int64(n)))
}

// count reads an optional INTEGER or FLOAT length argument, truncating
// fractions.
func count(args []Value, i int, def int64) int64 {
	if i >= len(args) || args[i].IsNull() {
		return def
	}

	if args[i].typ == TypeFloat {
		return int64(args[i].f)
	}

	return args[i].i
}

func valueIn(args ...Value) (Value, error) {
	needle, haystack := args[0], args[1]

	switch {
	case haystack.typ == TypeList:
		return BooleanVal(slices.ContainsFunc(haystack.list, func(v Value) bool {
			return v.typ == needle.typ && Identical(v, needle)
		})), nil

	case haystack.typ == TypeString && needle.typ == TypeString:
		if needle.IsNull() || haystack.IsNull() {
			return False, nil
		}

		return BooleanVal(strings.Contains(haystack.s, needle.s)), nil
	}

	return Value{}, ErrDispatch.Errorf("%q cannot be invoked on arguments of type: %s, %s",
		"in", needle.typ, haystack.typ)
}

func length(args ...Value) (Value, error) {
	return IntegerVal(int64(args[0].Len())), nil
}

func head(args ...Value) (Value, error) {
	v := args[0]
	if v.IsNull() {
		return v, nil
	}

	s := sequenceOf(v)

	return s.slice(0, bound(count(args, 1, 1), s.len())), nil
}

func tail(args ...Value) (Value, error) {
	v := args[0]
	if v.IsNull() {
		return v, nil
	}

	s := sequenceOf(v)
	n := count(args, 1, 1)

	if n <= 0 {
		return s.slice(0, 0), nil
	}

	return s.slice(bound(-n, s.len()), s.len()), nil
}

func concat(args ...Value) (Value, error) {
	if len(args) == 0 {
		return Value{}, ErrDispatch.Errorf("%q cannot be invoked without arguments", "concat")
	}

	t := args[0].typ

	if (t != TypeString && t != TypeList) || !consistent(args, t) {
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = a.typ.String()
		}

		return Value{}, ErrDispatch.Errorf("%q cannot be invoked on arguments of type: %s",
			"concat", strings.Join(names, ", "))
	}

	if t == TypeString {
		var b strings.Builder

		for _, a := range args {
			b.WriteString(a.s)
		}

		return StringVal(b.String()), nil
	}

	var elems []Value
	for _, a := range args {
		elems = append(elems, a.list...)
	}

	return ListVal(elems...), nil
}

func slice(args ...Value) (Value, error) {
	v := args[0]
	if v.IsEmpty() {
		return v, nil
	}

	s := sequenceOf(v)
	n := s.len()

	lo := 0
	if !args[1].IsNull() {
		lo = bound(args[1].i, n)
	}

	hi := n
	if len(args) > 2 && !args[2].IsNull() {
		hi = bound(args[2].i, n)
	}

	if hi < lo {
		hi = lo
	}

	return s.slice(lo, hi), nil
}

func at(args ...Value) (Value, error) {
	v, pos := args[0], args[1]
	if v.IsEmpty() {
		return Null, nil
	}

	if pos.IsNull() {
		return Value{}, ErrExecution.Errorf("Position cannot be null")
	}

	s := sequenceOf(v)
	n := int64(s.len())

	if pos.i >= n || pos.i < -n {
		return Value{}, ErrExecution.Errorf("Position exceeds bounds of sequence")
	}

	i := int(pos.i)
	if i < 0 {
		i += int(n)
	}

	if s.typ == TypeString {
		return StringVal(string(s.runes[i])), nil
	}

	return s.elems[i], nil
}

func installSequences(r *Registry) error {
	f := registrar{d: r.Functions}

	var lengths []Signature

	for _, t := range []Type{TypeString, TypeList} {
		lengths = append(lengths, Sig(t), Sig(t, TypeInteger), Sig(t, TypeFloat))
	}

	f.add("in", arity("in", 2, valueIn))
	f.add("length", length, Sig(TypeString), Sig(TypeList))
	f.add("head", head, lengths...)
	f.add("tail", tail, lengths...)
	f.add("concat", concat)
	f.add("slice", slice,
		Sig(TypeString, TypeInteger), Sig(TypeList, TypeInteger),
		Sig(TypeString, TypeInteger, TypeInteger), Sig(TypeList, TypeInteger, TypeInteger),
	)
	f.add("at", at, Sig(TypeString, TypeInteger), Sig(TypeList, TypeInteger))

	return f.err()
}
