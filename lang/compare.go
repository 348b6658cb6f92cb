package lang

import (
	"cmp"
	"math"
)

// Identical reports whether a and b have the same type and deeply equal
// payloads. No conversion is applied.
func Identical(a, b Value) bool {
	if a.typ != b.typ || a.ok != b.ok {
		return false
	}

	if !a.ok {
		return true
	}

	switch a.typ {
	case TypeInteger:
		return a.i == b.i
	case TypeFloat:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case TypeString:
		return a.s == b.s
	case TypeBoolean:
		return a.b == b.b
	case TypeDate, TypeTime, TypeDateTime:
		return a.t.Equal(b.t)

	case TypeList:
		if len(a.list) != len(b.list) {
			return false
		}

		for i := range a.list {
			if !Identical(a.list[i], b.list[i]) {
				return false
			}
		}

		return true

	case TypeRecord:
		if len(a.rec) != len(b.rec) {
			return false
		}

		for k, av := range a.rec {
			bv, ok := b.rec[k]
			if !ok || !Identical(av, bv) {
				return false
			}
		}

		return true
	}

	return true
}

// Equal reports whether a equals b once b is cast to the type of a.
// A null equals only another null.
func Equal(a, b Value) (bool, error) {
	if !a.ok || !b.ok {
		return !a.ok && !b.ok, nil
	}

	c, err := Cast(b, a.typ)
	if err != nil {
		return false, err
	}

	return Identical(a, c), nil
}

// Compare orders a against b once b is cast to the type of a, returning a
// negative number, zero or a positive number. Null, LIST and RECORD values
// have no order and ok is false for them.
func Compare(a, b Value) (order int, ok bool, err error) {
	if !a.ok || !b.ok {
		return 0, false, nil
	}

	c, err := Cast(b, a.typ)
	if err != nil {
		return 0, false, err
	}

	switch a.typ {
	case TypeInteger:
		return cmp.Compare(a.i, c.i), true, nil
	case TypeFloat:
		if math.IsNaN(a.f) || math.IsNaN(c.f) {
			return 0, false, nil
		}

		return cmp.Compare(a.f, c.f), true, nil
	case TypeString:
		return cmp.Compare(a.s, c.s), true, nil
	case TypeBoolean:
		return cmp.Compare(boolRank(a.b), boolRank(c.b)), true, nil
	case TypeDate, TypeTime, TypeDateTime:
		return a.t.Compare(c.t), true, nil
	}

	return 0, false, nil
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}
