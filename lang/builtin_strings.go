package lang

import (
	"strings"
	"unicode"
)

// stringMap lifts fn to a one-argument STRING implementation. Null and
// empty strings are returned unchanged.
func stringMap(fn func(string) string) Func {
	return func(args ...Value) (Value, error) {
		v := args[0]
		if v.IsEmpty() {
			return v, nil
		}

		return StringVal(fn(v.s)), nil
	}
}

func replace(args ...Value) (Value, error) {
	v, needle, repl := args[0], args[1], args[2]
	if v.IsEmpty() || needle.IsEmpty() {
		return v, nil
	}

	return StringVal(strings.Replace(v.s, needle.s, repl.s, 1)), nil
}

func repeat(args ...Value) (Value, error) {
	v, n := args[0], args[1]
	if v.IsEmpty() || n.IsNull() {
		return v, nil
	}

	if n.i < 0 {
		return Value{}, ErrExecution.Errorf("Repetitions cannot be negative")
	}

	if n.i > 0 && int64(len(v.s)) > maxStringLen/n.i {
		return Value{}, ErrExecution.Errorf("Repeated string exceeds %d bytes", maxStringLen)
	}

	return StringVal(strings.Repeat(v.s, int(n.i))), nil
}

// maxStringLen bounds strings built by repeat.
const maxStringLen = 1 << 30

func installStrings(r *Registry) error {
	f := registrar{d: r.Functions}

	f.add("upper", stringMap(strings.ToUpper), Sig(TypeString))
	f.add("lower", stringMap(strings.ToLower), Sig(TypeString))
	f.add("trim", stringMap(strings.TrimSpace), Sig(TypeString))
	f.add("ltrim", stringMap(func(s string) string {
		return strings.TrimLeftFunc(s, unicode.IsSpace)
	}), Sig(TypeString))
	f.add("rtrim", stringMap(func(s string) string {
		return strings.TrimRightFunc(s, unicode.IsSpace)
	}), Sig(TypeString))

	f.add("replace", replace, Sig(TypeString, TypeString, TypeString))
	f.add("repeat", repeat, Sig(TypeString, TypeInteger))

	return f.err()
}
