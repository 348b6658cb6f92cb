package lang

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// typeTest returns a catch-all reporting whether its argument has type t.
func typeTest(t Type) Func {
	return func(args ...Value) (Value, error) {
		return BooleanVal(args[0].typ == t), nil
	}
}

// caster returns a catch-all converting its argument to type t.
func caster(t Type) Func {
	return func(args ...Value) (Value, error) {
		return Cast(args[0], t)
	}
}

func list(args ...Value) (Value, error) {
	return ListVal(append([]Value(nil), args...)...), nil
}

func record(args ...Value) (Value, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return Value{}, errArgumentCount()
	}

	fields := make(map[string]Value, len(args)/2)

	for i := 0; i < len(args); i += 2 {
		k := args[i]

		if k.typ != TypeString {
			return Value{}, ErrExecution.Errorf("Property names must be a STRING, not %s", k.typ)
		}

		if k.IsNull() {
			return Value{}, ErrExecution.Errorf("Property names cannot be null")
		}

		fields[k.s] = args[i+1]
	}

	return RecordVal(fields), nil
}

func property(args ...Value) (Value, error) {
	rec, name := args[0], args[1]
	if rec.IsNull() {
		return Null, nil
	}

	if name.IsNull() {
		return Value{}, ErrExecution.Errorf("Property name cannot be null")
	}

	v, ok := rec.rec[name.s]
	if !ok {
		err := ErrExecution.Errorf("Record does not contain a property named %q", name.s)

		if s, ok := suggest(name.s, slices.Sorted(maps.Keys(rec.rec))); ok {
			err = err.With(slog.String(suggestionKey, s))
		}

		return Value{}, err
	}

	return v, nil
}

func coalesce(args ...Value) (Value, error) {
	for _, v := range args {
		if !v.IsNull() {
			return v, nil
		}
	}

	return Null, nil
}

func installTypes(r *Registry) error {
	f := registrar{d: r.Functions}

	for _, t := range []Type{
		TypeInteger, TypeFloat, TypeBoolean, TypeString,
		TypeDate, TypeTime, TypeDateTime, TypeList, TypeRecord,
	} {
		name := "is" + strings.ToUpper(t.String()[:1]) + strings.ToLower(t.String()[1:])
		f.add(name, arity(name, 1, typeTest(t)))
	}

	for _, t := range []Type{TypeInteger, TypeFloat, TypeBoolean, TypeString} {
		name := strings.ToLower(t.String())
		f.add(name, arity(name, 1, caster(t)))
	}

	// Calendar casts share their names with the constructors installed
	// later, so they are registered per argument type.
	for _, t := range []Type{TypeDate, TypeTime, TypeDateTime} {
		f.add(strings.ToLower(t.String()), caster(t), unarySigs()...)
	}

	f.add("isNull", arity("isNull", 1, func(args ...Value) (Value, error) {
		return BooleanVal(args[0].IsNull()), nil
	}))

	f.add("list", list)
	f.add("record", record)
	f.add("property", property, Sig(TypeRecord, TypeString))
	f.add("coalesce", coalesce)

	return f.err()
}

// unarySigs returns a one-argument signature for every type.
func unarySigs() []Signature {
	types := Types()
	sigs := make([]Signature, len(types))

	for i, t := range types {
		sigs[i] = Sig(t)
	}

	return sigs
}
