package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// FromNative converts a Go value to a [Value].
//
// Booleans, strings and numbers map to their scalar types. Go integer
// types become INTEGER, or FLOAT outside [MinInteger, MaxInteger], and
// floating-point types always become FLOAT. A time.Time becomes a
// DATETIME. Slices and arrays become LISTs and string-keyed maps become
// RECORDs, converted recursively. A nil becomes the UNTYPED null and a
// [Value] is returned unchanged.
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null, nil
	case Value:
		return x, nil
	case bool:
		return BooleanVal(x), nil
	case string:
		return StringVal(x), nil
	case int:
		return fromSigned(int64(x)), nil
	case int8:
		return IntegerVal(int64(x)), nil
	case int16:
		return IntegerVal(int64(x)), nil
	case int32:
		return IntegerVal(int64(x)), nil
	case int64:
		return fromSigned(x), nil
	case uint:
		return fromUnsigned(uint64(x)), nil
	case uint8:
		return IntegerVal(int64(x)), nil
	case uint16:
		return IntegerVal(int64(x)), nil
	case uint32:
		return IntegerVal(int64(x)), nil
	case uint64:
		return fromUnsigned(x), nil
	case float32:
		return FloatVal(float64(x)), nil
	case float64:
		return FloatVal(x), nil
	case time.Time:
		return DateTimeVal(x), nil
	case []Value:
		return ListVal(x...), nil
	case map[string]Value:
		return RecordVal(x), nil
	case []any:
		return fromSlice(reflect.ValueOf(x))
	case map[string]any:
		return fromMap(reflect.ValueOf(x))
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return fromSlice(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return fromMap(rv)
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return Null, nil
		}

		return FromNative(rv.Elem().Interface())
	}

	return Value{}, ErrBEXL.Errorf("Cannot create a BEXL value from %v", x).
		With(slog.String("type", fmt.Sprintf("%T", x)))
}

// Integers outside [MinInteger, MaxInteger] become FLOAT.
func fromSigned(i int64) Value {
	if !inIntegerRange(i) {
		return FloatVal(float64(i))
	}

	return IntegerVal(i)
}

func fromUnsigned(u uint64) Value {
	if u > MaxInteger {
		return FloatVal(float64(u))
	}

	return IntegerVal(int64(u))
}

func fromSlice(rv reflect.Value) (Value, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return NullVal(TypeList), nil
	}

	elems := make([]Value, rv.Len())

	for i := range elems {
		v, err := FromNative(rv.Index(i).Interface())
		if err != nil {
			return Value{}, err
		}

		elems[i] = v
	}

	return ListVal(elems...), nil
}

func fromMap(rv reflect.Value) (Value, error) {
	if rv.IsNil() {
		return NullVal(TypeRecord), nil
	}

	fields := make(map[string]Value, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		v, err := FromNative(iter.Value().Interface())
		if err != nil {
			return Value{}, err
		}

		fields[iter.Key().String()] = v
	}

	return RecordVal(fields), nil
}

// ToNative recursively unwraps v into Go values: int64, float64, string,
// bool, time.Time, []any and map[string]any. Nulls become nil.
func ToNative(v Value) any {
	if !v.ok {
		return nil
	}

	switch v.typ {
	case TypeInteger:
		return v.i
	case TypeFloat:
		return v.f
	case TypeString:
		return v.s
	case TypeBoolean:
		return v.b
	case TypeDate, TypeTime, TypeDateTime:
		return v.t

	case TypeList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = ToNative(e)
		}

		return out

	case TypeRecord:
		out := make(map[string]any, len(v.rec))
		for k, e := range v.rec {
			out[k] = ToNative(e)
		}

		return out
	}

	return nil
}

// ParseValue reads text as a value of type t. STRING accepts any text;
// the other scalar types accept their literal or canonical text forms.
func ParseValue(text string, t Type) (Value, error) {
	switch t {
	case TypeString:
		return StringVal(text), nil

	case TypeInteger:
		if i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil &&
			inIntegerRange(i) {
			return IntegerVal(i), nil
		}

	case TypeFloat:
		if f, ok := parseNumber(text); ok && strings.TrimSpace(text) != "" &&
			!math.IsInf(f, 0) {
			return FloatVal(f), nil
		}

	case TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true":
			return True, nil
		case "false":
			return False, nil
		}

	case TypeDate, TypeTime, TypeDateTime:
		if v, ok := parseCalendar(text, t); ok {
			return v, nil
		}
	}

	return Value{}, ErrConversion.Errorf("%q is not a %s value",
		text, strings.ToLower(t.String()))
}

// inferOrder is the order in which types are tried by [InferValue].
var inferOrder = []Type{
	TypeInteger, TypeFloat, TypeBoolean, TypeDate, TypeTime, TypeDateTime,
}

// InferValue reads text as the first type in the order INTEGER, FLOAT,
// BOOLEAN, DATE, TIME, DATETIME that accepts it, falling back to STRING.
func InferValue(text string) Value {
	for _, t := range inferOrder {
		if v, err := ParseValue(text, t); err == nil {
			return v
		}
	}

	return StringVal(text)
}

// DecodeVariables reads a YAML (or JSON) mapping of variable names to
// values. Strings written in the text form of DATE, TIME or DATETIME
// decode to those types.
func DecodeVariables(ctx context.Context, r io.Reader) (map[string]any, error) {
	data, err := ReadSource(ctx, r)
	if err != nil {
		return nil, err
	}

	vars := make(map[string]any)

	if err := yaml.UnmarshalContext(ctx, []byte(data), &vars); err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("format", "yaml"))
	}

	for k, x := range vars {
		vars[k] = calendarLeaves(x)
	}

	return vars, nil
}

func calendarLeaves(x any) any {
	switch x := x.(type) {
	case string:
		for _, t := range []Type{TypeDate, TypeTime, TypeDateTime} {
			if v, ok := parseCalendar(x, t); ok {
				return v
			}
		}

	case []any:
		for i, e := range x {
			x[i] = calendarLeaves(e)
		}

	case map[string]any:
		for k, e := range x {
			x[k] = calendarLeaves(e)
		}
	}

	return x
}

// EncodeVariables writes vars as a YAML mapping of native values.
func EncodeVariables(ctx context.Context, w io.Writer, vars map[string]Value) error {
	native := make(map[string]any, len(vars))
	for k, v := range vars {
		native[k] = textNative(v)
	}

	data, err := yaml.MarshalContext(ctx, native, yaml.Indent(2))
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// textNative is like [ToNative] but renders calendar values in their BEXL
// text form so they read back through [DecodeVariables] unchanged. It is
// used wherever values are serialized.
func textNative(v Value) any {
	if !v.ok {
		return nil
	}

	switch v.typ {
	case TypeDate, TypeTime, TypeDateTime:
		return v.raw()

	case TypeList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = textNative(e)
		}

		return out

	case TypeRecord:
		out := make(map[string]any, len(v.rec))
		for k, e := range v.rec {
			out[k] = textNative(e)
		}

		return out
	}

	return ToNative(v)
}
