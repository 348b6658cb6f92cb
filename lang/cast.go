package lang

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Accepted text forms of the calendar types.
var (
	dateText     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeText     = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2}(\.\d{3})?)?$`)
	dateTimeText = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d{3})?)?)?$`)
)

// Cast converts v to type t. Casting to the type v already has returns v.
// A null value casts to the null of the target type.
func Cast(v Value, t Type) (Value, error) {
	if v.typ == t {
		return v, nil
	}

	switch t {
	case TypeUntyped:
		return Null, nil
	case TypeBoolean:
		return BooleanVal(Truthy(v)), nil
	}

	if !v.ok {
		return NullVal(t), nil
	}

	switch t {
	case TypeInteger:
		return toInteger(v)
	case TypeFloat:
		return toFloat(v)
	case TypeString:
		return toString(v)
	case TypeDate, TypeTime, TypeDateTime:
		return toCalendar(v, t)
	}

	return Value{}, conversionError(v, t)
}

// MustCast is like [Cast] but panics if the conversion fails. It is meant
// for conversions known to succeed, such as widening an INTEGER.
func MustCast(v Value, t Type) Value {
	c, err := Cast(v, t)
	if err != nil {
		panic(err)
	}

	return c
}

// Truthy reports the BOOLEAN conversion of v. Null and empty values are
// false; scalars follow their payload; any non-null LIST, RECORD or
// calendar value is true, even when empty.
func Truthy(v Value) bool {
	if !v.ok {
		return false
	}

	switch v.typ {
	case TypeBoolean:
		return v.b
	case TypeInteger:
		return v.i != 0
	case TypeFloat:
		return v.f != 0 && !math.IsNaN(v.f)
	case TypeString:
		return v.s != ""
	}

	return true
}

func toInteger(v Value) (Value, error) {
	var f float64

	switch v.typ {
	case TypeFloat:
		f = v.f
	case TypeBoolean:
		if v.b {
			return IntegerVal(1), nil
		}

		return IntegerVal(0), nil
	case TypeString:
		n, ok := parseNumber(v.s)
		if !ok {
			return Value{}, conversionError(v, TypeInteger)
		}

		f = n
	default:
		return Value{}, conversionError(v, TypeInteger)
	}

	f = math.Trunc(f)

	if math.IsNaN(f) || math.IsInf(f, 0) || f > MaxInteger || f < MinInteger {
		return Value{}, conversionError(v, TypeInteger)
	}

	return IntegerVal(int64(f)), nil
}

func toFloat(v Value) (Value, error) {
	switch v.typ {
	case TypeInteger:
		return FloatVal(float64(v.i)), nil
	case TypeBoolean:
		if v.b {
			return FloatVal(1), nil
		}

		return FloatVal(0), nil
	case TypeString:
		if n, ok := parseNumber(v.s); ok {
			return FloatVal(n), nil
		}
	}

	return Value{}, conversionError(v, TypeFloat)
}

func toString(v Value) (Value, error) {
	switch v.typ {
	case TypeInteger, TypeFloat, TypeBoolean, TypeDate, TypeTime, TypeDateTime:
		return StringVal(v.raw()), nil
	}

	return Value{}, conversionError(v, TypeString)
}

func toCalendar(v Value, t Type) (Value, error) {
	switch v.typ {
	case TypeString:
		if c, ok := parseCalendar(v.s, t); ok {
			return c, nil
		}

	case TypeDate:
		if t == TypeDateTime {
			return DateTimeVal(v.t), nil
		}

	case TypeDateTime:
		// Projections keep whole seconds only.
		whole := v.t.Truncate(time.Second)

		switch t {
		case TypeDate:
			return DateVal(whole), nil
		case TypeTime:
			return TimeVal(whole), nil
		}
	}

	return Value{}, conversionError(v, t)
}

// parseCalendar parses s as the text form of calendar type t.
func parseCalendar(s string, t Type) (Value, bool) {
	var (
		layout string
		ok     bool
	)

	switch t {
	case TypeDate:
		layout, ok = time.DateOnly, dateText.MatchString(s)
	case TypeTime:
		layout, ok = "2006-01-02T"+clockLayout(s), timeText.MatchString(s)
		s = "0001-01-01T" + s
	case TypeDateTime:
		layout, ok = time.DateOnly, dateTimeText.MatchString(s)

		if _, clock, found := strings.Cut(s, "T"); found {
			layout = "2006-01-02T" + clockLayout(clock)
		}
	}

	if !ok {
		return Value{}, false
	}

	p, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return Value{}, false
	}

	switch t {
	case TypeDate:
		return DateVal(p), true
	case TypeTime:
		return TimeVal(p), true
	}

	return DateTimeVal(p), true
}

// clockLayout returns the time layout matching the precision of s, which
// has already matched one of the accepted clock forms.
func clockLayout(s string) string {
	switch len(s) {
	case len("15:04"):
		return "15:04"
	case len("15:04:05"):
		return time.TimeOnly
	}

	return "15:04:05.000"
}

// parseNumber converts text to a number the way loosely-typed numeric input
// is commonly read: surrounding space is ignored, blank text is zero, hex,
// octal and binary integer prefixes are accepted, and Infinity is
// recognised.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	switch s {
	case "":
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		u, err := strconv.ParseUint(s[2:], prefixBase(s[1]), 64)
		if err != nil {
			return 0, false
		}

		return float64(u), true
	}

	// Reject forms strconv accepts but plain decimal text does not.
	if strings.ContainsAny(s, "_xXpPiInN") {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

func prefixBase(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	}

	return 2
}
