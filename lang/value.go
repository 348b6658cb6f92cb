package lang

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Type is the runtime data type of a [Value].
type Type uint8

// Data types.
const (
	TypeUntyped Type = iota
	TypeString
	TypeFloat
	TypeInteger
	TypeBoolean
	TypeDate
	TypeTime
	TypeDateTime
	TypeList
	TypeRecord
)

var typeNames = [...]string{
	TypeUntyped:  "UNTYPED",
	TypeString:   "STRING",
	TypeFloat:    "FLOAT",
	TypeInteger:  "INTEGER",
	TypeBoolean:  "BOOLEAN",
	TypeDate:     "DATE",
	TypeTime:     "TIME",
	TypeDateTime: "DATETIME",
	TypeList:     "LIST",
	TypeRecord:   "RECORD",
}

// Types returns every data type in declaration order.
func Types() []Type {
	return []Type{
		TypeUntyped, TypeString, TypeFloat, TypeInteger, TypeBoolean,
		TypeDate, TypeTime, TypeDateTime, TypeList, TypeRecord,
	}
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}

	return fmt.Sprintf("Type(%d)", t)
}

// ParseType returns the type named s, ignoring case.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}

	return TypeUntyped, ErrConversion.Errorf("Unknown data type %q", s)
}

// Value is an immutable, typed BEXL runtime value. The zero Value is the
// UNTYPED null.
type Value struct {
	t    time.Time
	rec  map[string]Value
	s    string
	list []Value
	i    int64
	f    float64
	typ  Type
	b    bool
	ok   bool // false for null
}

// Shared values.
var (
	Null  = Value{}
	True  = BooleanVal(true)
	False = BooleanVal(false)
)

// NullVal returns the null value of type t.
func NullVal(t Type) Value { return Value{typ: t} }

// INTEGER payloads are limited to the integers a FLOAT holds exactly, so
// casting between the two never loses digits.
const (
	MaxInteger = 1<<53 - 1
	MinInteger = -MaxInteger
)

func inIntegerRange(i int64) bool { return MinInteger <= i && i <= MaxInteger }

// IntegerVal returns an INTEGER value.
func IntegerVal(i int64) Value { return Value{typ: TypeInteger, i: i, ok: true} }

// FloatVal returns a FLOAT value.
func FloatVal(f float64) Value { return Value{typ: TypeFloat, f: f, ok: true} }

// StringVal returns a STRING value.
func StringVal(s string) Value { return Value{typ: TypeString, s: s, ok: true} }

// BooleanVal returns a BOOLEAN value.
func BooleanVal(b bool) Value { return Value{typ: TypeBoolean, b: b, ok: true} }

// DateVal returns a DATE value holding the calendar date of t in UTC.
func DateVal(t time.Time) Value {
	return Value{typ: TypeDate, t: dateOf(t), ok: true}
}

// TimeVal returns a TIME value holding the time of day of t in UTC.
func TimeVal(t time.Time) Value {
	return Value{typ: TypeTime, t: clockOf(t), ok: true}
}

// DateTimeVal returns a DATETIME value holding t in UTC.
func DateTimeVal(t time.Time) Value {
	return Value{typ: TypeDateTime, t: t.UTC(), ok: true}
}

// ListVal returns a LIST value holding elems.
func ListVal(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{typ: TypeList, list: elems, ok: true}
}

// RecordVal returns a RECORD value holding fields.
func RecordVal(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}

	return Value{typ: TypeRecord, rec: fields, ok: true}
}

// dateOf truncates t to midnight UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// clockOf moves the time of day of t onto the zero date 0001-01-01 UTC.
func clockOf(t time.Time) time.Time {
	u := t.UTC()

	return time.Date(1, time.January, 1,
		u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

// Type returns the declared type of v.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v carries no payload.
func (v Value) IsNull() bool { return !v.ok }

// IsEmpty reports whether v is null, or an empty STRING, LIST or RECORD.
func (v Value) IsEmpty() bool {
	if !v.ok {
		return true
	}

	switch v.typ {
	case TypeString:
		return v.s == ""
	case TypeList:
		return len(v.list) == 0
	case TypeRecord:
		return len(v.rec) == 0
	}

	return false
}

// Int returns the payload of an INTEGER.
func (v Value) Int() int64 { return v.i }

// Float returns the payload of a FLOAT, or an INTEGER widened to float64.
func (v Value) Float() float64 {
	if v.typ == TypeInteger {
		return float64(v.i)
	}

	return v.f
}

// Text returns the payload of a STRING.
func (v Value) Text() string { return v.s }

// Bool returns the payload of a BOOLEAN.
func (v Value) Bool() bool { return v.b }

// Time returns the payload of a DATE, TIME or DATETIME.
func (v Value) Time() time.Time { return v.t }

// List returns a copy of the elements of a LIST.
func (v Value) List() []Value { return slices.Clone(v.list) }

// Record returns a copy of the fields of a RECORD.
func (v Value) Record() map[string]Value { return maps.Clone(v.rec) }

// Len returns the number of elements of a LIST, fields of a RECORD or
// characters of a STRING.
func (v Value) Len() int {
	switch v.typ {
	case TypeString:
		return utf8.RuneCountInString(v.s)
	case TypeList:
		return len(v.list)
	case TypeRecord:
		return len(v.rec)
	}

	return 0
}

// Field returns the named field of a RECORD.
func (v Value) Field(name string) (Value, bool) {
	f, ok := v.rec[name]

	return f, ok
}

// isNumeric reports whether v is an INTEGER or FLOAT.
func (v Value) isNumeric() bool {
	return v.typ == TypeInteger || v.typ == TypeFloat
}

// PlainString returns the canonical text form of v.
func (v Value) PlainString() string {
	if !v.ok {
		return "NULL"
	}

	switch v.typ {
	case TypeString:
		return `"` + v.s + `"`

	case TypeList:
		elems := make([]string, len(v.list))
		for i, e := range v.list {
			elems[i] = e.PlainString()
		}

		return "[" + strings.Join(elems, ", ") + "]"

	case TypeRecord:
		keys := slices.Sorted(maps.Keys(v.rec))

		fields := make([]string, len(keys))
		for i, k := range keys {
			fields[i] = k + ": " + v.rec[k].PlainString()
		}

		return "{" + strings.Join(fields, ", ") + "}"
	}

	return v.raw()
}

// String returns the debug form of v, e.g. INTEGER(3).
func (v Value) String() string {
	if v.ok {
		switch v.typ {
		case TypeList:
			elems := make([]string, len(v.list))
			for i, e := range v.list {
				elems[i] = e.String()
			}

			return "LIST(" + strings.Join(elems, ", ") + ")"

		case TypeRecord:
			keys := slices.Sorted(maps.Keys(v.rec))

			fields := make([]string, len(keys))
			for i, k := range keys {
				fields[i] = k + ": " + v.rec[k].String()
			}

			return "RECORD(" + strings.Join(fields, ", ") + ")"
		}
	}

	return v.typ.String() + "(" + v.PlainString() + ")"
}

// raw returns the unquoted text of the payload of v.
func (v Value) raw() string {
	if !v.ok {
		return "null"
	}

	switch v.typ {
	case TypeString:
		return v.s
	case TypeInteger:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return formatFloat(v.f)
	case TypeBoolean:
		if v.b {
			return "True"
		}

		return "False"
	case TypeDate:
		return v.t.Format(time.DateOnly)
	case TypeTime:
		return formatClock(v.t)
	case TypeDateTime:
		return v.t.Format(time.DateOnly) + "T" + formatClock(v.t)
	case TypeList, TypeRecord:
		return v.PlainString()
	}

	return ""
}

// formatFloat renders f the way it is written in source text: integral
// values drop the fraction and very large or small magnitudes use an
// exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if a := math.Abs(f); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatClock renders the time of day of t, with milliseconds only when
// they are non-zero.
func formatClock(t time.Time) string {
	if t.Nanosecond()/int(time.Millisecond) != 0 {
		return t.Format("15:04:05.000")
	}

	return t.Format(time.TimeOnly)
}
