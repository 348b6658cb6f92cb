package lang

import (
	"math"
	"time"
)

const (
	secondsPerDay = 24 * 60 * 60

	// maxDayShift bounds day offsets to the representable calendar.
	maxDayShift = 10000 * 366
)

// calendarPart reads an optional INTEGER argument, substituting def for
// absent or null arguments.
func calendarPart(args []Value, i int, def int64) int64 {
	if i >= len(args) || args[i].IsNull() {
		return def
	}

	return args[i].i
}

// calendar builds a UTC time from its parts and reports why the parts do
// not name a real instant, if they don't.
func calendar(y, mo, d, h, mi, s, ms int64) (time.Time, string) {
	parts := []struct {
		val    int64
		lo, hi int64
	}{
		{y, 1, 9999}, {mo, 1, 12}, {d, 1, 31},
		{h, 0, 23}, {mi, 0, 59}, {s, 0, 59}, {ms, 0, 999},
	}

	for _, p := range parts {
		if p.val < p.lo || p.val > p.hi {
			return time.Time{}, "unit out of range"
		}
	}

	t := time.Date(int(y), time.Month(mo), int(d),
		int(h), int(mi), int(s), int(ms)*int(time.Millisecond), time.UTC)

	// time.Date normalizes overflowing days, e.g. February 30.
	if t.Day() != int(d) {
		return time.Time{}, "unit out of range"
	}

	return t, ""
}

func makeDate(args ...Value) (Value, error) {
	y := calendarPart(args, 0, 1)
	if y < 1 {
		return Value{}, ErrExecution.Errorf("Year must be > 1")
	}

	t, reason := calendar(y, calendarPart(args, 1, 1), calendarPart(args, 2, 1), 0, 0, 0, 0)
	if reason != "" {
		return Value{}, ErrExecution.Errorf("Cannot create DATE: %s", reason)
	}

	return DateVal(t), nil
}

func makeTime(args ...Value) (Value, error) {
	t, reason := calendar(1, 1, 1,
		calendarPart(args, 0, 0), calendarPart(args, 1, 0),
		calendarPart(args, 2, 0), calendarPart(args, 3, 0))
	if reason != "" {
		return Value{}, ErrExecution.Errorf("Cannot create TIME: %s", reason)
	}

	return TimeVal(t), nil
}

func makeDateTime(args ...Value) (Value, error) {
	y := calendarPart(args, 0, 1)
	if y < 1 {
		return Value{}, ErrExecution.Errorf("Year must be > 1")
	}

	t, reason := calendar(y,
		calendarPart(args, 1, 1), calendarPart(args, 2, 1),
		calendarPart(args, 3, 0), calendarPart(args, 4, 0),
		calendarPart(args, 5, 0), calendarPart(args, 6, 0))
	if reason != "" {
		return Value{}, ErrExecution.Errorf("Cannot create DATETIME: %s", reason)
	}

	return DateTimeVal(t), nil
}

// component returns an accessor for one field of a calendar value.
func component(field func(time.Time) int) Func {
	return func(args ...Value) (Value, error) {
		v := args[0]
		if v.IsNull() {
			return NullVal(TypeInteger), nil
		}

		return IntegerVal(int64(field(v.t))), nil
	}
}

// shiftDays moves t by a possibly fractional number of days.
func shiftDays(t time.Time, days float64) (time.Time, error) {
	if math.IsNaN(days) || math.Abs(days) > maxDayShift {
		return time.Time{}, ErrExecution.Errorf("Cannot shift a date by %s days", formatFloat(days))
	}

	whole, frac := math.Modf(days)
	s := t.AddDate(0, 0, int(whole)).Add(time.Duration(frac * secondsPerDay * float64(time.Second))).
		Round(time.Millisecond)

	if y := s.Year(); y < 1 || y > 9999 {
		return time.Time{}, ErrExecution.Errorf("Date is out of range")
	}

	return s, nil
}

// shiftClock moves the time of day t by seconds, wrapping at midnight.
func shiftClock(t time.Time, seconds float64) (time.Time, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, ErrExecution.Errorf("Cannot shift a time by %s seconds", formatFloat(seconds))
	}

	seconds = math.Mod(seconds, secondsPerDay)

	shifted := t.Add(time.Duration(seconds * float64(time.Second)))

	return clockOf(shifted.Round(time.Millisecond)), nil
}

// calendarOperands orders a calendar value and a numeric offset that may
// have been given in either order.
func calendarOperands(args []Value) (subject, offset Value) {
	if args[0].isNumeric() {
		return args[1], args[0]
	}

	return args[0], args[1]
}

// reshape rebuilds a value of t's calendar type from a shifted time.
func reshape(typ Type, t time.Time) Value {
	switch typ {
	case TypeDate:
		return DateVal(t)
	case TypeTime:
		return TimeVal(t)
	}

	return DateTimeVal(t)
}

// calendarShift adds offsets to calendar values: days to DATE and DATETIME
// and seconds to TIME. A negative sign subtracts.
func calendarShift(sign float64) Func {
	return func(args ...Value) (Value, error) {
		subject, offset := calendarOperands(args)
		if subject.IsNull() || offset.IsNull() {
			return NullVal(subject.typ), nil
		}

		var (
			t   time.Time
			err error
		)

		if subject.typ == TypeTime {
			t, err = shiftClock(subject.t, sign*offset.Float())
		} else {
			t, err = shiftDays(subject.t, sign*offset.Float())
		}

		if err != nil {
			return Value{}, err
		}

		return reshape(subject.typ, t), nil
	}
}

// dayDifference returns a-b in days. The difference is whole unless either
// operand is a DATETIME.
func dayDifference(args ...Value) (Value, error) {
	a, b := args[0], args[1]

	t := TypeInteger
	if a.typ == TypeDateTime || b.typ == TypeDateTime {
		t = TypeFloat
	}

	if a.IsNull() || b.IsNull() {
		return NullVal(t), nil
	}

	// Unix seconds avoid the 292 year limit of time.Duration.
	secs := a.t.Unix() - b.t.Unix()

	if t == TypeInteger {
		return IntegerVal(secs / secondsPerDay), nil
	}

	nanos := float64(a.t.Nanosecond() - b.t.Nanosecond())

	return FloatVal((float64(secs) + nanos/float64(time.Second)) / secondsPerDay), nil
}

func secondDifference(args ...Value) (Value, error) {
	a, b := args[0], args[1]
	if a.IsNull() || b.IsNull() {
		return NullVal(TypeFloat), nil
	}

	return FloatVal(a.t.Sub(b.t).Seconds()), nil
}

func installDates(r *Registry) error {
	f := registrar{d: r.Functions}

	ints := func(n int) Signature {
		s := make(Signature, n)
		for i := range s {
			s[i] = TypeInteger
		}

		return s
	}

	f.add("date", makeDate, ints(3))
	f.add("time", makeTime, ints(3), ints(4))
	f.add("datetime", makeDateTime, ints(6), ints(7))

	f.add("today", func(...Value) (Value, error) {
		return DateVal(time.Now()), nil
	})
	f.add("now", func(...Value) (Value, error) {
		return DateTimeVal(time.Now().Truncate(time.Millisecond)), nil
	})

	dated := []Signature{Sig(TypeDate), Sig(TypeDateTime)}
	clocked := []Signature{Sig(TypeTime), Sig(TypeDateTime)}

	f.add("year", component(time.Time.Year), dated...)
	f.add("month", component(func(t time.Time) int { return int(t.Month()) }), dated...)
	f.add("day", component(time.Time.Day), dated...)
	f.add("hour", component(time.Time.Hour), clocked...)
	f.add("minute", component(time.Time.Minute), clocked...)
	f.add("second", component(time.Time.Second), clocked...)
	f.add("millisecond", component(func(t time.Time) int {
		return t.Nanosecond() / int(time.Millisecond)
	}), clocked...)

	var plus, minus []Signature

	for _, c := range []Type{TypeDate, TypeDateTime, TypeTime} {
		for _, n := range []Type{TypeInteger, TypeFloat} {
			plus = append(plus, Sig(c, n), Sig(n, c))
			minus = append(minus, Sig(c, n))
		}
	}

	f.add("add", calendarShift(1), plus...)
	f.add("subtract", calendarShift(-1), minus...)
	f.add("subtract", dayDifference,
		Sig(TypeDate, TypeDate), Sig(TypeDate, TypeDateTime),
		Sig(TypeDateTime, TypeDate), Sig(TypeDateTime, TypeDateTime),
	)
	f.add("subtract", secondDifference, Sig(TypeTime, TypeTime))

	return f.err()
}
