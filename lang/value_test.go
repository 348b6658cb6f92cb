package lang

import (
	"errors"
	"math"
	"testing"
	"time"
)

var (
	testDate     = DateVal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	testTime     = TimeVal(time.Date(1, 1, 1, 13, 4, 5, 250*int(time.Millisecond), time.UTC))
	testDateTime = DateTimeVal(time.Date(2024, time.March, 5, 13, 4, 5, 250*int(time.Millisecond), time.UTC))
)

func TestValue_PlainString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null, "NULL"},
		{"typed null", NullVal(TypeInteger), "NULL"},
		{"integer", IntegerVal(-7), "-7"},
		{"integral float", FloatVal(3), "3"},
		{"float", FloatVal(0.25), "0.25"},
		{"large float", FloatVal(1e21), "1e+21"},
		{"infinity", FloatVal(math.Inf(-1)), "-Infinity"},
		{"string", StringVal("a b"), `"a b"`},
		{"boolean", True, "True"},
		{"date", testDate, "2024-03-05"},
		{"time with milliseconds", testTime, "13:04:05.250"},
		{"whole time", TimeVal(time.Date(1, 1, 1, 8, 0, 0, 0, time.UTC)), "08:00:00"},
		{"datetime", testDateTime, "2024-03-05T13:04:05.250"},
		{"list", ListVal(IntegerVal(1), StringVal("x"), Null), `[1, "x", NULL]`},
		{"record", RecordVal(map[string]Value{"b": True, "a": IntegerVal(1)}), "{a: 1, b: True}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.PlainString(); got != tt.want {
				t.Errorf("PlainString() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{IntegerVal(3), "INTEGER(3)"},
		{NullVal(TypeString), "STRING(NULL)"},
		{Null, "UNTYPED(NULL)"},
		{ListVal(IntegerVal(1), FloatVal(2.5)), "LIST(INTEGER(1), FLOAT(2.5))"},
		{RecordVal(map[string]Value{"k": StringVal("v")}), `RECORD(k: STRING("v"))`},
		{ListVal(), "LIST()"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValue_Len(t *testing.T) {
	tests := []struct {
		v    Value
		want int
	}{
		{StringVal("héllo"), 5},
		{ListVal(Null, Null), 2},
		{RecordVal(map[string]Value{"a": Null}), 1},
		{IntegerVal(12), 0},
	}

	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			if got := tt.v.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseType(%s) = %s, %v", typ, got, err)
		}
	}

	if got, err := ParseType("datetime"); err != nil || got != TypeDateTime {
		t.Errorf("ParseType(datetime) = %s, %v", got, err)
	}

	if _, err := ParseType("decimal"); !errors.Is(err, ErrConversion) {
		t.Errorf("ParseType(decimal) error = %v, want ErrConversion", err)
	}
}

func TestCast(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		to   Type
		want string
	}{
		{"float to integer truncates", FloatVal(-2.7), TypeInteger, "INTEGER(-2)"},
		{"boolean to integer", True, TypeInteger, "INTEGER(1)"},
		{"string to integer", StringVal(" 12 "), TypeInteger, "INTEGER(12)"},
		{"hex string to integer", StringVal("0x1F"), TypeInteger, "INTEGER(31)"},
		{"blank string to integer", StringVal(""), TypeInteger, "INTEGER(0)"},
		{"integer to float", IntegerVal(2), TypeFloat, "FLOAT(2)"},
		{"string to float", StringVal("1e2"), TypeFloat, "FLOAT(100)"},
		{"infinity to float", StringVal("-Infinity"), TypeFloat, "FLOAT(-Infinity)"},
		{"float to string", FloatVal(0.5), TypeString, `STRING("0.5")`},
		{"boolean to string", False, TypeString, `STRING("False")`},
		{"date to string", testDate, TypeString, `STRING("2024-03-05")`},
		{"empty list to boolean", ListVal(), TypeBoolean, "BOOLEAN(True)"},
		{"zero to boolean", IntegerVal(0), TypeBoolean, "BOOLEAN(False)"},
		{"null to boolean", Null, TypeBoolean, "BOOLEAN(False)"},
		{"null to integer", Null, TypeInteger, "INTEGER(NULL)"},
		{"anything to untyped", IntegerVal(1), TypeUntyped, "UNTYPED(NULL)"},
		{"string to date", StringVal("2020-02-29"), TypeDate, "DATE(2020-02-29)"},
		{"string to short time", StringVal("07:30"), TypeTime, "TIME(07:30:00)"},
		{"string to datetime", StringVal("2020-01-02T03:04:05.006"), TypeDateTime, "DATETIME(2020-01-02T03:04:05.006)"},
		{"date only to datetime", StringVal("2020-01-02"), TypeDateTime, "DATETIME(2020-01-02T00:00:00)"},
		{"date to datetime", testDate, TypeDateTime, "DATETIME(2024-03-05T00:00:00)"},
		{"datetime to date", testDateTime, TypeDate, "DATE(2024-03-05)"},
		{"datetime to time drops milliseconds", testDateTime, TypeTime, "TIME(13:04:05)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cast(tt.v, tt.to)
			if err != nil {
				t.Fatalf("Cast(%s, %s) error: %v", tt.v, tt.to, err)
			}

			if got.String() != tt.want {
				t.Errorf("Cast(%s, %s) = %s, want %s", tt.v, tt.to, got, tt.want)
			}
		})
	}
}

func TestCast_Errors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		to   Type
	}{
		{"word to integer", StringVal("ten"), TypeInteger},
		{"underscored digits", StringVal("1_000"), TypeInteger},
		{"infinity to integer", FloatVal(math.Inf(1)), TypeInteger},
		{"list to string", ListVal(), TypeString},
		{"record to integer", RecordVal(nil), TypeInteger},
		{"invalid date", StringVal("2021-02-30"), TypeDate},
		{"date to time", testDate, TypeTime},
		{"number to date", IntegerVal(20200101), TypeDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Cast(tt.v, tt.to)
			if !errors.Is(err, ErrConversion) {
				t.Errorf("Cast(%s, %s) error = %v, want ErrConversion", tt.v, tt.to, err)
			}
		})
	}
}

func TestMustCast(t *testing.T) {
	if got := MustCast(IntegerVal(2), TypeFloat); got.Float() != 2 {
		t.Errorf("MustCast = %s, want FLOAT(2)", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustCast did not panic on a failed conversion")
		}
	}()

	MustCast(StringVal("x"), TypeInteger)
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same integer", IntegerVal(1), IntegerVal(1), true},
		{"float cast to integer", IntegerVal(1), FloatVal(1.9), true},
		{"integer cast to float", FloatVal(1.9), IntegerVal(1), false},
		{"string and number", StringVal("2"), IntegerVal(2), true},
		{"nulls of any type", NullVal(TypeDate), Null, true},
		{"null and value", Null, IntegerVal(0), false},
		{"lists", ListVal(IntegerVal(1)), ListVal(IntegerVal(1)), true},
		{"list order", ListVal(IntegerVal(1), IntegerVal(2)), ListVal(IntegerVal(2), IntegerVal(1)), false},
		{"date and datetime at midnight", testDate, DateTimeVal(testDate.Time()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equal(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Equal(%s, %s) error: %v", tt.a, tt.b, err)
			}

			if got != tt.want {
				t.Errorf("Equal(%s, %s) = %t, want %t", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Value
		order  int
		orders bool
	}{
		{"integers", IntegerVal(1), IntegerVal(2), -1, true},
		{"float against integer", FloatVal(2.5), IntegerVal(2), 1, true},
		{"strings", StringVal("b"), StringVal("a"), 1, true},
		{"booleans", False, True, -1, true},
		{"dates", testDate, StringVal("2024-03-05"), 0, true},
		{"null", Null, IntegerVal(1), 0, false},
		{"lists", ListVal(), ListVal(), 0, false},
		{"nan", FloatVal(math.NaN()), FloatVal(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, ok, err := Compare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Compare(%s, %s) error: %v", tt.a, tt.b, err)
			}

			if ok != tt.orders || order != tt.order {
				t.Errorf("Compare(%s, %s) = %d, %t, want %d, %t",
					tt.a, tt.b, order, ok, tt.order, tt.orders)
			}
		})
	}
}

func TestIdentical(t *testing.T) {
	if Identical(IntegerVal(1), FloatVal(1)) {
		t.Error("INTEGER(1) identical to FLOAT(1)")
	}

	if !Identical(FloatVal(math.NaN()), FloatVal(math.NaN())) {
		t.Error("NaN not identical to NaN")
	}

	a := RecordVal(map[string]Value{"x": ListVal(Null)})
	b := RecordVal(map[string]Value{"x": ListVal(Null)})

	if !Identical(a, b) {
		t.Errorf("%s not identical to %s", a, b)
	}

	if Identical(NullVal(TypeString), Null) {
		t.Error("typed null identical to untyped null")
	}
}
