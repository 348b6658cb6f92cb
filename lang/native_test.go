package lang

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestFromNative(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	answer := 42

	tests := []struct {
		name string
		x    any
		want string
	}{
		{"nil", nil, "UNTYPED(NULL)"},
		{"bool", true, "BOOLEAN(True)"},
		{"int", 7, "INTEGER(7)"},
		{"uint8", uint8(200), "INTEGER(200)"},
		{"huge uint64", uint64(math.MaxUint64), "FLOAT(18446744073709552000)"},
		{"integral float", 2.0, "FLOAT(2)"},
		{"huge int64", int64(math.MaxInt64), "FLOAT(9223372036854776000)"},
		{"largest exact int", MaxInteger, "INTEGER(9007199254740991)"},
		{"fractional float", float32(0.5), "FLOAT(0.5)"},
		{"string", "s", `STRING("s")`},
		{"time in utc", when, "DATETIME(2024-01-02T02:04:05)"},
		{"pointer", &answer, "INTEGER(42)"},
		{"nil pointer", (*int)(nil), "UNTYPED(NULL)"},
		{"typed slice", []string{"a", "b"}, `LIST(STRING("a"), STRING("b"))`},
		{"array", [2]int{1, 2}, "LIST(INTEGER(1), INTEGER(2))"},
		{"nil slice", []int(nil), "LIST(NULL)"},
		{"nested", map[string]any{"xs": []any{1, nil}}, "RECORD(xs: LIST(INTEGER(1), UNTYPED(NULL)))"},
		{"typed map", map[string]int{"n": 1}, "RECORD(n: INTEGER(1))"},
		{"value", IntegerVal(3), "INTEGER(3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromNative(tt.x)
			if err != nil {
				t.Fatalf("FromNative(%#v) error: %v", tt.x, err)
			}

			if got.String() != tt.want {
				t.Errorf("FromNative(%#v) = %s, want %s", tt.x, got, tt.want)
			}
		})
	}
}

func TestFromNative_Unsupported(t *testing.T) {
	for _, x := range []any{
		struct{}{},
		map[int]string{1: "a"},
		make(chan int),
		[]any{func() {}},
	} {
		if _, err := FromNative(x); !errors.Is(err, ErrBEXL) {
			t.Errorf("FromNative(%T) error = %v, want ErrBEXL", x, err)
		}
	}
}

func TestToNative(t *testing.T) {
	v := RecordVal(map[string]Value{
		"n":    IntegerVal(1),
		"f":    FloatVal(1.5),
		"s":    StringVal("x"),
		"b":    True,
		"null": NullVal(TypeInteger),
		"list": ListVal(testDate),
	})

	got, ok := ToNative(v).(map[string]any)
	if !ok {
		t.Fatalf("ToNative = %T, want map[string]any", ToNative(v))
	}

	if got["n"] != int64(1) || got["f"] != 1.5 || got["s"] != "x" || got["b"] != true {
		t.Errorf("ToNative scalars = %#v", got)
	}

	if got["null"] != nil {
		t.Errorf("ToNative null = %#v, want nil", got["null"])
	}

	list, ok := got["list"].([]any)
	if !ok || len(list) != 1 || !list[0].(time.Time).Equal(testDate.Time()) {
		t.Errorf("ToNative list = %#v", got["list"])
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		text string
		typ  Type
		want string
	}{
		{"12", TypeInteger, "INTEGER(12)"},
		{" -3 ", TypeInteger, "INTEGER(-3)"},
		{"1.5", TypeFloat, "FLOAT(1.5)"},
		{"TRUE", TypeBoolean, "BOOLEAN(True)"},
		{"false", TypeBoolean, "BOOLEAN(False)"},
		{"2024-03-05", TypeDate, "DATE(2024-03-05)"},
		{"12:30:00", TypeTime, "TIME(12:30:00)"},
		{"2024-03-05T12:30", TypeDateTime, "DATETIME(2024-03-05T12:30:00)"},
		{"anything at all", TypeString, `STRING("anything at all")`},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseValue(tt.text, tt.typ)
			if err != nil {
				t.Fatalf("ParseValue(%q, %s) error: %v", tt.text, tt.typ, err)
			}

			if got.String() != tt.want {
				t.Errorf("ParseValue(%q, %s) = %s, want %s", tt.text, tt.typ, got, tt.want)
			}
		})
	}

	for _, bad := range []struct {
		text string
		typ  Type
	}{
		{"1.5", TypeInteger},
		{"", TypeFloat},
		{"yes", TypeBoolean},
		{"2024-13-01", TypeDate},
		{"[1]", TypeList},
	} {
		if _, err := ParseValue(bad.text, bad.typ); !errors.Is(err, ErrConversion) {
			t.Errorf("ParseValue(%q, %s) error = %v, want ErrConversion", bad.text, bad.typ, err)
		}
	}
}

func TestInferValue(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"42", "INTEGER(42)"},
		{"4.2", "FLOAT(4.2)"},
		{"true", "BOOLEAN(True)"},
		{"2020-01-01", "DATE(2020-01-01)"},
		{"10:15", "TIME(10:15:00)"},
		{"2020-01-01T10:15:00", "DATETIME(2020-01-01T10:15:00)"},
		{"hello", `STRING("hello")`},
		{"", `STRING("")`},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := InferValue(tt.text); got.String() != tt.want {
				t.Errorf("InferValue(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestDecodeVariables(t *testing.T) {
	const doc = `
price: 95.5
count: 3
name: widget
tags: [a, b]
since: '2020-01-02'
at: '08:30:00'
owner:
  id: 7
`

	vars, err := DecodeVariables(t.Context(), strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeVariables: %v", err)
	}

	tests := []struct {
		expr string
		want string
	}{
		{"$price * 2", "FLOAT(191)"},
		{"$count + 1", "INTEGER(4)"},
		{"upper($name)", `STRING("WIDGET")`},
		{"length($tags)", "INTEGER(2)"},
		{"year($since)", "INTEGER(2020)"},
		{"hour($at)", "INTEGER(8)"},
		{"$owner.id", "INTEGER(7)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(t.Context(), tt.expr, WithVariables(vars))
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.expr, err)
			}

			if got.String() != tt.want {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestDecodeVariables_Invalid(t *testing.T) {
	_, err := DecodeVariables(t.Context(), strings.NewReader("- not\n- a mapping\n"))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("DecodeVariables(list) error = %v, want ErrReadInput", err)
	}
}

func TestEncodeVariables_RoundTrip(t *testing.T) {
	in := map[string]Value{
		"d": testDate,
		"n": IntegerVal(5),
		"s": StringVal("text"),
	}

	var buf bytes.Buffer
	if err := EncodeVariables(t.Context(), &buf, in); err != nil {
		t.Fatalf("EncodeVariables: %v", err)
	}

	vars, err := DecodeVariables(t.Context(), &buf)
	if err != nil {
		t.Fatalf("DecodeVariables: %v", err)
	}

	r, err := MakeResolver(vars)
	if err != nil {
		t.Fatalf("MakeResolver: %v", err)
	}

	for name, want := range in {
		got, err := r.Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}

		if !Identical(got, want) {
			t.Errorf("%s = %s, want %s", name, got, want)
		}
	}
}

func TestVariableResolver(t *testing.T) {
	r, err := MakeResolver(map[string]any{"b": 2, "a": "x"})
	if err != nil {
		t.Fatalf("MakeResolver: %v", err)
	}

	if got := r.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", got)
	}

	if err := r.Set("c", make(chan int)); !errors.Is(err, ErrBEXL) {
		t.Errorf("Set(chan) error = %v, want ErrBEXL", err)
	}

	if r.Len() != 2 {
		t.Errorf("Len() = %d after failed Set, want 2", r.Len())
	}

	snapshot := r.All()
	r.Remove("a")

	if _, ok := snapshot["a"]; !ok {
		t.Error("All() snapshot changed after Remove")
	}

	if _, err := r.Get("a"); !errors.Is(err, ErrResolver) {
		t.Errorf("Get(a) after Remove error = %v, want ErrResolver", err)
	}

	var nilResolver *VariableResolver
	if _, err := nilResolver.Get("a"); !errors.Is(err, ErrResolver) {
		t.Errorf("nil resolver Get error = %v, want ErrResolver", err)
	}
}
