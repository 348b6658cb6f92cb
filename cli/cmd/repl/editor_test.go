package repl

import (
	"errors"
	"testing"

	"github.com/ardnew/bexl/lang"
)

func TestDecodeVars(t *testing.T) {
	vars, err := decodeVars(t.Context(), []byte("a: 1\nb: [x, y]\nc: {d: 2.5}\nn: null\n"))
	if err != nil {
		t.Fatalf("decodeVars() error = %v", err)
	}

	want := map[string]lang.Type{
		"a": lang.TypeInteger,
		"b": lang.TypeList,
		"c": lang.TypeRecord,
		"n": lang.TypeUntyped,
	}

	if len(vars) != len(want) {
		t.Fatalf("decoded %d variables, want %d", len(vars), len(want))
	}

	for name, typ := range want {
		if vars[name].Type() != typ {
			t.Errorf("%s: type = %s, want %s", name, vars[name].Type(), typ)
		}
	}

	if !vars["n"].IsNull() {
		t.Errorf("n = %s, want null", vars["n"])
	}
}

func TestDecodeVars_Errors(t *testing.T) {
	if _, err := decodeVars(t.Context(), []byte("1bad: 2\n")); !errors.Is(err, ErrInvalidVariable) {
		t.Errorf("invalid name: error = %v", err)
	}

	if _, err := decodeVars(t.Context(), []byte("a: [1, 2\n")); err == nil {
		t.Error("malformed YAML decoded")
	}
}

func TestEditVarsCommand(t *testing.T) {
	t.Setenv("EDITOR", "true")

	cmd := &editVarsCommand{
		ctx:  t.Context(),
		vars: map[string]lang.Value{"x": lang.IntegerVal(3)},
	}

	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if v := cmd.result["x"]; v.Type() != lang.TypeInteger || v.Int() != 3 {
		t.Errorf("unchanged edit produced %v", cmd.result)
	}
}
