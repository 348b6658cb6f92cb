package repl

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/bexl/lang"
	"github.com/ardnew/bexl/log"
)

func testSession(t *testing.T, vars map[string]any) *session {
	t.Helper()

	r, err := lang.MakeResolver(vars)
	if err != nil {
		t.Fatal(err)
	}

	return newSession(t.Context(), r, log.Logger{}, false)
}

func TestSession_Eval(t *testing.T) {
	s := testSession(t, map[string]any{"n": 20})

	got, err := s.eval("$n * 2 + 2")
	if err != nil {
		t.Fatalf("eval() error = %v", err)
	}

	if got != "42" {
		t.Errorf("eval() = %q, want %q", got, "42")
	}

	if _, err := s.eval("1 +"); err == nil {
		t.Error("eval(\"1 +\") succeeded")
	}

	if _, err := s.eval("$missing"); err == nil {
		t.Error("eval($missing) succeeded")
	}
}

func TestSession_EvalDebug(t *testing.T) {
	s := testSession(t, nil)
	s.debug = true

	got, err := s.eval("1 + 2")
	if err != nil {
		t.Fatalf("eval() error = %v", err)
	}

	for _, want := range []string{"Tokens Found:", "AST:", "INTEGER(3)"} {
		if !strings.Contains(got, want) {
			t.Errorf("eval() missing %q:\n%s", want, got)
		}
	}

	if !strings.HasSuffix(got, "\n\n3") {
		t.Errorf("eval() does not end with the plain result: %q", got)
	}
}

func TestSession_Command(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    string // substring of the reply text
		act     action
		wantErr error
	}{
		{name: "help", line: "help", want: "set NAME[:TYPE] [VALUE]"},
		{name: "help alias", line: "h", want: "Commands"},
		{name: "help function", line: "help upper", want: "upper(STRING)"},
		{name: "help unknown function", line: "help nosuch", wantErr: ErrUsage},
		{name: "funcs", line: "funcs uppe", want: "upper"},
		{name: "empty vars", line: "vars", want: "(no variables)"},
		{name: "quit", line: "quit", act: actQuit},
		{name: "exit", line: "exit", act: actQuit},
		{name: "edit", line: "e", act: actEdit},
		{name: "clear", line: "clear", act: actClear},
		{name: "unknown", line: "bogus", wantErr: ErrUnknownCommand},
		{name: "unset without names", line: "unset", wantErr: ErrUsage},
		{name: "bad debug", line: "debug maybe", wantErr: ErrUsage},
		{name: "bad name", line: "set 1x 3", wantErr: ErrInvalidVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSession(t, nil)

			rep, err := s.command(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("command(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("command(%q) error = %v", tt.line, err)
			}

			if rep.act != tt.act {
				t.Errorf("command(%q) action = %d, want %d", tt.line, rep.act, tt.act)
			}

			if !strings.Contains(rep.text, tt.want) {
				t.Errorf("command(%q) = %q, want it to contain %q", tt.line, rep.text, tt.want)
			}
		})
	}
}

func TestSession_SetUnset(t *testing.T) {
	s := testSession(t, nil)

	steps := []struct {
		line string
		name string
		typ  lang.Type
		null bool
	}{
		{"set x 42", "x", lang.TypeInteger, false},
		{"set f 2.5", "f", lang.TypeFloat, false},
		{"set s hello world", "s", lang.TypeString, false},
		{"set n:integer", "n", lang.TypeInteger, true},
		{"set z", "z", lang.TypeUntyped, true},
		{"set b:boolean TRUE", "b", lang.TypeBoolean, false},
		{"set t:string 12", "t", lang.TypeString, false},
	}

	for _, st := range steps {
		if _, err := s.command(st.line); err != nil {
			t.Fatalf("command(%q) error = %v", st.line, err)
		}

		v, err := s.vars.Get(st.name)
		if err != nil {
			t.Fatalf("%q: variable %s not set", st.line, st.name)
		}

		if v.Type() != st.typ || v.IsNull() != st.null {
			t.Errorf("%q: $%s = %s", st.line, st.name, v)
		}
	}

	if v, _ := s.vars.Get("s"); v.Text() != "hello world" {
		t.Errorf("$s = %q", v.Text())
	}

	if _, err := s.command("set x:integer abc"); err == nil {
		t.Error("set with an unparsable value succeeded")
	}

	if _, err := s.command("set x:widget 1"); err == nil {
		t.Error("set with an unknown type succeeded")
	}

	rep, err := s.command("vars")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(rep.text, "$x") || !strings.Contains(rep.text, "INTEGER(42)") {
		t.Errorf("vars = %q", rep.text)
	}

	if _, err := s.command("unset x $f"); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"x", "f"} {
		if _, err := s.vars.Get(name); err == nil {
			t.Errorf("$%s still set after unset", name)
		}
	}
}

func TestSession_Debug(t *testing.T) {
	s := testSession(t, nil)

	for _, step := range []struct {
		line string
		want bool
	}{
		{"debug", true},
		{"debug", false},
		{"debug on", true},
		{"d off", false},
	} {
		if _, err := s.command(step.line); err != nil {
			t.Fatal(err)
		}

		if s.debug != step.want {
			t.Errorf("after %q debug = %v", step.line, s.debug)
		}
	}
}

func TestSession_Replace(t *testing.T) {
	s := testSession(t, map[string]any{"old": 1})

	err := s.replace(map[string]lang.Value{"new": lang.StringVal("x")})
	if err != nil {
		t.Fatal(err)
	}

	if names := s.vars.Names(); len(names) != 1 || names[0] != "new" {
		t.Errorf("names = %v, want [new]", names)
	}
}

func TestValidName(t *testing.T) {
	for name, want := range map[string]bool{
		"a": true, "a_1": true, "Abc9": true,
		"": false, "1a": false, "_a": false, "a-b": false, "a.b": false,
	} {
		if got := validName(name); got != want {
			t.Errorf("validName(%q) = %v, want %v", name, got, want)
		}
	}
}
