package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "upp", 3, "upp", 0, 3},
		{"variable", "$nam", 4, "nam", 1, 4},
		{"property", "$rec.fi", 7, "fi", 5, 7},
		{"after_plus", "1 + ab", 6, "ab", 4, 6},
		{"after_minus", "1-ab", 4, "ab", 2, 4},
		{"after_paren", "max(li", 6, "li", 4, 6},
		{"after_comma", "between(1, $x", 13, "x", 12, 13},
		{"after_bracket", "[1, 2][le", 9, "le", 7, 9},
		{"in_string", "'ab", 3, "ab", 1, 3},
		{"empty_at_boundary", "1 + ", 4, "", 4, 4},
		{"empty_after_dot", "$rec.", 5, "", 5, 5},
		{"mid_word", "upper", 2, "upper", 0, 5},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestMemberPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      []string
	}{
		{"top_level", "up", 0, nil},
		{"after_operator", "1 + up", 4, nil},
		{"variable", "$na", 1, []string{}},
		{"field", "$rec.a", 5, []string{"rec"}},
		{"nested_field", "$rec.a.b", 7, []string{"rec", "a"}},
		{"after_operator_field", "1 + $rec.", 9, []string{"rec"}},
		{"number", "1.5", 2, nil},
		{"call_result", "record('a', 1).", 15, nil},
		{"double_dot", "$rec..", 6, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := memberPath(tt.input, tt.wordStart)
			if (got == nil) != (tt.want == nil) || !slices.Equal(got, tt.want) {
				t.Errorf("memberPath(%q, %d) = %#v, want %#v",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestSession_Candidates(t *testing.T) {
	s := testSession(t, map[string]any{
		"name": "bexl",
		"rec": map[string]any{
			"z": 1,
			"a": map[string]any{"b": true},
		},
	})

	tests := []struct {
		name      string
		mode      inputMode
		input     string
		wordStart int
		contains  []string
		exact     []string
	}{
		{name: "functions", mode: modeEval, input: "up", contains: []string{"upper", "True", "Null"}},
		{name: "variables", mode: modeEval, input: "$n", wordStart: 1, exact: []string{"name", "rec"}},
		{name: "fields", mode: modeEval, input: "$rec.", wordStart: 5, exact: []string{"a", "z"}},
		{name: "nested_fields", mode: modeEval, input: "$rec.a.", wordStart: 7, exact: []string{"b"}},
		{name: "scalar_fields", mode: modeEval, input: "$name.", wordStart: 6, exact: []string{}},
		{name: "missing_variable", mode: modeEval, input: "$nope.", wordStart: 6, exact: []string{}},
		{name: "commands", mode: modeCtrl, input: "se", contains: []string{"set", "unset", "quit"}},
		{name: "prefixed_command", mode: modeCtrl, input: ":se", wordStart: 1, contains: []string{"set"}},
		{name: "unset_args", mode: modeCtrl, input: "unset ", wordStart: 6, exact: []string{"name", "rec"}},
		{name: "help_args", mode: modeCtrl, input: "help up", wordStart: 5, contains: []string{"upper"}},
		{name: "no_args", mode: modeCtrl, input: "clear x", wordStart: 6, exact: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.candidates(tt.mode, tt.input, tt.wordStart)

			if tt.exact != nil && !slices.Equal(got, tt.exact) {
				t.Errorf("candidates = %v, want %v", got, tt.exact)
			}

			for _, c := range tt.contains {
				if !slices.Contains(got, c) {
					t.Errorf("candidates missing %q: %v", c, got)
				}
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	s := testSession(t, nil)
	m := newModel(s, NewHistory(""))

	for name, v := range map[string]any{"alpha": 1, "beta": 2} {
		if err := s.vars.Set(name, v); err != nil {
			t.Fatal(err)
		}
	}

	m.setInput("$")

	if len(m.matches) != 2 {
		t.Fatalf("matches = %v, want every variable", m.matches)
	}

	bar := ansi.ReplaceAllString(renderCandidateBar(m.matches, -1, false, 80, m.isFunction), "")
	if bar != "alpha  beta" {
		t.Errorf("bar = %q", bar)
	}

	narrow := ansi.ReplaceAllString(renderCandidateBar(m.matches, -1, false, 9, m.isFunction), "")
	if narrow != "alpha  ..." {
		t.Errorf("narrow bar = %q", narrow)
	}

	m.setInput("upp")

	bar = ansi.ReplaceAllString(renderCandidateBar(m.matches, -1, false, 200, m.isFunction), "")
	if !slices.Contains(strings.Fields(bar), "upper()") {
		t.Errorf("function candidates lack a call suffix: %q", bar)
	}
}
