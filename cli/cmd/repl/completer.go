package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/bexl/lang"
)

// keywords complete alongside function names.
var keywords = []string{"True", "False", "Null"}

// isWordBoundary reports whether r ends a completion word: whitespace,
// punctuation and the BEXL operator characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '$', '\'',
		'(', ')', '[', ']', ',', ':',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!', '&', '|':
		return true
	}

	return false
}

// wordBounds returns the word under cursor and its byte offsets in input.
// The word is empty when cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// memberPath returns the variable name and property names of the
// "$name.a.b." chain ending right before wordStart. It returns nil unless
// the word is preceded by '$' or by a property access on a variable.
func memberPath(input string, wordStart int) []string {
	if wordStart == 0 {
		return nil
	}

	switch input[wordStart-1] {
	case '$':
		return []string{}

	case '.':
	default:
		return nil
	}

	pos := wordStart - 1
	for pos > 0 && (isIdentByte(input[pos-1]) || input[pos-1] == '.') {
		pos--
	}

	if pos == 0 || input[pos-1] != '$' {
		return nil
	}

	path := strings.Split(input[pos:wordStart-1], ".")
	if slices.Contains(path, "") {
		return nil
	}

	return path
}

// candidates returns the completions valid for the word starting at
// wordStart in input.
func (s *session) candidates(mode inputMode, input string, wordStart int) []string {
	if mode == modeCtrl {
		return s.ctrlCandidates(input, wordStart)
	}

	path := memberPath(input, wordStart)

	switch {
	case path == nil:
		return append(s.reg.Functions.Names(), keywords...)

	case len(path) == 0:
		return s.vars.Names()

	default:
		return s.fieldNames(path)
	}
}

// ctrlCandidates completes command names in the first word and variable or
// function names in the arguments of commands taking them.
func (s *session) ctrlCandidates(input string, wordStart int) []string {
	head := strings.TrimLeft(input[:wordStart], " :")
	if head == "" {
		return commandNames()
	}

	word, _, _ := strings.Cut(head, " ")

	switch name, _ := lookupCommand(word); name {
	case "set", "unset":
		return s.vars.Names()
	case "help":
		return s.reg.Functions.Names()
	}

	return nil
}

// fieldNames resolves $path[0].path[1]... and returns the sorted field
// names of the record found there.
func (s *session) fieldNames(path []string) []string {
	v, err := s.vars.Get(path[0])
	if err != nil {
		return nil
	}

	for _, name := range path[1:] {
		var ok bool
		if v, ok = v.Field(name); !ok {
			return nil
		}
	}

	if v.Type() != lang.TypeRecord || v.IsNull() {
		return nil
	}

	names := make([]string, 0, v.Len())
	for k := range v.Record() {
		names = append(names, k)
	}

	slices.Sort(names)

	return names
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// word only lists candidates after '$' or '.', so the input hint stays
// visible at the top level.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	candidates = m.sess.candidates(m.mode, input, wordStart)

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if m.mode == modeCtrl || memberPath(input, wordStart) == nil {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar renders matches on one line, truncated with an
// ellipsis to fit width. The selected candidate is highlighted while
// tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	reserve := sepWidth + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += sepWidth
		}

		// Room for an ellipsis is kept unless this is the last candidate.
		limit := width
		if i < len(matches)-1 {
			limit -= reserve
		}

		if i > 0 && used+w > limit {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// emphasized. Functions get a "()" suffix that is not inserted on
// completion.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	base, emphasis := suggestionStyle, matchStyle
	if selected {
		base, emphasis = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(emphasis.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
