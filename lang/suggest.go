package lang

import (
	"errors"

	"github.com/sahilm/fuzzy"
)

// suggestionKey is the error attribute holding a "did you mean" candidate.
const suggestionKey = "suggestion"

// suggest returns the candidate that best matches the misspelled name.
func suggest(name string, candidates []string) (string, bool) {
	if name == "" || len(candidates) == 0 {
		return "", false
	}

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return "", false
	}

	return matches[0].Str, true
}

// Suggestion returns the name err proposes as a correction, if any.
func Suggestion(err error) (string, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}

	for _, a := range e.attrs {
		if a.Key == suggestionKey {
			return a.Value.String(), true
		}
	}

	return "", false
}
