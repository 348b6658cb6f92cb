package repl

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/bexl/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost call whose argument list contains the
// cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// frame is an open bracket seen while scanning. Grouping parentheses and
// list brackets have an empty name.
type frame struct {
	name string
	args int
}

// detectFunctionCall scans input up to cursor and returns the innermost
// unclosed function call. Brackets and commas inside string literals are
// ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	var (
		stack   []frame
		inQuote bool
	)

	for i := 0; i < cursor; i++ {
		c := input[i]

		if inQuote {
			switch c {
			case '\\':
				i++
			case '\'':
				inQuote = false
			}

			continue
		}

		switch c {
		case '\'':
			inQuote = true

		case '(':
			stack = append(stack, frame{name: calleeBefore(input, i)})

		case '[':
			stack = append(stack, frame{})

		case ')', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}
	}

	// Groups and lists nested in an argument belong to the enclosing call.
	for i := len(stack) - 1; i >= 0; i-- {
		if f := stack[i]; f.name != "" {
			return functionCall{name: f.name, argIndex: f.args, inCall: true}
		}
	}

	return functionCall{}
}

// calleeBefore returns the function name ending at input[open], or "" if
// the parenthesis opens a group. Names following '$' or '.' are variables
// and properties, which cannot be called.
func calleeBefore(input string, open int) string {
	end := open
	for end > 0 && input[end-1] == ' ' {
		end--
	}

	start := end
	for start > 0 && isIdentByte(input[start-1]) {
		start--
	}

	if start == end || !isLetter(input[start]) {
		return ""
	}

	if start > 0 && (input[start-1] == '$' || input[start-1] == '.') {
		return ""
	}

	return input[start:end]
}

// signatureHint renders the overload of call's function best matching the
// current argument with that argument highlighted. It returns "" for
// unknown functions.
func signatureHint(reg *lang.Registry, call functionCall) string {
	sigs, catchAll, ok := reg.Functions.Signatures(call.name)
	if !ok {
		return ""
	}

	if len(sigs) == 0 {
		if !catchAll {
			return ""
		}

		return renderSignatureHint(call.name, []string{"..."}, call.argIndex)
	}

	best, others := 0, len(sigs)-1

	for i, sig := range sigs {
		if len(sig) > call.argIndex {
			best = i

			break
		}
	}

	params := make([]string, len(sigs[best]))
	for i, t := range sigs[best] {
		params[i] = t.String()
	}

	hint := renderSignatureHint(call.name, params, call.argIndex)

	if others > 0 {
		hint += signatureStyle.Render("  +" + strconv.Itoa(others) + " more")
	}

	return hint
}

// renderSignatureHint renders name(params...) with the parameter at
// current highlighted. A "..." parameter matches every index from its own.
func renderSignatureHint(name string, params []string, current int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == current || (param == "..." && current >= i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
