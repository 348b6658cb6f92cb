package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Error kinds. Every error produced by this package matches [ErrBEXL] and
// exactly one of the leaf kinds with [errors.Is]. Use [errors.As] with an
// *Error target to recover position information.
var (
	ErrBEXL = NewError("bexl error")

	ErrLexer       = ErrBEXL.Kind("lexer error")
	ErrParser      = ErrBEXL.Kind("parser error")
	ErrInterpreter = ErrBEXL.Kind("interpreter error")

	ErrResolver   = ErrInterpreter.Kind("resolver error")
	ErrDispatch   = ErrInterpreter.Kind("dispatch error")
	ErrExecution  = ErrInterpreter.Kind("execution error")
	ErrConversion = ErrInterpreter.Kind("conversion error")

	ErrRegistrySealed = ErrBEXL.Kind("registry is sealed")
	ErrReadInput      = ErrBEXL.Kind("failed to read input")
)

// Error represents an error with optional structured logging attributes and
// source position. It implements both error and slog.LogValuer interfaces.
type Error struct {
	err    error // Wrapped error (for errors.Unwrap)
	parent *Error
	node   Node
	token  *Token
	msg    string
	attrs  []slog.Attr // Attributes for structured logging
	line   int
	column int
	kind   bool // true for sentinel kinds
	lexed  bool // line/column set by the lexer
}

// NewError creates a new root error kind with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg, kind: true}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Kind derives a new error kind from e.
func (e *Error) Kind(msg string) *Error {
	return &Error{msg: msg, parent: e, kind: true}
}

// Errorf creates an error of kind e with a formatted message.
func (e *Error) Errorf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...), parent: e.class()}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is one of the kinds e descends from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.kind {
		return false
	}

	for k := e; k != nil; k = k.parent {
		if k == t {
			return true
		}
	}

	return false
}

// class returns the kind e belongs to.
func (e *Error) class() *Error {
	if e.kind {
		return e
	}

	return e.parent
}

// Class returns the name of the kind e belongs to.
func (e *Error) Class() string {
	if c := e.class(); c != nil {
		return c.msg
	}

	return ""
}

// Message returns the error message without any wrapped cause.
func (e *Error) Message() string { return e.msg }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if c := e.class(); c != nil && c != e {
		attrs = append(attrs, slog.String("kind", c.msg))
	}

	if line, col, _, ok := e.span(); ok {
		attrs = append(attrs, slog.Int("line", line), slog.Int("column", col))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	w := e.clone()
	if e.kind {
		w.parent, w.kind = e, false
	}

	w.err = err

	return w
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	w := e.clone()
	if e.kind {
		w.parent, w.kind = e, false
	}

	w.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(w.attrs, e.attrs)
	copy(w.attrs[len(e.attrs):], attrs)

	return w
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Line returns the 0-based source line of the error, if known.
func (e *Error) Line() (int, bool) {
	line, _, _, ok := e.span()

	return line, ok
}

// Column returns the 0-based source column of the error, if known.
func (e *Error) Column() (int, bool) {
	_, col, _, ok := e.span()

	return col, ok
}

// Token returns the token a parser error was raised on.
func (e *Error) Token() (Token, bool) {
	if e.token == nil {
		return Token{}, false
	}

	return *e.token, true
}

// Node returns the syntax node an interpreter error was raised on.
func (e *Error) Node() Node { return e.node }

// span returns the line, the first column and the column following the
// source region the error refers to.
func (e *Error) span() (line, start, end int, ok bool) {
	switch {
	case e.lexed:
		return e.line, e.column, e.column + 1, true

	case e.token != nil:
		return e.token.Line, e.token.Column, e.token.End(), true

	case e.node != nil:
		first, last := e.node.Start(), e.node.End()
		end = last.End()

		if last.Line != first.Line {
			end = -1 // through end of line
		}

		return first.Line, first.Column, end, true
	}

	return 0, 0, 0, false
}

func lexerError(line, column int, format string, args ...any) *Error {
	e := ErrLexer.Errorf(format, args...)
	e.line, e.column, e.lexed = line, column, true

	return e
}

func parserError(tok Token, format string, args ...any) *Error {
	e := ErrParser.Errorf(format, args...)
	e.token = &tok

	return e
}

// conversionError reports that v cannot be cast to t.
func conversionError(v Value, t Type) *Error {
	return ErrConversion.Errorf("Cannot convert %q to %s", v.raw(), t).
		With(slog.String("from", v.Type().String()), slog.String("to", t.String()))
}

// annotate attaches n to err unless a deeper node already claimed it.
// Errors that are not from this package are reported as execution errors.
func annotate(err error, n Node) error {
	if err == nil || n == nil {
		return err
	}

	var e *Error
	if !errors.As(err, &e) {
		w := ErrExecution.Wrap(err)
		w.node = n

		return w
	}

	if e.node != nil || e.token != nil || e.lexed {
		return err
	}

	if top, ok := err.(*Error); ok && top == e {
		c := e.clone()
		c.node = n

		return c
	}

	// e is buried under a foreign wrapper and may be shared, so the node
	// goes on a new error of the same kind around the whole chain.
	return &Error{parent: e.class(), err: err, node: n}
}

// FormatError renders err with the offending region of source underlined.
// Errors without position information render as their message alone.
// A "did you mean" hint follows when err carries a suggestion.
func FormatError(source string, err error) string {
	if err == nil {
		return ""
	}

	out := underline(source, err)

	if s, ok := Suggestion(err); ok {
		out += "hint: did you mean " + strconv.Quote(s) + "?\n"
	}

	return out
}

func underline(source string, err error) string {
	var buf strings.Builder

	buf.WriteString("error: ")
	buf.WriteString(err.Error())
	buf.WriteRune('\n')

	var e *Error
	if !errors.As(err, &e) {
		return buf.String()
	}

	line, start, end, ok := e.span()
	lines := strings.Split(source, "\n")

	if !ok || line < 0 || line >= len(lines) {
		return buf.String()
	}

	text := lines[line]
	if end < 0 || end > len(text) {
		end = len(text)
	}

	width := max(end-start, 1)

	// Print the line with its 1-based line number
	num := strconv.Itoa(line + 1)

	buf.WriteString("  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(text)
	buf.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	buf.WriteString(strings.Repeat(" ", len(num)+5+start))
	buf.WriteString(strings.Repeat("^", width))
	buf.WriteRune('\n')

	return buf.String()
}
