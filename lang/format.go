package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format selects how [WriteValue] renders a result.
type Format int

// Result formats.
const (
	FormatPlain Format = iota // canonical text form
	FormatDebug               // typed debug form
	FormatJSON
	FormatYAML
)

var formatNames = [...]string{
	FormatPlain: "plain",
	FormatDebug: "debug",
	FormatJSON:  "json",
	FormatYAML:  "yaml",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

// Formats returns the names of every result format.
func Formats() []string { return formatNames[:] }

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(i), nil
		}
	}

	return FormatPlain, ErrBEXL.Errorf("Unknown output format %q", s)
}

// WriteValue writes v to w in format f followed by a newline. Structured
// formats indent nested values by indent spaces, or render compactly if
// indent is not positive.
func WriteValue(ctx context.Context, w io.Writer, v Value, f Format, indent int) error {
	switch f {
	case FormatPlain:
		_, err := fmt.Fprintln(w, v.PlainString())

		return err

	case FormatDebug:
		_, err := fmt.Fprintln(w, v.String())

		return err

	case FormatJSON:
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(textNative(v), "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(textNative(v))
		}

		if err != nil {
			return ErrBEXL.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case FormatYAML:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err := yaml.MarshalContext(ctx, textNative(v), opts...)
		if err != nil {
			return ErrBEXL.Wrap(err)
		}

		_, err = fmt.Fprint(w, string(data))

		return err
	}

	return ErrBEXL.Errorf("Unknown output format %s", f)
}

// WriteTokens writes the debug form of each token on its own line.
func WriteTokens(w io.Writer, tokens []Token) error {
	for _, t := range tokens {
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}

	return nil
}

// WriteTree writes the indented debug form of a syntax tree.
func WriteTree(w io.Writer, root Node) error {
	_, err := fmt.Fprintln(w, root.Pretty(0))

	return err
}

// WriteDebug writes the tokens and syntax tree of p followed by the debug
// form of its result v, each under a heading and indented by two spaces.
func WriteDebug(w io.Writer, p *Program, v Value) error {
	var b strings.Builder

	b.WriteString("Tokens Found:\n")

	for _, t := range p.Tokens() {
		b.WriteString(t.Pretty(2))
		b.WriteByte('\n')
	}

	b.WriteString("\nAST:\n")
	b.WriteString(p.Root().Pretty(2))
	b.WriteString("\n\nResult:\n  ")
	b.WriteString(v.String())
	b.WriteString("\n\n")

	_, err := io.WriteString(w, b.String())

	return err
}
