package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bexl/cli/cmd"
	"github.com/ardnew/bexl/lang"
)

// ErrVariable reports a malformed --var flag or --vars file entry.
var ErrVariable = cmd.NewError("invalid variable")

// varsConfig holds the variables expressions are evaluated with.
type varsConfig struct {
	Var  []string `help:"Set a variable; TYPE is inferred when omitted, VALUE is null when omitted. May be repeated." placeholder:"NAME[:TYPE][=VALUE]" sep:"none" short:"v"`
	Vars string   `help:"Read variables from a YAML or JSON mapping."                                              placeholder:"FILE"                             type:"existingfile"`
}

func (*varsConfig) group() kong.Group {
	return kong.Group{Key: "vars", Title: "Variables"}
}

// resolver returns the variables read from the --vars file overridden by
// each --var flag in order.
func (c *varsConfig) resolver(ctx context.Context) (*lang.VariableResolver, error) {
	r := lang.NewVariableResolver()

	if c.Vars != "" {
		f, err := os.Open(c.Vars)
		if err != nil {
			return nil, ErrVariable.With(slog.String("file", c.Vars)).Wrap(err)
		}
		defer f.Close()

		vars, err := lang.DecodeVariables(ctx, f)
		if err != nil {
			return nil, ErrVariable.With(slog.String("file", c.Vars)).Wrap(err)
		}

		for name, x := range vars {
			if !validName(name) {
				return nil, ErrVariable.With(slog.String("file", c.Vars)).
					Wrap(fmt.Errorf("name %q is not an identifier", name))
			}

			if err := r.Set(name, x); err != nil {
				return nil, ErrVariable.With(slog.String("name", name)).Wrap(err)
			}
		}
	}

	for _, arg := range c.Var {
		name, v, err := parseVar(arg)
		if err != nil {
			return nil, ErrVariable.With(slog.String("flag", arg)).Wrap(err)
		}

		if err := r.Set(name, v); err != nil {
			return nil, ErrVariable.With(slog.String("flag", arg)).Wrap(err)
		}
	}

	return r, nil
}

// parseVar parses NAME[:TYPE][=VALUE]. Without TYPE the type of VALUE is
// inferred; without VALUE the variable is null, of TYPE if given.
func parseVar(arg string) (string, lang.Value, error) {
	spec, text, assigned := strings.Cut(arg, "=")
	name, typeName, typed := strings.Cut(strings.TrimSpace(spec), ":")

	if !validName(name) {
		return "", lang.Value{}, fmt.Errorf("name %q is not an identifier", name)
	}

	if !typed {
		if !assigned {
			return name, lang.Null, nil
		}

		return name, lang.InferValue(text), nil
	}

	t, err := lang.ParseType(typeName)
	if err != nil {
		return "", lang.Value{}, err
	}

	if !assigned {
		return name, lang.NullVal(t), nil
	}

	v, err := lang.ParseValue(text, t)
	if err != nil {
		return "", lang.Value{}, err
	}

	return name, v, nil
}

// validName reports whether name can follow '$' in an expression: a letter
// followed by letters, digits and underscores.
func validName(name string) bool {
	for i, c := range []byte(name) {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && (c == '_' || '0' <= c && c <= '9'):
		default:
			return false
		}
	}

	return name != ""
}
