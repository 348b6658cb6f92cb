package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/bexl/lang"
	"github.com/ardnew/bexl/log"
)

// action is a side effect of a control command that the terminal model
// carries out.
type action int

const (
	actNone action = iota
	actQuit
	actClear
	actEdit
)

// reply is the outcome of a control command.
type reply struct {
	text string
	act  action
}

// session holds the state a REPL evaluates against. It has no terminal
// dependencies.
type session struct {
	ctx    context.Context
	vars   *lang.VariableResolver
	reg    *lang.Registry
	logger log.Logger
	debug  bool
}

func newSession(
	ctx context.Context,
	vars *lang.VariableResolver,
	logger log.Logger,
	debug bool,
) *session {
	if vars == nil {
		vars = lang.NewVariableResolver()
	}

	return &session{
		ctx:    ctx,
		vars:   vars,
		reg:    lang.DefaultRegistry(),
		logger: logger,
		debug:  debug,
	}
}

// eval compiles and evaluates src, returning the plain form of its result.
// In debug mode the tokens, tree and typed result precede it.
func (s *session) eval(src string) (string, error) {
	p, err := lang.Compile(src)
	if err != nil {
		return "", err
	}

	v, err := p.Eval(s.ctx,
		lang.WithResolver(s.vars),
		lang.WithRegistry(s.reg),
		lang.WithLogger(s.logger),
	)
	if err != nil {
		return "", err
	}

	s.logger.TraceContext(s.ctx, "repl eval result",
		slog.String("type", v.Type().String()),
		slog.Bool("null", v.IsNull()),
	)

	if !s.debug {
		return v.PlainString(), nil
	}

	var b strings.Builder
	if err := lang.WriteDebug(&b, p, v); err != nil {
		return "", err
	}

	b.WriteString(v.PlainString())

	return b.String(), nil
}

// commands lists the control commands with their one-letter aliases.
var commands = []struct {
	name, alias, args, help string
}{
	{"help", "h", "[FUNCTION]", "Print this help, or the signatures of FUNCTION"},
	{"vars", "v", "", "List variables and their typed values"},
	{"set", "s", "NAME[:TYPE] [VALUE]", "Assign VALUE (null if omitted) to NAME"},
	{"unset", "u", "NAME...", "Remove variables"},
	{"funcs", "f", "[PATTERN]", "List functions, fuzzy-filtered by PATTERN"},
	{"debug", "d", "[on|off]", "Toggle printing of tokens and syntax tree"},
	{"edit", "e", "", "Edit variables as YAML in $EDITOR"},
	{"clear", "c", "", "Clear screen"},
	{"quit", "q", "", "Exit REPL"},
}

// commandNames returns the full name of every control command.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

// lookupCommand resolves a command name or alias.
func lookupCommand(word string) (string, bool) {
	for _, c := range commands {
		if word == c.name || word == c.alias {
			return c.name, true
		}
	}

	if word == "exit" {
		return "quit", true
	}

	return "", false
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\nCommands (press Esc to toggle mode, or prefix with ':'):\n\n")

	for _, c := range commands {
		usage := strings.TrimSpace(c.name + " " + c.args)
		fmt.Fprintf(&b, "  %-26s %s\n", usage, c.help)
	}

	b.WriteString(`
Usage:
  Type an expression to evaluate it; variables are written $name
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Press Space to accept the current candidate
  Inside a function call the matching signature is shown
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`)

	return b.String()
}

// command runs one control command line.
func (s *session) command(line string) (reply, error) {
	word, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	name, ok := lookupCommand(word)
	if !ok {
		return reply{}, fmt.Errorf("%w: %s (try 'help')", ErrUnknownCommand, word)
	}

	s.logger.TraceContext(s.ctx, "repl command",
		slog.String("command", name),
		slog.String("args", rest),
	)

	switch name {
	case "help":
		if rest == "" {
			return reply{text: helpMessage()}, nil
		}

		return s.signatures(rest)

	case "vars":
		return reply{text: s.listVars()}, nil

	case "set":
		return s.set(rest)

	case "unset":
		return s.unset(rest)

	case "funcs":
		return reply{text: s.listFuncs(rest)}, nil

	case "debug":
		return s.setDebug(rest)

	case "edit":
		return reply{act: actEdit}, nil

	case "clear":
		return reply{act: actClear}, nil

	default:
		return reply{act: actQuit}, nil
	}
}

func (s *session) listVars() string {
	names := s.vars.Names()
	if len(names) == 0 {
		return "(no variables)"
	}

	width := 0
	for _, n := range names {
		width = max(width, len(n)+1)
	}

	var b strings.Builder

	for _, n := range names {
		v, _ := s.vars.Get(n)
		fmt.Fprintf(&b, "  %-*s %s\n", width, "$"+n, v)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (s *session) listFuncs(pattern string) string {
	names := s.reg.Functions.Names()

	if pattern != "" {
		matches := fuzzy.Find(pattern, names)

		names = make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Str
		}
	}

	if len(names) == 0 {
		return "(no functions)"
	}

	return strings.Join(names, " ")
}

// signatures describes every overload of the named function.
func (s *session) signatures(name string) (reply, error) {
	sigs, catchAll, ok := s.reg.Functions.Signatures(name)
	if !ok {
		return reply{}, fmt.Errorf("%w: no function %q", ErrUsage, name)
	}

	var b strings.Builder

	for _, sig := range sigs {
		b.WriteString("  " + name + sig.String() + "\n")
	}

	if catchAll {
		b.WriteString("  " + name + "(...)\n")
	}

	return reply{text: strings.TrimSuffix(b.String(), "\n")}, nil
}

// set parses "NAME[:TYPE] [VALUE]". Without TYPE the value's type is
// inferred; without VALUE the variable is null.
func (s *session) set(args string) (reply, error) {
	spec, text, _ := strings.Cut(args, " ")
	text = strings.TrimSpace(text)

	name, typeName, typed := strings.Cut(spec, ":")
	if !validName(name) {
		return reply{}, fmt.Errorf("%w: %q", ErrInvalidVariable, name)
	}

	var v lang.Value

	switch {
	case typed:
		t, err := lang.ParseType(typeName)
		if err != nil {
			return reply{}, err
		}

		v = lang.NullVal(t)

		if text != "" {
			if v, err = lang.ParseValue(text, t); err != nil {
				return reply{}, err
			}
		}

	case text != "":
		v = lang.InferValue(text)
	}

	if err := s.vars.Set(name, v); err != nil {
		return reply{}, err
	}

	return reply{text: "$" + name + " = " + v.String()}, nil
}

func (s *session) unset(args string) (reply, error) {
	names := strings.Fields(args)
	if len(names) == 0 {
		return reply{}, fmt.Errorf("%w: unset NAME...", ErrUsage)
	}

	for _, n := range names {
		s.vars.Remove(strings.TrimPrefix(n, "$"))
	}

	return reply{}, nil
}

func (s *session) setDebug(arg string) (reply, error) {
	switch strings.ToLower(arg) {
	case "":
		s.debug = !s.debug
	case "on", "true", "1":
		s.debug = true
	case "off", "false", "0":
		s.debug = false
	default:
		return reply{}, fmt.Errorf("%w: debug [on|off]", ErrUsage)
	}

	if s.debug {
		return reply{text: "debug on"}, nil
	}

	return reply{text: "debug off"}, nil
}

// replace sets the variables to exactly vars.
func (s *session) replace(vars map[string]lang.Value) error {
	for _, n := range s.vars.Names() {
		s.vars.Remove(n)
	}

	for n, v := range vars {
		if err := s.vars.Set(n, v); err != nil {
			return err
		}
	}

	return nil
}

// validName reports whether name can follow '$' in an expression.
func validName(name string) bool {
	if name == "" || !isLetter(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return false
		}
	}

	return true
}

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func isIdentByte(c byte) bool { return c == '_' || ('0' <= c && c <= '9') || isLetter(c) }
