package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/bexl/lang"
	"github.com/ardnew/bexl/log"
)

const defaultEditor = "vi"

// editVarsCommand implements [tea.ExecCommand]. It writes the variables as
// YAML to a temporary file, opens $EDITOR on it and decodes the result. On
// a decode error the user may edit again or discard the changes.
type editVarsCommand struct {
	ctx    context.Context
	vars   map[string]lang.Value
	result map[string]lang.Value
	logger log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *editVarsCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editVarsCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editVarsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. result stays nil if the user empties the
// file. Declining to edit again returns [ErrEditDeclined].
func (c *editVarsCommand) Run() error {
	var buf bytes.Buffer
	if err := lang.EncodeVariables(c.ctx, &buf, c.vars); err != nil {
		return fmt.Errorf("encode variables: %w", err)
	}

	f, err := os.CreateTemp("", "bexl-vars-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if content, err = c.runEditor(path); err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		vars, decodeErr := decodeVars(c.ctx, content)

		c.logger.TraceContext(c.ctx, "editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.result = vars

			return nil
		}

		fmt.Fprintf(c.stderr, "\nInvalid variables: %s\n", decodeErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens the user's editor on path and returns the saved content.
func (c *editVarsCommand) runEditor(path string) ([]byte, error) {
	// EDITOR may carry arguments, as in "code --wait".
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	args = append(args, path)

	cmd := exec.CommandContext(c.ctx, args[0], args[1:]...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}

// decodeVars reads a YAML mapping of variables, rejecting names that
// cannot be referenced from an expression.
func decodeVars(ctx context.Context, data []byte) (map[string]lang.Value, error) {
	native, err := lang.DecodeVariables(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	vars := make(map[string]lang.Value, len(native))

	for name, x := range native {
		if !validName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVariable, name)
		}

		if vars[name], err = lang.FromNative(x); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	return vars, nil
}
