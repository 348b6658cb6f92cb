package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bexl/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type variablesKey struct{}

// WithVariables returns a new context.Context carrying the variables that
// commands evaluate expressions with.
func WithVariables(
	ctx context.Context,
	vars *lang.VariableResolver,
) context.Context {
	return context.WithValue(ctx, variablesKey{}, vars)
}

// variablesFrom returns the variables stored by [WithVariables], or an empty
// resolver.
func variablesFrom(ctx context.Context) *lang.VariableResolver {
	if vars, ok := ctx.Value(variablesKey{}).(*lang.VariableResolver); ok && vars != nil {
		return vars
	}

	return lang.NewVariableResolver()
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the writer commands print diagnostics to.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// source is one opened input.
type source struct {
	io.ReadCloser

	name string
}

// input is the text of one expression and where it came from.
type input struct {
	name string
	text string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSources opens each path once. Paths naming the same file through
// symlinks, relative paths or /dev/stdin are opened only for their first
// occurrence. All occurrences of "-" collapse into one stdin source placed
// last, so it is read after every regular file.
func openSources(paths []string) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(srcs)
			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{})

	var (
		stdinKey fileKey
		stdinOK  bool
	)

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, stdinOK = makeFileKey(info)
	}

	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(path, seen)
		if err != nil {
			return srcs, ErrReadSource.With(slog.String("source", path)).Wrap(err)
		}

		if file == nil {
			continue
		}

		if stdinOK && key == stdinKey {
			hasStdin = true

			_ = file.Close()

			continue
		}

		srcs = append(srcs, source{ReadCloser: file, name: path})
	}

	if hasStdin {
		srcs = append(srcs, source{ReadCloser: io.NopCloser(os.Stdin), name: stdinSource})
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, s := range srcs {
		_ = s.Close()
	}
}

// openUniqueFile opens the file at path if it hasn't been seen before. It
// returns a nil file for duplicates.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// readInputs collects the expressions given inline followed by those read
// from paths. With neither, the expression is read from stdin.
func readInputs(
	ctx context.Context,
	exprs []string,
	paths []string,
) ([]input, error) {
	inputs := make([]input, 0, len(exprs)+len(paths))

	for _, x := range exprs {
		inputs = append(inputs, input{name: "expr", text: x})
	}

	if len(exprs) == 0 && len(paths) == 0 {
		paths = []string{stdinSource}
	}

	srcs, err := openSources(paths)
	if err != nil {
		return nil, err
	}

	defer closeSources(srcs)

	for _, s := range srcs {
		text, err := lang.ReadSource(ctx, s)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("source", s.name)).Wrap(err)
		}

		inputs = append(inputs, input{name: s.name, text: text})
	}

	return inputs, nil
}
