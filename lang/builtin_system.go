package lang

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/mung"
)

// The functions in this file read the host environment. Unlike the rest of
// the library their results depend on the process that evaluates them.

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

// platform returns the host target using Go naming conventions, honoring
// the GOHOSTOS/GOOS and GOHOSTARCH/GOARCH overrides.
func platform() target {
	lookup := func(fallback string, keys ...string) string {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok {
				return v
			}
		}

		return fallback
	}

	return target{
		OS:   lookup(runtime.GOOS, "GOHOSTOS", "GOOS"),
		Arch: lookup(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
}

// triple returns the host target using GNU GCC/LLVM naming conventions.
func triple() target {
	t := platform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

func (t target) value() Value {
	return RecordVal(map[string]Value{
		"os":   StringVal(t.OS),
		"arch": StringVal(t.Arch),
	})
}

// shell returns $SHELL, or the login shell of the current user.
func shell() string {
	if sh, ok := os.LookupEnv("SHELL"); ok {
		return sh
	}

	u, err := user.Current()
	if err != nil || u.Username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == u.Username {
			return e[6]
		}
	}

	return ""
}

func absPath(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

// pathList splits the path list held by the environment variable subject
// after prepending items. Items already present move to the front instead
// of repeating.
func pathList(subject string, items ...string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(subject)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()

	if joined == "" {
		return nil
	}

	return strings.Split(joined, string(os.PathListSeparator))
}

// stringArgs checks that every argument from index from on is a non-null
// STRING and returns their payloads.
func stringArgs(name string, args []Value, from int) ([]string, error) {
	out := make([]string, 0, len(args))

	for i := from; i < len(args); i++ {
		a := args[i]
		if a.typ != TypeString || a.IsNull() {
			return nil, ErrDispatch.Errorf("%q requires STRING arguments, not %s", name, a.typ)
		}

		out = append(out, a.s)
	}

	return out, nil
}

// stringList wraps strs as a LIST of STRINGs.
func stringList(strs []string) Value {
	elems := make([]Value, len(strs))
	for i, s := range strs {
		elems[i] = StringVal(s)
	}

	return ListVal(elems...)
}

// pathTest lifts a predicate on file info to a BOOLEAN function of a path.
func pathTest(test func(path string) bool) Func {
	return func(args ...Value) (Value, error) {
		if args[0].IsNull() {
			return False, nil
		}

		return BooleanVal(test(args[0].s)), nil
	}
}

// text lifts a nullary string source to a function returning STRING, or
// the STRING null when the source is empty.
func text(src func() string) Func {
	return func(...Value) (Value, error) {
		if s := src(); s != "" {
			return StringVal(s), nil
		}

		return NullVal(TypeString), nil
	}
}

func installSystem(r *Registry) error {
	f := registrar{d: r.Functions}

	f.add("env", func(args ...Value) (Value, error) {
		if args[0].IsNull() {
			return Null, nil
		}

		if v, ok := os.LookupEnv(args[0].s); ok {
			return StringVal(v), nil
		}

		return Null, nil
	}, Sig(TypeString))

	f.add("pathList", func(args ...Value) (Value, error) {
		strs, err := stringArgs("pathList", args, 0)
		if err != nil {
			return Value{}, err
		}

		if len(strs) == 0 {
			return Value{}, ErrDispatch.Errorf("%q cannot be invoked without arguments", "pathList")
		}

		return stringList(pathList(strs[0], strs[1:]...)), nil
	})

	f.add("pathJoin", func(args ...Value) (Value, error) {
		strs, err := stringArgs("pathJoin", args, 0)
		if err != nil {
			return Value{}, err
		}

		return StringVal(filepath.Join(strs...)), nil
	})

	f.add("pathAbs", func(args ...Value) (Value, error) {
		if args[0].IsNull() {
			return args[0], nil
		}

		return StringVal(absPath(args[0].s)), nil
	}, Sig(TypeString))

	f.add("pathRel", func(args ...Value) (Value, error) {
		from, to := args[0], args[1]
		if from.IsNull() || to.IsNull() {
			return NullVal(TypeString), nil
		}

		p, err := filepath.Rel(absPath(from.s), absPath(to.s))
		if err != nil {
			return StringVal(filepath.Join(from.s, to.s)), nil
		}

		return StringVal(p), nil
	}, Sig(TypeString, TypeString))

	f.add("fileExists", pathTest(func(p string) bool {
		_, err := os.Stat(p)

		return !os.IsNotExist(err)
	}), Sig(TypeString))

	f.add("isDir", pathTest(func(p string) bool {
		info, err := os.Stat(p)

		return err == nil && info.IsDir()
	}), Sig(TypeString))

	f.add("isRegular", pathTest(func(p string) bool {
		info, err := os.Stat(p)

		return err == nil && info.Mode().IsRegular()
	}), Sig(TypeString))

	f.add("isSymlink", pathTest(func(p string) bool {
		info, err := os.Lstat(p)

		return err == nil && info.Mode()&os.ModeSymlink != 0
	}), Sig(TypeString))

	f.add("hostname", text(func() string {
		h, _ := os.Hostname()

		return h
	}))

	f.add("cwd", text(func() string {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}

		return absPath(".")
	}))

	f.add("username", text(func() string {
		if u, err := user.Current(); err == nil {
			return u.Username
		}

		return ""
	}))

	f.add("shell", text(shell))
	f.add("platform", func(...Value) (Value, error) { return platform().value(), nil })
	f.add("target", func(...Value) (Value, error) { return triple().value(), nil })

	return f.err()
}
