package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bexl/cli/cmd"
	"github.com/ardnew/bexl/log"
	"github.com/ardnew/bexl/pkg"
)

// Base names of the configuration files in the configuration directory.
const (
	configYAML = "config.yaml"
	configJSON = "config.json"
)

// CLI is the top-level command-line interface for bexl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Vars  varsConfig  `embed:"" group:"vars"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate expressions"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Print tokens, syntax tree or structured result"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive shell"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the bexl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: pkg.ConfigPath(configYAML),
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that messages logged while parsing use
	// them regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Vars.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath(configJSON)),
		kong.Configuration(resolveYAML(ctx), pkg.ConfigPath(configYAML)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout which doesn't use TextUnmarshaler.
	cli.Log.start(ctx)

	variables, err := cli.Vars.resolver(ctx)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "variables loaded",
		slog.Int("count", variables.Len()),
		slog.String("file", cli.Vars.Vars),
	)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithVariables(ctx, variables)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
