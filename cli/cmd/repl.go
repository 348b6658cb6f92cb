package cmd

import (
	"context"

	"github.com/ardnew/bexl/cli/cmd/repl"
	"github.com/ardnew/bexl/log"
)

// Repl starts an interactive shell.
type Repl struct {
	Debug bool `help:"Start with debug output enabled" short:"d"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, variablesFrom(ctx), cacheDir, log.Default(), r.Debug)
}
