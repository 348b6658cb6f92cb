package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/bexl/cli"
	"github.com/ardnew/bexl/cli/cmd"
	"github.com/ardnew/bexl/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// Evaluation errors were already shown with their source.
		if !errors.Is(err, cmd.ErrEvaluate) {
			log.Error("run failed", slog.Any("error", err))
		}

		os.Exit(1)
	}
}
