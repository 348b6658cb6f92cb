package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/ardnew/bexl/log"
)

// Tag is the build tag that enables profiling. It also names the default
// profile output directory.
const Tag = "pprof"

// ErrMode is returned by [Start] for a mode not listed by [Modes].
var ErrMode = errors.New("unsupported profiling mode")

// Settings selects what a profiling session records and where it writes.
type Settings struct {
	Mode  string // one of [Modes]; empty disables profiling
	Dir   string // output directory; empty uses the working directory
	Quiet bool   // suppress pkg/profile's own start and stop messages
}

// Enabled reports whether the binary was built with the pprof tag.
func Enabled() bool { return len(Modes()) > 0 }

// Start begins the session s describes and returns the function that ends
// it and writes the profile. With an empty mode, or in a binary built
// without the pprof tag, nothing is recorded and stop does nothing.
func Start(ctx context.Context, s Settings) (stop func(), err error) {
	if s.Mode == "" || !Enabled() {
		return func() {}, nil
	}

	if !slices.Contains(Modes(), s.Mode) {
		return nil, fmt.Errorf("%w: %q", ErrMode, s.Mode)
	}

	attrs := []slog.Attr{slog.String("mode", s.Mode), slog.String("dir", s.Dir)}

	log.DebugContext(ctx, "profiling started", attrs...)

	began := time.Now()
	p := start(s)

	return func() {
		p.Stop()
		log.DebugContext(ctx, "profiling stopped",
			append(attrs, slog.Duration("elapsed", time.Since(began)))...,
		)
	}, nil
}

type ignore struct{}

func (ignore) Stop() {}
