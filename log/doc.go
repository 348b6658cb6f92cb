// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured once, at creation, with functional options.
// The zero Logger discards everything, so components that accept a Logger
// value never need a nil check.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"))
//
//	logger.Debug("evaluated", slog.String("result", "INTEGER(3)"))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's Debug and is
// rendered as "TRACE".
//
// # Output
//
// [FormatText] (the default) writes logfmt-style lines; with [WithPretty]
// enabled, also the default, they are aligned and, on a terminal,
// colorized. [FormatJSON] writes one JSON object per record.
//
// A time layout of "none" removes timestamps from every format.
//
// # Package-level functions
//
// [Trace], [Debug], [Info], [Warn], and [Error] log through a process-wide
// default logger writing to stderr. [Config] reconfigures it and [Default]
// returns it. Context-unaware variants use [DefaultContextProvider].
package log
