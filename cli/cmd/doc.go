// Package cmd implements the bexl subcommands: eval, fmt, repl and init.
//
// Commands read the parsed command line through [WithContext] and the
// variables built from --var and --vars through [WithVariables]. Results go
// to the kong context's stdout and diagnostics to its stderr.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the YAML configuration file written by init.
	ConfigIdentifier = "config"
)
