// Package cli contains the command line interface for bexl.
//
// # Usage
//
// With no command, the arguments are evaluated:
//
//	bexl '1 + 2 * 3'
//	bexl eval -e 'upper($name)' --var name=bexl
//	echo "concat('a', 'b')" | bexl
//
// The fmt command prints the token stream, syntax tree, or a JSON or YAML
// rendering of one expression. The repl command starts an interactive
// shell, and init writes the current global flags to the configuration file.
//
// # Variables
//
//   - --var, -v NAME[:TYPE][=VALUE]: set a variable. The type of VALUE is
//     inferred when TYPE is omitted. Without VALUE the variable is null.
//   - --vars FILE: read variables from a YAML or JSON mapping. --var flags
//     override its entries.
//
// # Configuration
//
// Global flags are read from config.yaml and config.json in the user
// configuration directory (~/.config/bexl on Linux). Keys are flag names
// without the leading dashes, and nested YAML mappings join their keys
// with hyphens:
//
//	log:
//	  level: debug
//	var:
//	  - limit=10
//
// Command-line flags override configuration files.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (text, json)
//   - --log-time-layout: timestamp format (RFC3339, Kitchen, none, ...)
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o bexl .
//
//   - --pprof-mode: enable profiling (cpu, heap, allocs, ...)
//   - --pprof-dir: profile output directory (default ~/.cache/bexl/pprof)
package cli
