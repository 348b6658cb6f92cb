package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/bexl/log"
)

// resolveYAML returns a [kong.ConfigurationLoader] for YAML config files.
//
// Nested mappings name flags by their path joined with hyphens, so both of
// these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// config file values. A malformed file is logged and ignored.
func resolveYAML(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		data, err := io.ReadAll(r)
		if err == nil {
			err = yaml.UnmarshalContext(ctx, data, &doc)
		}

		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		conf := make(config)
		conf.flatten("", doc)

		return conf, nil
	}
}

// config implements [kong.Resolver] over a flattened configuration file.
type config map[string]any

// flatten adds the leaves of m to c, keyed by their hyphen-joined paths.
func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(prefix+k, "_", "-")

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key+"-", sub)

			continue
		}

		c[key] = flagText(v)
	}
}

// flagText converts a decoded YAML value to a form kong maps onto flags.
// Kong parses numbers from strings.
func flagText(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			if _, ok := e.(bool); ok {
				out[i] = e
			} else {
				out[i] = fmt.Sprint(flagText(e))
			}
		}

		return out
	}

	return v
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
