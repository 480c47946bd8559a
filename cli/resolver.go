package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/pkg"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys name flags with either hyphens or underscores. Nested mappings are
// flattened by joining keys, so the following are equivalent:
//
//	log_level: debug
//
//	log:
//	  level: debug
//
// Command-line flags override configuration values. A file that does not
// decode to a mapping is reported and otherwise ignored.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring configuration file",
				slog.Any("error", pkg.ErrReadConfig.Wrap(err)))
		}

		return config{}, nil
	}

	cfg := make(config, len(doc))
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML mapping keyed by
// flag name with underscores.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		name := normalize(key)
		if prefix != "" {
			name = prefix + "_" + name
		}

		if sub, ok := val.(map[string]any); ok {
			c.flatten(name, sub)

			continue
		}

		c[name] = scalar(val)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if val, ok := c[normalize(flag.Name)]; ok {
		return val, nil
	}

	return nil, nil //nolint:nilnil
}

func normalize(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), "-", "_")
}

// scalar converts decoded numbers to strings, which kong parses itself.
// Sequences become comma-separated lists.
func scalar(val any) any {
	switch v := val.(type) {
	case int, int64, uint64, float64:
		return fmt.Sprint(v)
	case []any:
		part := make([]string, len(v))
		for i, e := range v {
			part[i] = fmt.Sprint(e)
		}

		return strings.Join(part, ",")
	default:
		return v
	}
}
