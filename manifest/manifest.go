// Package manifest reads and writes the YAML description of a configure run.
//
// A manifest lists the run's steps as single-key maps from a function name
// to its arguments, and an optional script in invocation syntax:
//
//	trusted: [BASH]
//	toolchain_prefix: ""
//	path: [/opt/tools/bin]
//	steps:
//	  - REQUIRE_PROGS: {VAR: CC, PROGS: gcc cc}
//	script: |
//	  LOOKUP_PROGS(VAR: CCACHE, PROGS: ccache)
//
// The steps run first, in order, followed by the script.
package manifest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/toolconf/named"
	"github.com/ardnew/toolconf/pkg"
)

// Manifest describes one configure run.
type Manifest struct {
	// Trusted names variables whose environment values are accepted. Nil
	// keeps the resolver's default.
	Trusted         []string        `yaml:"trusted,omitempty,flow"`
	ToolchainPrefix string          `yaml:"toolchain_prefix,omitempty"`
	Path            []string        `yaml:"path,omitempty,flow"`
	Steps           []yaml.MapSlice `yaml:"steps,omitempty"`
	Script          string          `yaml:"script,omitempty,literal"`
}

// Load decodes a manifest from r.
func Load(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrReadManifest.Wrap(err)
	}

	var m Manifest

	if err := yaml.UnmarshalWithOptions(data, &m, yaml.UseOrderedMap(), yaml.Strict()); err != nil {
		return nil, pkg.ErrReadManifest.Wrap(err)
	}

	return &m, nil
}

// LoadFile decodes the manifest stored at path.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkg.ErrReadManifest.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", path))
	}

	return m, nil
}

// Calls returns the invocations of the manifest: the steps in order,
// followed by the script.
func (m *Manifest) Calls() ([]named.Call, error) {
	calls := make([]named.Call, 0, len(m.Steps))

	for i, step := range m.Steps {
		call, err := stepCall(step)
		if err != nil {
			return nil, pkg.ErrReadManifest.
				With(slog.Int("step", i+1)).
				Wrapf("step %d: %w", i+1, err)
		}

		calls = append(calls, call)
	}

	if strings.TrimSpace(m.Script) == "" {
		return calls, nil
	}

	script, err := named.ParseScript(m.Script)
	if err != nil {
		return nil, pkg.ErrReadManifest.Wrapf("script: %w", err)
	}

	return append(calls, script...), nil
}

func stepCall(step yaml.MapSlice) (named.Call, error) {
	if len(step) != 1 {
		return named.Call{}, fmt.Errorf("expected one function per step, found %d", len(step))
	}

	name, ok := step[0].Key.(string)
	if !ok || name == "" {
		return named.Call{}, fmt.Errorf("invalid function name %v", step[0].Key)
	}

	call := named.Call{Name: name}

	switch args := step[0].Value.(type) {
	case nil:

	case yaml.MapSlice:
		for _, item := range args {
			key, ok := item.Key.(string)
			if !ok {
				return named.Call{}, fmt.Errorf("%s: invalid argument name %v", name, item.Key)
			}

			value, err := stringify(item.Value)
			if err != nil {
				return named.Call{}, fmt.Errorf("%s: argument %s: %w", name, key, err)
			}

			call.Args = append(call.Args, named.Arg{Name: key, Value: value})
		}

	default:
		return named.Call{}, fmt.Errorf("%s: arguments must be a mapping", name)
	}

	return call, nil
}

// stringify renders a scalar argument value. Lists are joined with spaces,
// so they read as word sets.
func stringify(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil

	case string:
		return v, nil

	case []any:
		parts := make([]string, 0, len(v))

		for _, e := range v {
			s, err := stringify(e)
			if err != nil {
				return "", err
			}

			parts = append(parts, s)
		}

		return strings.Join(parts, " "), nil

	case yaml.MapSlice, map[string]any:
		return "", fmt.Errorf("mappings are not valid argument values")

	default:
		return fmt.Sprint(v), nil
	}
}

// Encode writes m as YAML to w.
func (m *Manifest) Encode(ctx context.Context, w io.Writer) error {
	data, err := yaml.MarshalContext(ctx, m, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return pkg.ErrWriteManifest.Wrap(err)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return pkg.ErrWriteManifest.Wrap(err)
	}

	return nil
}

// Step builds a step invoking fn with the given arguments in order.
func Step(fn string, args ...named.Arg) yaml.MapSlice {
	items := make(yaml.MapSlice, 0, len(args))
	for _, a := range args {
		items = append(items, yaml.MapItem{Key: a.Name, Value: a.Value})
	}

	return yaml.MapSlice{{Key: fn, Value: items}}
}

// Default returns the starter manifest written by "toolconf init".
func Default() *Manifest {
	return &Manifest{
		Trusted: []string{"BASH"},
		Steps: []yaml.MapSlice{
			Step("REQUIRE_PROGS",
				named.Arg{Name: "VAR", Value: "SH"},
				named.Arg{Name: "PROGS", Value: "sh"},
			),
			Step("REQUIRE_PROGS",
				named.Arg{Name: "VAR", Value: "MAKE"},
				named.Arg{Name: "PROGS", Value: "gmake make"},
			),
			Step("LOOKUP_TOOLCHAIN_PROGS",
				named.Arg{Name: "VAR", Value: "CC"},
				named.Arg{Name: "PROGS", Value: "gcc clang cc"},
			),
			Step("ARG_ENABLE",
				named.Arg{Name: "NAME", Value: "debug"},
				named.Arg{Name: "DEFAULT", Value: "false"},
				named.Arg{Name: "DESC", Value: "Build with debug symbols"},
			),
		},
		Script: "# Invocations run after the steps above.\n" +
			"LOOKUP_PROGS(VAR: CCACHE, PROGS: ccache)\n",
	}
}
