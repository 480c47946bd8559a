package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/manifest"
	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/profile"
)

// Init writes a starter manifest, or with --config the CLI configuration
// file populated from the current flag values.
type Init struct {
	Force  bool `help:"Overwrite an existing file."                         short:"f"`
	Config bool `help:"Write the CLI configuration file instead of a manifest."`

	Path string `arg:"" default:"${manifest}" help:"Manifest file to create." optional:"" type:"path"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path, fail := i.Path, pkg.ErrWriteManifest
	if i.Config {
		path, fail = kongVar(ctx, ConfigIdentifier, pkg.ConfigPath(pkg.ConfigFile)), pkg.ErrWriteConfig
	}

	if path == "" {
		path = pkg.ManifestFile
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		flags |= os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, 0o644) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			err = pkg.ErrFileExists
		}

		return fail.With(slog.String("file", path)).Wrap(err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fail.With(slog.String("file", path)).Wrap(cerr)
		}
	}()

	if i.Config {
		var data []byte

		data, err = yaml.MarshalContext(ctx, i.flagValues(ctx), yaml.Indent(2))
		if err == nil {
			_, err = file.Write(data)
		}
	} else {
		err = manifest.Default().Encode(ctx, file)
	}

	if err != nil {
		return fail.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized file", slog.String("path", path))

	return nil
}

// flagValues collects the set top-level flags keyed by flag name with
// underscores, in model order. Help and profiling flags are skipped.
func (i *Init) flagValues(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || flag.Name == "help" || strings.HasPrefix(flag.Name, profile.Tag) {
			continue
		}

		if val, ok := flagValue(ktx, flag); ok {
			out = append(out, yaml.MapItem{
				Key:   strings.ReplaceAll(flag.Name, "-", "_"),
				Value: val,
			})
		}
	}

	return out
}

func flagValue(ktx *kong.Context, flag *kong.Flag) (any, bool) {
	v := reflect.ValueOf(ktx.FlagValue(flag))

	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), true
	case reflect.String:
		return v.String(), v.String() != ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Slice:
		return v.Interface(), v.Len() > 0
	default:
		return nil, false
	}
}
