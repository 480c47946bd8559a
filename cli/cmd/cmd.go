package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/toolconf/configure"
	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/manifest"
	"github.com/ardnew/toolconf/named"
	"github.com/ardnew/toolconf/option"
	"github.com/ardnew/toolconf/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the standard output of the kong application in ctx.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// kongVar returns the kong variable name, or def when ctx carries no kong
// context or the variable is undefined.
func kongVar(ctx context.Context, name, def string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return def
	}

	if val, ok := ktx.Model.Vars()[name]; ok {
		return val
	}

	return def
}

// Report holds the flags shared by the commands that run the engine.
type Report struct {
	Format string `default:"text" enum:"${reportFormatEnum}" help:"Report format (${enum})." short:"F"`
	Output string `help:"Write the report to FILE instead of stdout." placeholder:"FILE" short:"o" type:"path"`
}

// write renders r to the configured output.
func (f Report) write(ctx context.Context, r *configure.Report) (err error) {
	format, err := configure.ParseFormat(f.Format)
	if err != nil {
		return err
	}

	if f.Output == "" || f.Output == "-" {
		return r.Write(ctx, stdout(ctx), format)
	}

	file, err := os.Create(f.Output)
	if err != nil {
		return pkg.ErrWriteReport.
			With(slog.String("file", f.Output)).
			Wrap(err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = pkg.ErrWriteReport.
				With(slog.String("file", f.Output)).
				Wrap(cerr)
		}
	}()

	return r.Write(ctx, file, format)
}

// run parses args as a configure-style command line, runs calls through a
// new engine configured by m, and writes the report.
func run(
	ctx context.Context,
	m *manifest.Manifest,
	calls []named.Call,
	args []string,
	out Report,
) error {
	if _, err := configure.ParseFormat(out.Format); err != nil {
		return err
	}

	logger := log.Default()

	cl, err := option.Parse(args, option.WithLogger(logger))
	if err != nil {
		return err
	}

	e := configure.New(
		configure.WithCommandLine(cl),
		configure.WithManifest(m),
		configure.WithLogger(logger),
	)

	logger.DebugContext(ctx, "engine ready",
		slog.String("run", e.RunID().String()),
		slog.Int("calls", len(calls)),
		slog.Int("args", len(args)),
	)

	report, err := e.Run(ctx, calls)
	if err != nil {
		return err
	}

	return out.write(ctx, report)
}
