package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/manifest"
)

// Configure resolves and validates the tools and options a manifest
// declares.
type Configure struct {
	Report `embed:""`

	Manifest string   `arg:"" help:"Manifest file."                                              type:"path"`
	Args     []string `arg:"" help:"Options (--with-*, --enable-*) and VAR=value assignments, given after --." optional:"" passthrough:""`
}

// Run executes the configure command.
func (c *Configure) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := manifest.LoadFile(c.Manifest)
	if err != nil {
		return err
	}

	calls, err := m.Calls()
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "loaded manifest",
		slog.String("file", c.Manifest),
		slog.Int("calls", len(calls)),
	)

	return run(ctx, m, calls, c.Args, c.Report)
}
