package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/toolconf/configure"
	"github.com/ardnew/toolconf/named"
	"github.com/ardnew/toolconf/pkg"
)

// Call runs invocations given as text, without a manifest.
type Call struct {
	Report `embed:""`

	List bool `help:"List the built-in functions and exit." short:"l"`

	Script string   `arg:"" help:"Invocations, as in 'REQUIRE_PROGS(VAR: CC, PROGS: gcc cc)'." optional:""`
	Args   []string `arg:"" help:"Options and VAR=value assignments."                          optional:"" passthrough:""`
}

// Run executes the call command.
func (c *Call) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if c.List {
		_, err = fmt.Fprintln(stdout(ctx), strings.Join(configure.New().Signatures(), "\n"))

		return err
	}

	calls, err := named.ParseScript(c.Script)
	if err != nil {
		return err
	}

	if len(calls) == 0 {
		return pkg.ErrSyntax.Wrapf("no invocations given (use --list to see the built-in functions)")
	}

	return run(ctx, nil, calls, c.Args, c.Report)
}
