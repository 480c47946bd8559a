package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/toolconf/cli/cmd"
	"github.com/ardnew/toolconf/configure"
	"github.com/ardnew/toolconf/pkg"
)

// CLI is the top-level command-line interface for toolconf.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Configure cmd.Configure `cmd:"" help:"Resolve and validate the tools a manifest declares."`
	Call      cmd.Call      `cmd:"" help:"Run invocations given on the command line."`
	Vars      cmd.Vars      `cmd:"" help:"List the variables and options a manifest declares."`
	Words     cmd.Words     `cmd:"" help:"Filter whitespace-separated word lists."`
	Init      cmd.Init      `cmd:"" help:"Write a starter manifest or configuration file."`
	Version   cmd.Version   `cmd:"" help:"Print version."`
}

// vars returns the kong variables interpolated into the command tags.
func (cli *CLI) vars() kong.Vars {
	return kong.Vars{
		cmd.ConfigIdentifier:     pkg.ConfigPath(pkg.ConfigFile),
		cmd.CacheIdentifier:      pkg.CacheDir(),
		cmd.ManifestIdentifier:   pkg.ManifestFile,
		cmd.FormatEnumIdentifier: strings.Join(slices.Collect(configure.Formats()), ","),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())
}

// Run executes the toolconf CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before kong reports anything.
	cli.Log.scan(args)

	// The provider reads ctx when a command runs, after the kong context has
	// been stored in it.
	parser, err := newParser(&cli, func() context.Context { return ctx }, kong.Exit(exit))
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

func newParser(cli *CLI, provide func() context.Context, opts ...kong.Option) (*kong.Kong, error) {
	configFile := pkg.ConfigPath(pkg.ConfigFile)

	return kong.New(cli, append([]kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(provide),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, strings.TrimSuffix(configFile, ".yaml")+".json"),
		kong.Configuration(resolve, configFile),
		cli.vars(),
	}, opts...)...)
}
