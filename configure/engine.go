// Package configure runs configure steps against a tool resolver and a
// configure-style command line.
//
// An [Engine] binds each [named.Call] to one of its built-in functions,
// such as REQUIRE_PROGS or ARG_ENABLE, runs them in order, and stops at the
// first error. The outcome is summarized by a [Report].
package configure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/manifest"
	"github.com/ardnew/toolconf/named"
	"github.com/ardnew/toolconf/option"
	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/tool"
)

// Engine evaluates configure steps.
type Engine struct {
	id       uuid.UUID
	resolver *tool.Resolver
	cmdline  *option.CommandLine
	table    *named.Table
	log      log.Logger
	checks   []Check
}

// Option configures an [Engine].
type Option func(config) config

type config struct {
	id      uuid.UUID
	vars    *tool.Vars
	tools   []tool.Option
	cmdline *option.CommandLine
	log     log.Logger
}

// WithRunID sets the run identifier. The default is a random UUID.
func WithRunID(id uuid.UUID) Option {
	return func(c config) config {
		c.id = id

		return c
	}
}

// WithVars sets the variable store. The default is the process environment.
func WithVars(vs *tool.Vars) Option {
	return func(c config) config {
		c.vars = vs

		return c
	}
}

// WithToolOptions passes options to the engine's [tool.Resolver].
func WithToolOptions(opts ...tool.Option) Option {
	return func(c config) config {
		c.tools = append(c.tools, opts...)

		return c
	}
}

// WithCommandLine sets the parsed command line. Its VAR=VALUE assignments
// are applied to the variable store with command-line precedence.
func WithCommandLine(cl *option.CommandLine) Option {
	return func(c config) config {
		c.cmdline = cl

		return c
	}
}

// WithLogger sets the logger of the engine and its resolver.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.log = l

		return c
	}
}

// WithManifest applies the resolver settings of m.
func WithManifest(m *manifest.Manifest) Option {
	return func(c config) config {
		if m == nil {
			return c
		}

		if m.Trusted != nil {
			c.tools = append(c.tools, tool.WithTrusted(m.Trusted...))
		}

		if m.ToolchainPrefix != "" {
			c.tools = append(c.tools, tool.WithToolchainPrefix(m.ToolchainPrefix))
		}

		if len(m.Path) > 0 {
			c.tools = append(c.tools, tool.WithExtraPaths(m.Path...))
		}

		return c
	}
}

// New returns an Engine configured by opts.
func New(opts ...Option) *Engine {
	c := config{log: log.Default()}
	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	if c.id == uuid.Nil {
		c.id = uuid.New()
	}

	if c.vars == nil {
		c.vars = tool.Environ()
	}

	if c.cmdline == nil {
		c.cmdline = option.New(option.WithLogger(c.log))
	}

	for _, a := range c.cmdline.Assignments() {
		c.vars.Set(a.Name, a.Value, tool.OriginCommandLine)
	}

	e := &Engine{
		id:      c.id,
		cmdline: c.cmdline,
		log:     c.log,
		resolver: tool.New(append(
			[]tool.Option{tool.WithVars(c.vars), tool.WithLogger(c.log)},
			c.tools...,
		)...),
	}

	table, err := named.NewTable(e.builtins()...)
	if err != nil {
		panic(err)
	}

	e.table = table

	return e
}

// RunID returns the identifier of the run.
func (e *Engine) RunID() uuid.UUID { return e.id }

// Resolver returns the tool resolver of the engine.
func (e *Engine) Resolver() *tool.Resolver { return e.resolver }

// CommandLine returns the command line of the engine.
func (e *Engine) CommandLine() *option.CommandLine { return e.cmdline }

// Functions returns the names of the built-in functions.
func (e *Engine) Functions() []string { return e.table.Names() }

// Signatures returns the declaration of every built-in function, as in
// "LOOKUP_PROGS(*VAR, *PROGS, PATHS, PROBE, CHECK)", sorted by name.
func (e *Engine) Signatures() []string {
	names := e.table.Names()
	sigs := make([]string, 0, len(names))

	for _, name := range names {
		if f, ok := e.table.Lookup(name); ok {
			sigs = append(sigs, f.Spec().String())
		}
	}

	return sigs
}

// Call runs a single invocation.
func (e *Engine) Call(ctx context.Context, c named.Call) error {
	return e.table.Invoke(ctx, c)
}

// Run invokes calls in order and returns the report of the run. It stops at
// the first error, returning the report of the calls completed so far along
// with the error.
func (e *Engine) Run(ctx context.Context, calls []named.Call) (*Report, error) {
	e.log.DebugContext(ctx, "configure run", slog.String("run", e.id.String()), slog.Int("calls", len(calls)))

	for _, c := range calls {
		if name, _ := c.Args.Get("VAR"); name != "" {
			e.resolver.Declare(name)
		}
	}

	for _, c := range calls {
		if err := ctx.Err(); err != nil {
			return e.Report(), err
		}

		if err := e.table.Invoke(ctx, c); err != nil {
			return e.Report(), err
		}
	}

	if unused := e.cmdline.Unused(); len(unused) > 0 {
		for _, flag := range unused {
			e.log.WarnContext(ctx, "unrecognized option "+flag)
		}
	}

	return e.Report(), nil
}

// Help binds every call, validating its arguments, and returns the help
// entries of the tool variables and options the calls declare. Nothing is
// resolved or evaluated.
func (e *Engine) Help(ctx context.Context, calls []named.Call) ([]pkg.HelpEntry, error) {
	var help pkg.Help

	for _, c := range calls {
		s, err := e.table.Bind(ctx, c)
		if err != nil {
			return nil, err
		}

		for _, entry := range helpOf(s) {
			help.Add(entry.Name, entry.Text)
		}
	}

	return help.Entries(), nil
}

// Report summarizes the run so far.
func (e *Engine) Report() *Report {
	return &Report{
		RunID:   e.id.String(),
		Tools:   e.resolver.Records(),
		Options: e.cmdline.Results(),
		Checks:  append([]Check(nil), e.checks...),
		Unused:  e.cmdline.Unused(),
	}
}
