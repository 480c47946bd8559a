package tool

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/words"
)

// DefaultTrusted is the variable whose environment value is always accepted.
const DefaultTrusted = "BASH"

// DefaultShell is the shell used to probe for built-in commands.
const DefaultShell = "bash"

// Option configures a [Resolver].
type Option func(config) config

type config struct {
	vars            *Vars
	path            string
	extra           []string
	runner          Runner
	trusted         []string
	shell           string
	toolchainPrefix string
	log             log.Logger
}

func apply(c config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithVars sets the variable store tools are resolved from. The default is
// a store seeded from the process environment.
func WithVars(vs *Vars) Option {
	return func(c config) config {
		c.vars = vs

		return c
	}
}

// WithSearchPath sets the PATH-like list searched for tools. The default is
// the PATH variable of the store given by [WithVars].
func WithSearchPath(path string) Option {
	return func(c config) config {
		c.path = path

		return c
	}
}

// WithExtraPaths adds directories searched before the search path.
func WithExtraPaths(dirs ...string) Option {
	return func(c config) config {
		c.extra = append(c.extra, words.Split(strings.Join(dirs, " "))...)

		return c
	}
}

// WithRunner sets the [Runner] used for built-in checks and probes.
func WithRunner(r Runner) Option {
	return func(c config) config {
		c.runner = r

		return c
	}
}

// WithTrusted replaces the set of variables whose environment values are
// accepted without warning.
func WithTrusted(names ...string) Option {
	return func(c config) config {
		c.trusted = slices.Clone(names)

		return c
	}
}

// WithShell sets the shell asked about built-in commands.
func WithShell(shell string) Option {
	return func(c config) config {
		c.shell = shell

		return c
	}
}

// WithToolchainPrefix sets the default prefix of [ToolchainProgs].
func WithToolchainPrefix(prefix string) Option {
	return func(c config) config {
		c.toolchainPrefix = prefix

		return c
	}
}

// WithLogger sets the logger that resolution progress is reported to.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.log = l

		return c
	}
}

// Resolver resolves tool variables. It is not safe for concurrent use.
type Resolver struct {
	cfg     config
	records map[string]*Record
	failed  map[string]error
	help    pkg.Help
}

// New returns a Resolver configured by opts.
func New(opts ...Option) *Resolver {
	c := apply(config{
		trusted: []string{DefaultTrusted},
		shell:   DefaultShell,
		log:     log.Default(),
	}, opts...)

	if c.vars == nil {
		c.vars = Environ()
	}

	if c.path == "" {
		c.path = c.vars.Get("PATH")
	}

	if c.runner == nil {
		search := c.path
		if len(c.extra) > 0 {
			search = prefixPath(c.path, c.extra...)
		}

		c.runner = ExecRunner{Env: c.vars.Environ(), Path: search}
	}

	if c.shell == DefaultShell {
		if bash, ok := lookIn(c.path, DefaultShell); ok {
			c.shell = bash
		}
	}

	return &Resolver{
		cfg:     c,
		records: make(map[string]*Record),
		failed:  make(map[string]error),
	}
}

// Vars returns the variable store.
func (r *Resolver) Vars() *Vars { return r.cfg.vars }

// Logger returns the logger resolution progress is reported to.
func (r *Resolver) Logger() log.Logger { return r.cfg.log }

// Runner returns the runner used for built-in checks and probes.
func (r *Resolver) Runner() Runner { return r.cfg.runner }

func (r *Resolver) trusted(name string) bool { return slices.Contains(r.cfg.trusted, name) }

// Setup resolves the tool variable name.
//
// A value given on the command line is validated and used, and an empty one
// disables the tool. A value from the environment is used only if name is
// trusted; otherwise it is ignored with a warning. Failing both, search
// decides the value. A tool is resolved only once: later calls return the
// first record, and the first error if resolution failed.
func (r *Resolver) Setup(ctx context.Context, name string, search Searcher) (Record, error) {
	if rec, ok := r.records[name]; ok && rec.State != StateUnset {
		if rec.State == StateFailed {
			return *rec, r.failure(name)
		}

		return *rec, nil
	}

	r.Declare(name)

	v, _ := r.cfg.vars.Lookup(name)

	switch {
	case v.Origin == OriginCommandLine:
		return r.override(ctx, name, v.Value, StrategyCommandLine)

	case v.Origin == OriginEnvironment && v.Value != "" && r.trusted(name):
		return r.override(ctx, name, v.Value, StrategyEnvironment)

	case v.Origin == OriginEnvironment && v.Value != "":
		r.cfg.log.WarnContext(ctx,
			"ignoring value of "+name+" from the environment, use command line variables instead",
			slog.String("value", v.Value),
		)
	}

	return r.search(ctx, name, search)
}

func (r *Resolver) search(ctx context.Context, name string, search Searcher) (Record, error) {
	var (
		m   Match
		err error
	)

	if search != nil {
		m, err = search(ctx, r, name)
	}

	if err != nil {
		return r.fail(ctx, name, StrategySearch, err)
	}

	rec := Record{Name: name, Path: m.Path, Args: m.Args, Strategy: StrategySearch}

	switch {
	case m.Path == "":
		rec.State = StateResolved
		r.cfg.log.Check(ctx, "for "+name, "no")

	case m.Builtin:
		rec.Strategy = StrategyBuiltin
		rec.State = StateValidated
		r.cfg.log.Check(ctx, "for "+name, m.Path+" (shell builtin)")

	default:
		rec.State = StateValidated
		r.cfg.log.Check(ctx, "for "+name, rec.Value())
	}

	return r.store(rec), nil
}

func (r *Resolver) override(ctx context.Context, name, value string, strategy Strategy) (Record, error) {
	if strings.TrimSpace(value) == "" {
		r.cfg.log.InfoContext(ctx, "setting user supplied tool "+name+"= (disabled)")
		r.cfg.log.Check(ctx, "for "+name, "disabled")

		return r.store(Record{Name: name, State: StateResolved, Strategy: StrategyDisabled}), nil
	}

	r.cfg.log.InfoContext(ctx, "will use user supplied tool "+name+"="+value)

	m, err := r.resolveCommand(name, value)
	if err != nil {
		return r.fail(ctx, name, strategy, err)
	}

	rec := Record{Name: name, Path: m.Path, Args: m.Args, Strategy: strategy, State: StateValidated}
	r.cfg.log.Check(ctx, "for "+name, rec.Value())

	return r.store(rec), nil
}

// resolveCommand splits value into a command and its arguments and locates
// the command, either as a literal path or by name on the search path.
func (r *Resolver) resolveCommand(name, value string) (Match, error) {
	fields := words.Split(value)
	if len(fields) == 0 {
		return Match{}, nil
	}

	cmd, args := fields[0], fields[1:]

	if hasPathSeparator(cmd) {
		if !isExecutable(cmd) {
			return Match{}, pkg.ErrToolNotExecutable.
				With(slog.String("tool", name), slog.String("path", cmd)).
				Wrapf("user supplied tool %s=%s", name, cmd)
		}

		return Match{Path: cmd, Args: args}, nil
	}

	path, ok := r.LookPath(cmd)
	if !ok {
		return Match{}, pkg.ErrToolNotFound.
			With(slog.String("tool", name), slog.String("command", cmd)).
			Wrapf("user supplied tool %s=%s", name, cmd)
	}

	return Match{Path: path, Args: args}, nil
}

func (r *Resolver) fail(ctx context.Context, name string, strategy Strategy, err error) (Record, error) {
	rec := r.store(Record{Name: name, State: StateFailed, Strategy: strategy})
	r.failed[name] = err
	r.cfg.log.Check(ctx, "for "+name, "failed")

	return rec, err
}

// failure returns the error that left name in [StateFailed].
func (r *Resolver) failure(name string) error {
	if err, ok := r.failed[name]; ok && err != nil {
		return err
	}

	return pkg.ErrInternal.
		With(slog.String("tool", name)).
		Wrapf("%s: resolution failed", name)
}

func (r *Resolver) store(rec Record) Record {
	if prev, ok := r.records[rec.Name]; ok {
		rec.Required = rec.Required || prev.Required
	}

	r.records[rec.Name] = &rec

	return rec
}

// Require resolves name like [Resolver.Setup] and then fails unless it
// resolved to a non-empty value.
func (r *Resolver) Require(ctx context.Context, name string, search Searcher) (Record, error) {
	if _, err := r.Setup(ctx, name, search); err != nil {
		return Record{}, err
	}

	return r.CheckNonEmpty(ctx, name)
}

// CheckNonEmpty marks name as required and fails with
// [pkg.ErrRequiredToolMissing] if it has not resolved to a value.
func (r *Resolver) CheckNonEmpty(ctx context.Context, name string) (Record, error) {
	rec, ok := r.records[name]
	if !ok {
		rec = &Record{Name: name}
		r.records[name] = rec
	}

	rec.Required = true

	if rec.State == StateFailed || rec.Value() == "" {
		rec.State = StateFailed

		err := pkg.ErrRequiredToolMissing.
			With(slog.String("tool", name)).
			Wrapf("could not find required tool for %s", name)
		if _, ok := r.failed[name]; !ok {
			r.failed[name] = err
		}

		r.cfg.log.ErrorContext(ctx, err.Error(), slog.String("tool", name))

		return *rec, err
	}

	return *rec, nil
}

// LookupProgs resolves name, searching for the first of progs.
func (r *Resolver) LookupProgs(ctx context.Context, name string, progs ...string) (Record, error) {
	return r.Setup(ctx, name, Progs(progs...))
}

// RequireProgs is like [Resolver.LookupProgs] but the tool is required.
func (r *Resolver) RequireProgs(ctx context.Context, name string, progs ...string) (Record, error) {
	return r.Require(ctx, name, Progs(progs...))
}

// LookupToolchainProgs resolves name, searching for the first of progs with
// and then without the toolchain prefix.
func (r *Resolver) LookupToolchainProgs(
	ctx context.Context,
	name, prefix string,
	progs ...string,
) (Record, error) {
	return r.Setup(ctx, name, ToolchainProgs(prefix, progs...))
}

// RequireToolchainProgs is like [Resolver.LookupToolchainProgs] but the tool
// is required.
func (r *Resolver) RequireToolchainProgs(
	ctx context.Context,
	name, prefix string,
	progs ...string,
) (Record, error) {
	return r.Require(ctx, name, ToolchainProgs(prefix, progs...))
}

// RequireBuiltinProgs resolves a required tool that may also be a shell
// built-in.
func (r *Resolver) RequireBuiltinProgs(ctx context.Context, name string, progs ...string) (Record, error) {
	return r.Require(ctx, name, Builtin(progs...))
}

// RequireSpecial resolves a required tool from a literal command line that
// is used when the user supplied no value.
func (r *Resolver) RequireSpecial(ctx context.Context, name, prog string) (Record, error) {
	return r.Require(ctx, name, Command(prog))
}

// Record returns the resolution record of name.
func (r *Resolver) Record(name string) (Record, bool) {
	rec, ok := r.records[name]
	if !ok {
		return Record{}, false
	}

	return *rec, true
}

// Records returns every resolution record, ordered by name.
func (r *Resolver) Records() []Record {
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}

	slices.SortFunc(out, func(a, b Record) int { return cmp.Compare(a.Name, b.Name) })

	return out
}

// Values returns the resolved value of every tool, keyed by name.
func (r *Resolver) Values() map[string]string {
	out := make(map[string]string, len(r.records))
	for name, rec := range r.records {
		out[name] = rec.Value()
	}

	return out
}

// Help returns a help entry for every tool variable seen so far.
func (r *Resolver) Help() []pkg.HelpEntry { return r.help.Entries() }

// Declare registers name as a tool variable without resolving it.
func (r *Resolver) Declare(name string) {
	entry := VarHelp(name)
	r.help.Add(entry.Name, entry.Text)
}

// VarHelp returns the help entry of the tool variable name.
func VarHelp(name string) pkg.HelpEntry {
	return pkg.HelpEntry{Name: name, Text: "Override default value for " + name}
}
