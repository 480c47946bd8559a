package tool

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/toolconf/pkg"
)

// Probe runs a resolved tool and checks its output.
//
// Check is an expr-lang expression that must evaluate to true. It sees the
// variables stdout, stderr, status, path and name, plus the functions
// version(s) (the first dotted version number in s) and atLeast(v, min)
// (dotted version comparison).
type Probe struct {
	Args  []string
	Check string
}

// Probe runs the tool resolved for name with p.Args and evaluates p.Check.
// A tool that resolved to nothing is not probed. A failed probe leaves the
// record in [StateFailed].
func (r *Resolver) Probe(ctx context.Context, name string, p Probe) (Record, error) {
	rec, ok := r.records[name]
	if !ok || rec.Path == "" || rec.State == StateFailed {
		return r.current(name), nil
	}

	argv := append(rec.Argv(), p.Args...)

	out, err := r.cfg.runner.Run(ctx, argv)
	if err != nil {
		rec.State = StateFailed
		r.failed[name] = pkg.ErrProbeFailed.
			With(slog.String("tool", name)).
			Wrap(err)

		return *rec, r.failed[name]
	}

	r.cfg.log.DebugContext(ctx, "probed "+name,
		slog.String("command", strings.Join(argv, " ")),
		slog.Int("status", out.Status),
	)

	if strings.TrimSpace(p.Check) == "" {
		return *rec, nil
	}

	env := ProbeEnv(rec.Path, name, out)

	ok, err = Eval(p.Check, env)
	if err == nil && !ok {
		err = pkg.ErrProbeFailed.
			With(slog.String("tool", name), slog.String("check", p.Check)).
			Wrapf("%s: check %q is false", name, p.Check)
	}

	if err != nil {
		rec.State = StateFailed
		r.failed[name] = pkg.WrapError(err).With(slog.String("tool", name))
		r.cfg.log.Check(ctx, "whether "+name+" works", "no")

		return *rec, r.failed[name]
	}

	r.cfg.log.Check(ctx, "whether "+name+" works", "yes")

	return *rec, nil
}

func (r *Resolver) current(name string) Record {
	if rec, ok := r.records[name]; ok {
		return *rec
	}

	return Record{Name: name}
}

// ProbeEnv returns the expression environment of a probe check.
func ProbeEnv(path, name string, out Output) map[string]any {
	return Funcs(map[string]any{
		"stdout": out.Stdout,
		"stderr": out.Stderr,
		"status": out.Status,
		"path":   path,
		"name":   name,
	})
}

// Funcs adds the helper functions available to every check expression to
// env and returns it.
func Funcs(env map[string]any) map[string]any {
	if env == nil {
		env = make(map[string]any)
	}

	env["version"] = Version
	env["atLeast"] = AtLeast

	return env
}

// Eval compiles and runs the boolean expression src against env.
func Eval(src string, env map[string]any) (bool, error) {
	program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, pkg.ErrProbeFailed.Wrap(err).
			With(slog.String("source", src))
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, pkg.ErrProbeFailed.Wrap(err).
			With(slog.String("source", src))
	}

	ok, _ := result.(bool)

	return ok, nil
}

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)+|\d+`)

// Version returns the first version number found in s, such as "17.0.2"
// in "openjdk 17.0.2 2022-01-18". It returns "" if s holds no digits.
func Version(s string) string { return versionPattern.FindString(s) }

// AtLeast reports whether the dotted version v is no older than least. Missing
// components compare as zero, so "17" is at least "17.0".
func AtLeast(v, least string) bool {
	a, b := strings.Split(v, "."), strings.Split(least, ".")

	for i := range max(len(a), len(b)) {
		x, y := component(a, i), component(b, i)
		if x != y {
			return x > y
		}
	}

	return true
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}

	n, _ := strconv.Atoi(parts[i])

	return n
}
