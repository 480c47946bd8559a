package tool

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/words"
)

// Match is the outcome of a successful search.
type Match struct {
	Path    string
	Args    []string
	Builtin bool
}

// Searcher is an auto-search strategy. It returns the zero [Match] with a
// nil error when nothing was found; an error aborts resolution.
type Searcher func(ctx context.Context, r *Resolver, name string) (Match, error)

// Progs searches the search path for the first executable in names. Each
// element of names may itself hold several whitespace-separated names.
func Progs(names ...string) Searcher {
	return ProgsIn(nil, names...)
}

// ProgsIn is like [Progs] but searches dirs before the search path.
func ProgsIn(dirs []string, names ...string) Searcher {
	return func(_ context.Context, r *Resolver, _ string) (Match, error) {
		path := r.SearchPath()
		if len(dirs) > 0 {
			path = prefixPath(path, dirs...)
		}

		for _, prog := range words.Split(strings.Join(names, " ")) {
			if found, ok := lookIn(path, prog); ok {
				return Match{Path: found}, nil
			}
		}

		return Match{}, nil
	}
}

// ToolchainProgs is like [Progs] but first tries every name with the
// toolchain prefix prepended. An empty prefix uses the resolver's default
// toolchain prefix.
func ToolchainProgs(prefix string, names ...string) Searcher {
	return func(ctx context.Context, r *Resolver, name string) (Match, error) {
		pre := prefix
		if pre == "" {
			pre = r.cfg.toolchainPrefix
		}

		plain := words.Split(strings.Join(names, " "))

		if pre != "" {
			prefixed := make([]string, len(plain))
			for i, name := range plain {
				prefixed[i] = pre + name
			}

			if m, err := Progs(prefixed...)(ctx, r, name); err != nil || m.Path != "" {
				return m, err
			}
		}

		return Progs(plain...)(ctx, r, name)
	}
}

// Builtin is like [Progs] but falls back to asking the shell whether a name
// is one of its built-in commands. If neither finds anything the search
// fails with [pkg.ErrBuiltinNotFound].
func Builtin(names ...string) Searcher {
	return func(ctx context.Context, r *Resolver, name string) (Match, error) {
		m, err := Progs(names...)(ctx, r, name)
		if err != nil || m.Path != "" {
			return m, err
		}

		list := words.Split(strings.Join(names, " "))

		for _, prog := range list {
			ok, err := r.isBuiltin(ctx, prog)
			if err != nil {
				return Match{}, err
			}

			if ok {
				return Match{Path: prog, Builtin: true}, nil
			}
		}

		return Match{}, pkg.ErrBuiltinNotFound.
			With(slog.String("tool", name), slog.String("shell", r.cfg.shell)).
			Wrapf("%s: %s", name, strings.Join(list, " "))
	}
}

// Command resolves a literal command line the same way a command-line
// override is resolved: the first word is a path or a name to search for,
// and the remaining words are kept as arguments.
func Command(value string) Searcher {
	return func(_ context.Context, r *Resolver, name string) (Match, error) {
		return r.resolveCommand(name, value)
	}
}

// isBuiltin asks the shell to describe name and reports whether it is a
// shell built-in. The name is passed as a positional parameter, never as
// script text.
func (r *Resolver) isBuiltin(ctx context.Context, name string) (bool, error) {
	out, err := r.cfg.runner.Run(ctx, []string{r.cfg.shell, "-c", `command -V "$1"`, "sh", name})
	if err != nil {
		return false, err
	}

	return out.Status == 0 && strings.Contains(out.Stdout, "builtin"), nil
}

// SearchPath returns the effective search path: the extra paths followed by
// the base search path.
func (r *Resolver) SearchPath() string {
	if len(r.cfg.extra) == 0 {
		return r.cfg.path
	}

	return prefixPath(r.cfg.path, r.cfg.extra...)
}

// LookPath searches the effective search path for an executable named name.
func (r *Resolver) LookPath(name string) (string, bool) {
	return lookIn(r.SearchPath(), name)
}

// lookIn searches the PATH-like list path for an executable named name.
func lookIn(path, name string) (string, bool) {
	if name == "" || hasPathSeparator(name) {
		return "", false
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}

		path := filepath.Join(dir, name)
		if isExecutable(path) {
			return path, true
		}
	}

	return "", false
}

// isExecutable reports whether path names a regular file with any execute
// permission bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Mode().Perm()&fs.FileMode(0o111) != 0
}

// hasPathSeparator reports whether a command is a literal path rather than
// a name to search for.
func hasPathSeparator(cmd string) bool {
	return strings.ContainsRune(cmd, '/') || strings.ContainsRune(cmd, os.PathSeparator)
}
