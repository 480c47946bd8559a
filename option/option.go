package option

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/pkg"
)

// Kind distinguishes the two families of configure options.
type Kind string

const (
	KindWith   Kind = "with"
	KindEnable Kind = "enable"
)

// Flag returns the command-line spelling of the option name of kind k.
func (k Kind) Flag(name string) string {
	return "--" + string(k) + "-" + strings.ReplaceAll(name, "_", "-")
}

// Assignment is a VAR=VALUE command-line argument.
type Assignment struct {
	Name  string
	Value string
}

// given is one user-supplied option.
type given struct {
	value string
	flag  string
	used  bool
}

// CommandLine is a parsed configure command line.
type CommandLine struct {
	opts    map[Kind]map[string]*given
	assigns []Assignment
	results map[string]Result
	order   []string
	help    pkg.Help
	log     log.Logger
}

// Option configures a [CommandLine].
type Option func(*CommandLine)

// WithLogger sets the logger that warnings and check results are reported to.
func WithLogger(l log.Logger) Option {
	return func(cl *CommandLine) { cl.log = l }
}

var (
	optionPattern = regexp.MustCompile(`^--(with|without|enable|disable)-([A-Za-z0-9][A-Za-z0-9_-]*)(?:=(.*))?$`)
	assignPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)
)

// Parse parses configure-style arguments. Any argument that is neither a
// --with/--enable option nor a VAR=VALUE assignment fails with
// [pkg.ErrUnrecognizedOption].
func Parse(args []string, opts ...Option) (*CommandLine, error) {
	cl := New(opts...)

	for _, arg := range args {
		if m := optionPattern.FindStringSubmatch(arg); m != nil {
			kind, value := KindWith, "yes"
			hasValue := strings.Contains(arg, "=")

			switch m[1] {
			case "without":
				value = "no"
			case "enable":
				kind = KindEnable
			case "disable":
				kind, value = KindEnable, "no"
			}

			if hasValue {
				if m[1] == "without" || m[1] == "disable" {
					return nil, pkg.ErrUnrecognizedOption.
						With(slog.String("option", arg)).
						Wrapf("%s: negated option takes no value", arg)
				}

				value = m[3]
			}

			cl.set(kind, normalize(m[2]), value, arg)

			continue
		}

		if m := assignPattern.FindStringSubmatch(arg); m != nil {
			cl.assigns = append(cl.assigns, Assignment{Name: m[1], Value: m[2]})

			continue
		}

		return nil, pkg.ErrUnrecognizedOption.
			With(slog.String("option", arg)).
			Wrapf("%s", arg)
	}

	return cl, nil
}

// New returns an empty command line.
func New(opts ...Option) *CommandLine {
	cl := &CommandLine{
		opts: map[Kind]map[string]*given{
			KindWith:   {},
			KindEnable: {},
		},
		results: make(map[string]Result),
		log:     log.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cl)
		}
	}

	return cl
}

func normalize(name string) string { return strings.ReplaceAll(name, "-", "_") }

func (cl *CommandLine) set(kind Kind, name, value, flag string) {
	cl.opts[kind][name] = &given{value: value, flag: flag}
}

func (cl *CommandLine) lookup(kind Kind, name string) (string, bool) {
	g, ok := cl.opts[kind][normalize(name)]
	if !ok {
		return "", false
	}

	g.used = true

	return g.value, true
}

// With returns the value of --with-name and whether it was given.
func (cl *CommandLine) With(name string) (string, bool) { return cl.lookup(KindWith, name) }

// Enable returns the value of --enable-name and whether it was given.
func (cl *CommandLine) Enable(name string) (string, bool) { return cl.lookup(KindEnable, name) }

// Assignments returns the VAR=VALUE arguments in command-line order.
func (cl *CommandLine) Assignments() []Assignment { return slices.Clone(cl.assigns) }

// Unused returns the options given on the command line that no declaration
// has read, in sorted order.
func (cl *CommandLine) Unused() []string {
	var out []string

	for _, byName := range cl.opts {
		for _, g := range byName {
			if !g.used {
				out = append(out, g.flag)
			}
		}
	}

	slices.Sort(out)

	return out
}

// Help returns the help entries of every declared option.
func (cl *CommandLine) Help() []pkg.HelpEntry { return cl.help.Entries() }

// Results returns the result of every evaluated option in evaluation order.
func (cl *CommandLine) Results() []Result {
	out := make([]Result, 0, len(cl.order))
	for _, name := range cl.order {
		out = append(out, cl.results[name])
	}

	return out
}

// Result returns the result stored under name.
func (cl *CommandLine) Result(name string) (Result, bool) {
	r, ok := cl.results[name]

	return r, ok
}

func (cl *CommandLine) store(r Result) {
	if _, ok := cl.results[r.Name]; !ok {
		cl.order = append(cl.order, r.Name)
	}

	cl.results[r.Name] = r
}
