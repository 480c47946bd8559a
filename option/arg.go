package option

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/words"
)

// Result is the outcome of evaluating one declared option.
type Result struct {
	Name   string `json:"name"   yaml:"name"`
	Option string `json:"option" yaml:"option"`
	Kind   Kind   `json:"kind"   yaml:"kind"`
	Value  string `json:"value"  yaml:"value"`
	Given  bool   `json:"given"  yaml:"given"`
}

// Enabled reports whether an --enable option evaluated to true.
func (r Result) Enabled() bool { return r.Value == "true" }

// Hook is run after an option is evaluated.
type Hook func(ctx context.Context, r Result) error

// Tristate values accepted as the default of an --enable option.
const (
	True  = "true"
	False = "false"
	Auto  = "auto"
)

// EnableSpec declares an --enable option.
type EnableSpec struct {
	Name string
	// Default is True, False or Auto. The empty string means True.
	Default string
	// Unavailable marks the feature as never available.
	Unavailable bool
	// CheckAvailable decides availability unless the feature is disabled.
	CheckAvailable func(ctx context.Context) (bool, error)
	// Result names the stored result. The default is ENABLE_<NAME>.
	Result string
	Desc   string

	IfEnabled, IfDisabled, IfGiven, IfNotGiven Hook
}

// ArgEnable evaluates an --enable option.
//
// The user may give yes, no or auto (true and false are also accepted).
// With auto, or when not given and the default is auto, the feature is
// enabled exactly when it is available. Explicitly enabling an unavailable
// feature fails with [pkg.ErrUnavailable]. A feature enabled only by default
// is silently disabled when it is unavailable.
func (cl *CommandLine) ArgEnable(ctx context.Context, spec EnableSpec) (Result, error) {
	name := normalize(spec.Name)
	flag := KindEnable.Flag(name)

	def := spec.Default
	if def == "" {
		def = True
	}

	defValue, ok := tristate(def)
	if !ok {
		return Result{}, pkg.ErrInternal.
			With(slog.String("option", flag), slog.String("default", def)).
			Wrapf("%s: invalid default %q", flag, def)
	}

	entry := EnableHelp(spec)
	cl.help.Add(entry.Name, entry.Text)

	res := Result{Name: spec.Result, Option: flag, Kind: KindEnable}
	if res.Name == "" {
		res.Name = "ENABLE_" + strings.ToUpper(name)
	}

	value := defValue
	reason := "default"

	if given, ok := cl.Enable(name); ok {
		res.Given = true

		if value, ok = tristate(given); !ok {
			return Result{}, pkg.ErrInvalidValue.
				With(slog.String("option", flag), slog.String("value", given)).
				Wrapf("invalid value for %s: %s", flag, given)
		}

		reason = "explicitly set"
	}

	available := !spec.Unavailable

	if available && value != False && spec.CheckAvailable != nil {
		var err error
		if available, err = spec.CheckAvailable(ctx); err != nil {
			return Result{}, err
		}
	}

	switch value {
	case Auto:
		res.Value = boolString(available)
		reason = "auto"

	case True:
		if !available {
			if res.Given {
				return Result{}, pkg.ErrUnavailable.
					With(slog.String("option", flag)).
					Wrapf("%s specified, but not available", flag)
			}

			reason = "not available"
		}

		res.Value = boolString(available)

	default:
		res.Value = False
	}

	verdict := "disabled"
	if res.Enabled() {
		verdict = "enabled"
	}

	cl.log.Check(ctx, "if "+name+" should be enabled", verdict+", "+reason)
	cl.store(res)

	return res, runHooks(ctx, res, res.Given, res.Enabled(),
		spec.IfGiven, spec.IfNotGiven, spec.IfEnabled, spec.IfDisabled)
}

// WithSpec declares a --with option.
type WithSpec struct {
	Name    string
	Default string
	// ValidValues restricts the words the value may hold. Empty allows any.
	ValidValues []string
	// Result names the stored result. The default is WITH_<NAME>.
	Result string
	Desc   string

	IfGiven, IfNotGiven Hook
}

// ArgWith evaluates a --with option. Every word of the value must appear in
// ValidValues, when given, or evaluation fails with [pkg.ErrInvalidValue].
func (cl *CommandLine) ArgWith(ctx context.Context, spec WithSpec) (Result, error) {
	name := normalize(spec.Name)
	flag := KindWith.Flag(name)

	entry := WithHelp(spec)
	cl.help.Add(entry.Name, entry.Text)

	res := Result{Name: spec.Result, Option: flag, Kind: KindWith, Value: spec.Default}
	if res.Name == "" {
		res.Name = "WITH_" + strings.ToUpper(name)
	}

	if value, ok := cl.With(name); ok {
		res.Value, res.Given = value, true
	}

	if valid := words.Split(strings.Join(spec.ValidValues, " ")); len(valid) > 0 {
		if bad := words.NonMatching(words.Split(res.Value), valid); len(bad) > 0 {
			return Result{}, pkg.ErrInvalidValue.
				With(slog.String("option", flag), slog.String("value", res.Value)).
				Wrapf("invalid value for %s: %s (valid values are: %s)",
					flag, strings.Join(bad, " "), strings.Join(valid, " "))
		}
	}

	shown := res.Value
	if shown == "" {
		shown = "(none)"
	}

	cl.log.Check(ctx, "for "+flag, shown)
	cl.store(res)

	return res, runHooks(ctx, res, res.Given, true, spec.IfGiven, spec.IfNotGiven, nil, nil)
}

func runHooks(ctx context.Context, r Result, given, enabled bool, ifGiven, ifNotGiven, ifEnabled, ifDisabled Hook) error {
	pick := func(cond bool, yes, no Hook) Hook {
		if cond {
			return yes
		}

		return no
	}

	for _, hook := range []Hook{pick(given, ifGiven, ifNotGiven), pick(enabled, ifEnabled, ifDisabled)} {
		if hook == nil {
			continue
		}

		if err := hook(ctx, r); err != nil {
			return err
		}
	}

	return nil
}

// tristate maps a user or default value to True, False or Auto.
func tristate(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		return True, true
	case "no", "false":
		return False, true
	case "auto":
		return Auto, true
	default:
		return "", false
	}
}

func boolString(b bool) string {
	if b {
		return True
	}

	return False
}
