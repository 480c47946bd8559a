package configure

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/toolconf/named"
	"github.com/ardnew/toolconf/option"
	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/tool"
	"github.com/ardnew/toolconf/words"
)

// Check is the outcome of a CHECK_VALUES call.
type Check struct {
	Name   string   `json:"name"   yaml:"name"`
	Values []string `json:"values" yaml:"values,flow"`
}

var (
	progsDecl     = []string{"*VAR", "*PROGS", "PATHS", "PROBE", "CHECK"}
	toolchainDecl = []string{"*VAR", "*PROGS", "PREFIX"}
)

func (e *Engine) builtins() []*named.Func {
	return []*named.Func{
		named.MustDefine("LOOKUP_PROGS", progsDecl, e.progs(false)),
		named.MustDefine("REQUIRE_PROGS", progsDecl, e.progs(true)),
		named.MustDefine("LOOKUP_TOOLCHAIN_PROGS", toolchainDecl, e.toolchainProgs(false)),
		named.MustDefine("REQUIRE_TOOLCHAIN_PROGS", toolchainDecl, e.toolchainProgs(true)),
		named.MustDefine("REQUIRE_BUILTIN_PROGS", []string{"*VAR", "*PROGS"}, e.builtinProgs),
		named.MustDefine("REQUIRE_SPECIAL", []string{"*VAR", "*PROG"}, e.special),
		named.MustDefine("CHECK_NONEMPTY", []string{"*VAR"}, e.checkNonEmpty),
		named.MustDefine("CHECK_VALUES", []string{"*VALUES", "LEGAL", "ILLEGAL", "NAME"}, e.checkValues),
		named.MustDefine("ARG_ENABLE",
			[]string{"*NAME", "DEFAULT", "AVAILABLE", "CHECK_AVAILABLE", "RESULT", "DESC"}, e.argEnable),
		named.MustDefine("ARG_WITH",
			[]string{"*NAME", "DEFAULT", "VALID_VALUES", "RESULT", "DESC"}, e.argWith),
		named.MustDefine("DEPRECATED_ARG_WITH", []string{"*NAME", "MESSAGE"}, e.deprecated(option.KindWith)),
		named.MustDefine("DEPRECATED_ARG_ENABLE", []string{"*NAME", "MESSAGE"}, e.deprecated(option.KindEnable)),
		named.MustDefine("ALIASED_ARG_ENABLE", []string{"*NAME", "*ALIAS"}, e.aliased),
	}
}

func (e *Engine) progs(required bool) named.Body {
	return func(ctx context.Context, s *named.Scope) error {
		name := s.Arg("VAR")
		search := tool.ProgsIn(s.Words("PATHS"), s.Arg("PROGS"))

		var err error
		if required {
			_, err = e.resolver.Require(ctx, name, search)
		} else {
			_, err = e.resolver.Setup(ctx, name, search)
		}

		if err != nil {
			return err
		}

		if s.Arg("PROBE") == "" && s.Arg("CHECK") == "" {
			return nil
		}

		_, err = e.resolver.Probe(ctx, name, tool.Probe{Args: s.Words("PROBE"), Check: s.Arg("CHECK")})

		return err
	}
}

func (e *Engine) toolchainProgs(required bool) named.Body {
	return func(ctx context.Context, s *named.Scope) error {
		var err error
		if required {
			_, err = e.resolver.RequireToolchainProgs(ctx, s.Arg("VAR"), s.Arg("PREFIX"), s.Arg("PROGS"))
		} else {
			_, err = e.resolver.LookupToolchainProgs(ctx, s.Arg("VAR"), s.Arg("PREFIX"), s.Arg("PROGS"))
		}

		return err
	}
}

func (e *Engine) builtinProgs(ctx context.Context, s *named.Scope) error {
	_, err := e.resolver.RequireBuiltinProgs(ctx, s.Arg("VAR"), s.Arg("PROGS"))

	return err
}

func (e *Engine) special(ctx context.Context, s *named.Scope) error {
	_, err := e.resolver.RequireSpecial(ctx, s.Arg("VAR"), s.Arg("PROG"))

	return err
}

func (e *Engine) checkNonEmpty(ctx context.Context, s *named.Scope) error {
	_, err := e.resolver.CheckNonEmpty(ctx, s.Arg("VAR"))

	return err
}

// checkValues fails when VALUES holds a word outside LEGAL or inside
// ILLEGAL. An empty LEGAL allows every word.
func (e *Engine) checkValues(ctx context.Context, s *named.Scope) error {
	values := s.Words("VALUES")
	legal := s.Words("LEGAL")

	name := s.Arg("NAME")
	if name == "" {
		name = "value"
	}

	var bad []string
	if len(legal) > 0 {
		bad = words.NonMatching(values, legal)
	}

	bad = words.Uniq(append(bad, words.Matching(values, s.Words("ILLEGAL"))...))

	if len(bad) > 0 {
		msg := "invalid " + name + ": " + strings.Join(bad, " ")
		if len(legal) > 0 {
			msg += " (valid values are: " + strings.Join(legal, " ") + ")"
		}

		return pkg.ErrInvalidValue.
			With(slog.String("name", name), slog.Any("invalid", bad)).
			Wrapf("%s", msg)
	}

	e.log.Check(ctx, "for valid "+name, strings.Join(values, " "))
	e.checks = append(e.checks, Check{Name: name, Values: values})

	return nil
}

func (e *Engine) argEnable(ctx context.Context, s *named.Scope) error {
	spec := enableSpec(s)

	if v := s.Arg("AVAILABLE"); v != "" {
		switch strings.ToLower(v) {
		case "true", "yes":
		case "false", "no":
			spec.Unavailable = true
		default:
			return pkg.ErrInvalidValue.
				With(slog.String("argument", "AVAILABLE"), slog.String("value", v)).
				Wrapf("%s: AVAILABLE must be true or false, not %s", s.Function(), v)
		}
	}

	if check := s.Arg("CHECK_AVAILABLE"); check != "" {
		spec.CheckAvailable = func(context.Context) (bool, error) {
			ok, err := tool.Eval(check, e.checkEnv())
			if err != nil {
				return false, pkg.ErrInvalidValue.
					With(slog.String("argument", "CHECK_AVAILABLE"), slog.String("expression", check)).
					Wrap(err)
			}

			return ok, nil
		}
	}

	_, err := e.cmdline.ArgEnable(ctx, spec)

	return err
}

func (e *Engine) argWith(ctx context.Context, s *named.Scope) error {
	_, err := e.cmdline.ArgWith(ctx, withSpec(s))

	return err
}

func (e *Engine) deprecated(kind option.Kind) named.Body {
	return func(ctx context.Context, s *named.Scope) error {
		if kind == option.KindWith {
			e.cmdline.DeprecatedWith(ctx, s.Arg("NAME"), s.Arg("MESSAGE"))
		} else {
			e.cmdline.DeprecatedEnable(ctx, s.Arg("NAME"), s.Arg("MESSAGE"))
		}

		return nil
	}
}

// aliased declares --enable-NAME as another spelling of --enable-ALIAS.
func (e *Engine) aliased(ctx context.Context, s *named.Scope) error {
	e.cmdline.AliasedEnable(ctx, s.Arg("NAME"), s.Arg("ALIAS"))

	return nil
}

// checkEnv is the environment of CHECK_AVAILABLE expressions: every
// declared tool by variable name, "" until resolved, and every evaluated
// option by result name.
func (e *Engine) checkEnv() map[string]any {
	env := make(map[string]any)

	for _, h := range e.resolver.Help() {
		env[h.Name] = ""
	}

	for name, value := range e.resolver.Values() {
		env[name] = value
	}

	for _, r := range e.cmdline.Results() {
		if r.Kind == option.KindEnable {
			env[r.Name] = r.Enabled()
		} else {
			env[r.Name] = r.Value
		}
	}

	return tool.Funcs(env)
}

func enableSpec(s *named.Scope) option.EnableSpec {
	return option.EnableSpec{
		Name:    s.Arg("NAME"),
		Default: s.Arg("DEFAULT"),
		Result:  s.Arg("RESULT"),
		Desc:    s.Arg("DESC"),
	}
}

func withSpec(s *named.Scope) option.WithSpec {
	return option.WithSpec{
		Name:        s.Arg("NAME"),
		Default:     s.Arg("DEFAULT"),
		ValidValues: s.Words("VALID_VALUES"),
		Result:      s.Arg("RESULT"),
		Desc:        s.Arg("DESC"),
	}
}

// helpOf returns the help entries declared by a bound call.
func helpOf(s *named.Scope) []pkg.HelpEntry {
	switch s.Function() {
	case "ARG_ENABLE":
		return []pkg.HelpEntry{option.EnableHelp(enableSpec(s))}
	case "ARG_WITH":
		return []pkg.HelpEntry{option.WithHelp(withSpec(s))}
	case "DEPRECATED_ARG_WITH":
		return []pkg.HelpEntry{option.DeprecatedHelp(option.KindWith, s.Arg("NAME"))}
	case "DEPRECATED_ARG_ENABLE":
		return []pkg.HelpEntry{option.DeprecatedHelp(option.KindEnable, s.Arg("NAME"))}
	case "ALIASED_ARG_ENABLE":
		return []pkg.HelpEntry{option.AliasHelp(s.Arg("NAME"), s.Arg("ALIAS"))}
	case "CHECK_VALUES":
		return nil
	default:
		return []pkg.HelpEntry{tool.VarHelp(s.Arg("VAR"))}
	}
}
