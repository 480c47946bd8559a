package named

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/words"
)

// Arg is one labelled argument of an invocation.
type Arg struct {
	Name  string
	Value string
}

// Args is the ordered argument list of an invocation.
type Args []Arg

// Get returns the value of the first argument labelled name.
func (a Args) Get(name string) (string, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}

	return "", false
}

// String renders the arguments in invocation syntax, bracket-quoting every
// value.
func (a Args) String() string {
	part := make([]string, len(a))
	for i, arg := range a {
		part[i] = arg.Name + ": " + Quote(arg.Value)
	}

	return strings.Join(part, ", ")
}

// Body is the logic of a named-argument function. It reads its arguments
// from s; ctx carries s as the active scope for any nested call.
type Body func(ctx context.Context, s *Scope) error

// Func is a function with a named-argument calling convention.
type Func struct {
	spec Spec
	body Body
}

// Define returns a new Func named name that accepts the arguments declared
// in decl (see [ParseSpec]) and runs body when called.
func Define(name string, decl []string, body Body) (*Func, error) {
	spec, err := ParseSpec(name, decl...)
	if err != nil {
		return nil, err
	}

	if body == nil {
		return nil, pkg.ErrInternal.
			With(slog.String("function", name)).
			Wrapf("%s: nil body", name)
	}

	return &Func{spec: spec, body: body}, nil
}

// MustDefine is like [Define] but panics on error. It is intended for
// package-level declarations.
func MustDefine(name string, decl []string, body Body) *Func {
	f, err := Define(name, decl, body)
	if err != nil {
		panic(err)
	}

	return f
}

// Name returns the function name.
func (f *Func) Name() string { return f.spec.fn }

// Spec returns the argument specification of the function.
func (f *Func) Spec() Spec { return f.spec }

// Bind validates args against the function's specification and returns the
// resulting scope. The scope active in ctx, if any, becomes its parent.
//
// Bind fails with [pkg.ErrUnknownArgument] for an undeclared label,
// [pkg.ErrDuplicateArgument] for a label given twice, and
// [pkg.ErrMissingRequired] when required labels are absent.
func (f *Func) Bind(ctx context.Context, args ...Arg) (*Scope, error) {
	s := &Scope{
		spec:   f.spec,
		parent: ScopeFrom(ctx),
		values: make(map[string]string, len(f.spec.params)),
		given:  make(map[string]bool, len(args)),
	}

	for _, arg := range args {
		if !f.spec.Has(arg.Name) {
			return nil, f.unknown(arg.Name)
		}

		if s.given[arg.Name] {
			return nil, pkg.ErrDuplicateArgument.
				With(slog.String("function", f.spec.fn), slog.String("argument", arg.Name)).
				Wrapf("%s: argument %s given more than once", f.spec.fn, arg.Name)
		}

		s.given[arg.Name] = true
		s.values[arg.Name] = arg.Value
	}

	var missing []string

	for _, p := range f.spec.params {
		if s.given[p.Name] {
			continue
		}

		if p.Required {
			missing = append(missing, p.Name)
		}

		s.values[p.Name] = ""
	}

	if len(missing) > 0 {
		return nil, pkg.ErrMissingRequired.
			With(slog.String("function", f.spec.fn), slog.Any("missing", missing)).
			Wrapf("%s: %s", f.spec.fn, strings.Join(missing, " "))
	}

	return s, nil
}

// Call binds args and runs the function body with the new scope.
func (f *Func) Call(ctx context.Context, args ...Arg) error {
	s, err := f.Bind(ctx, args...)
	if err != nil {
		return err
	}

	return f.body(WithScope(ctx, s), s)
}

func (f *Func) unknown(name string) error {
	legal := f.spec.Names()

	msg := f.spec.fn + ": " + name + " (valid arguments: " + strings.Join(legal, " ") + ")"
	if hint := words.Suggest(name, legal); len(hint) > 0 {
		msg += "; did you mean " + hint[0] + "?"
	}

	return pkg.ErrUnknownArgument.
		With(
			slog.String("function", f.spec.fn),
			slog.String("argument", name),
			slog.Any("valid", legal),
		).
		Wrapf("%s", msg)
}
