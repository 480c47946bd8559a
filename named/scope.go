package named

import (
	"context"
	"log/slog"

	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/words"
)

// Scope is the set of arguments bound for one call of a named-argument
// function. Every declared argument has a value; those the caller omitted
// are bound to "".
type Scope struct {
	spec   Spec
	parent *Scope
	values map[string]string
	given  map[string]bool
}

// Function returns the name of the function this scope was bound for.
func (s *Scope) Function() string { return s.spec.fn }

// Parent returns the scope of the call that was active when this scope was
// bound, or nil for a top-level call.
func (s *Scope) Parent() *Scope { return s.parent }

// Depth returns the number of enclosing scopes.
func (s *Scope) Depth() int {
	n := 0
	for p := s.parent; p != nil; p = p.parent {
		n++
	}

	return n
}

// Arg returns the value bound to the declared argument name.
//
// Reading an undeclared name is a programming error in the function body
// and panics with [pkg.ErrInternal].
func (s *Scope) Arg(name string) string {
	v, ok := s.Lookup(name)
	if !ok {
		panic(pkg.ErrInternal.
			With(slog.String("function", s.spec.fn), slog.String("argument", name)).
			Wrapf("%s: read of undeclared argument %s", s.spec.fn, name))
	}

	return v
}

// Words returns the value bound to name split into whitespace-separated
// words.
func (s *Scope) Words(name string) []string {
	return words.Split(s.Arg(name))
}

// Lookup returns the value bound to name and whether name is declared.
func (s *Scope) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}

	v, ok := s.values[name]

	return v, ok
}

// Given reports whether the caller supplied name explicitly.
func (s *Scope) Given(name string) bool {
	return s != nil && s.given[name]
}

// Names returns the declared argument names in declaration order.
func (s *Scope) Names() []string { return s.spec.Names() }

// LogValue implements slog.LogValuer, listing the supplied arguments.
func (s *Scope) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("function", s.spec.fn)}

	for _, p := range s.spec.params {
		if s.given[p.Name] {
			attrs = append(attrs, slog.String(p.Name, s.values[p.Name]))
		}
	}

	return slog.GroupValue(attrs...)
}

type scopeKey struct{}

// WithScope returns a copy of ctx carrying s as the active scope.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the innermost active scope carried by ctx, or nil when
// ctx is not inside a call.
func ScopeFrom(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeKey{}).(*Scope)

	return s
}
