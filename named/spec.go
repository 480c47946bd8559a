package named

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/toolconf/pkg"
)

// RequiredMarker prefixes an argument name in a declaration to mark it as
// required.
const RequiredMarker = "*"

// Param is one declared argument of a function.
type Param struct {
	Name     string
	Required bool
}

// Spec is the argument specification of a named-argument function: its name
// and its declared parameters in declaration order. A Spec is immutable.
type Spec struct {
	fn     string
	params []Param
	index  map[string]int
}

// ParseSpec builds a Spec for function fn from declarations such as
// "FOO" (optional) and "*BAR" (required).
//
// An empty name or a name declared twice violates an internal invariant and
// is reported as [pkg.ErrInternal].
func ParseSpec(fn string, decl ...string) (Spec, error) {
	spec := Spec{
		fn:     fn,
		params: make([]Param, 0, len(decl)),
		index:  make(map[string]int, len(decl)),
	}

	if !isIdent(fn) {
		return Spec{}, pkg.ErrInternal.
			With(slog.String("function", fn)).
			Wrapf("invalid function name %q", fn)
	}

	for _, d := range decl {
		name, required := strings.CutPrefix(strings.TrimSpace(d), RequiredMarker)

		if !isIdent(name) {
			return Spec{}, pkg.ErrInternal.
				With(slog.String("function", fn)).
				Wrapf("%s: invalid argument name %q", fn, d)
		}

		if _, dup := spec.index[name]; dup {
			return Spec{}, pkg.ErrInternal.
				With(slog.String("function", fn), slog.String("argument", name)).
				Wrapf("%s: argument %s declared twice", fn, name)
		}

		spec.index[name] = len(spec.params)
		spec.params = append(spec.params, Param{Name: name, Required: required})
	}

	return spec, nil
}

// Function returns the name of the function the Spec describes.
func (s Spec) Function() string { return s.fn }

// Params returns a copy of the declared parameters in declaration order.
func (s Spec) Params() []Param { return slices.Clone(s.params) }

// Names returns the declared argument names in declaration order.
func (s Spec) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}

	return names
}

// Required returns the names of the required arguments in declaration order.
func (s Spec) Required() []string {
	var names []string

	for _, p := range s.params {
		if p.Required {
			names = append(names, p.Name)
		}
	}

	return names
}

// Has reports whether name is a declared argument.
func (s Spec) Has(name string) bool {
	_, ok := s.index[name]

	return ok
}

// String returns the declaration form of the Spec, as in "F(FOO, *BAR)".
func (s Spec) String() string {
	decl := make([]string, len(s.params))

	for i, p := range s.params {
		if p.Required {
			decl[i] = RequiredMarker + p.Name
		} else {
			decl[i] = p.Name
		}
	}

	return s.fn + "(" + strings.Join(decl, ", ") + ")"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
