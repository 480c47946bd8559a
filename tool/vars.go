package tool

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// Origin records where a variable's value came from. Larger origins take
// precedence over smaller ones.
type Origin int

const (
	OriginUnset       Origin = iota // unset
	OriginEnvironment               // environment
	OriginCommandLine               // command line
)

// String returns the name of the origin.
func (o Origin) String() string {
	switch o {
	case OriginUnset:
		return "unset"
	case OriginEnvironment:
		return "environment"
	case OriginCommandLine:
		return "command line"
	default:
		return "unknown"
	}
}

// Var is a variable value together with its origin.
type Var struct {
	Value  string
	Origin Origin
}

// Vars is a store of variables that tools are resolved from.
type Vars struct {
	vars map[string]Var
}

// NewVars returns a store seeded from environ, a list of "KEY=VALUE"
// strings such as returned by [os.Environ]. Every seeded variable has
// [OriginEnvironment].
func NewVars(environ []string) *Vars {
	vs := &Vars{vars: make(map[string]Var, len(environ))}

	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if ok && key != "" {
			vs.vars[key] = Var{Value: value, Origin: OriginEnvironment}
		}
	}

	return vs
}

// Environ returns a store seeded from the process environment.
func Environ() *Vars { return NewVars(os.Environ()) }

// Set assigns value to key unless key already holds a value of higher
// origin. It reports whether the assignment took effect.
func (vs *Vars) Set(key, value string, origin Origin) bool {
	if existing, ok := vs.vars[key]; ok && existing.Origin > origin {
		return false
	}

	vs.vars[key] = Var{Value: value, Origin: origin}

	return true
}

// Lookup returns the variable stored as key.
func (vs *Vars) Lookup(key string) (Var, bool) {
	v, ok := vs.vars[key]

	return v, ok
}

// Get returns the value of key, or "" if it is unset.
func (vs *Vars) Get(key string) string { return vs.vars[key].Value }

// Keys returns the variable names in sorted order.
func (vs *Vars) Keys() []string { return slices.Sorted(maps.Keys(vs.vars)) }

// Environ renders the store as a sorted "KEY=VALUE" list, the form expected
// by [ExecRunner.Env].
func (vs *Vars) Environ() []string {
	keys := vs.Keys()
	out := make([]string, 0, len(keys))

	for _, k := range keys {
		out = append(out, k+"="+vs.vars[k].Value)
	}

	return out
}
