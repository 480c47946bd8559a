package tool

import (
	"log/slog"
	"strings"
)

// State is the resolution state of a tool.
type State int

const (
	StateUnset     State = iota // unset
	StateResolved               // resolved
	StateValidated              // validated
	StateFailed                 // failed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateResolved:
		return "resolved"
	case StateValidated:
		return "validated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Final reports whether s is a terminal state.
func (s State) Final() bool { return s == StateValidated || s == StateFailed }

// Strategy names the precedence step that produced a record.
type Strategy string

const (
	StrategySearch      Strategy = "search"
	StrategyEnvironment Strategy = "environment"
	StrategyCommandLine Strategy = "command line"
	StrategyDisabled    Strategy = "disabled"
	StrategyBuiltin     Strategy = "builtin"
)

// Record is the resolution of one tool variable.
type Record struct {
	Name     string   `json:"name"              yaml:"name"`
	Path     string   `json:"path,omitempty"    yaml:"path,omitempty"`
	Args     []string `json:"args,omitempty"    yaml:"args,omitempty,flow"`
	State    State    `json:"state"             yaml:"state"`
	Strategy Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
}

// Value returns the command line the tool variable resolved to: the path
// followed by any trailing arguments. It is "" for an unresolved or
// disabled tool.
func (r Record) Value() string {
	if r.Path == "" {
		return ""
	}

	return strings.Join(append([]string{r.Path}, r.Args...), " ")
}

// Argv returns the resolved command line as an argument vector.
func (r Record) Argv() []string {
	if r.Path == "" {
		return nil
	}

	return append([]string{r.Path}, r.Args...)
}

// LogValue implements slog.LogValuer.
func (r Record) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", r.Name),
		slog.String("value", r.Value()),
		slog.String("state", r.State.String()),
		slog.String("strategy", string(r.Strategy)),
	)
}
