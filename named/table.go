package named

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/words"
)

// Table is a registry of named-argument functions addressable by name.
type Table struct {
	funcs map[string]*Func
}

// NewTable returns a Table holding funcs.
func NewTable(funcs ...*Func) (*Table, error) {
	t := &Table{funcs: make(map[string]*Func, len(funcs))}

	for _, f := range funcs {
		if err := t.Add(f); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Add registers f. Registering two functions with the same name violates an
// internal invariant.
func (t *Table) Add(f *Func) error {
	if _, dup := t.funcs[f.Name()]; dup {
		return pkg.ErrInternal.
			With(slog.String("function", f.Name())).
			Wrapf("function %s registered twice", f.Name())
	}

	t.funcs[f.Name()] = f

	return nil
}

// Lookup returns the function registered as name.
func (t *Table) Lookup(name string) (*Func, bool) {
	f, ok := t.funcs[name]

	return f, ok
}

// Names returns the registered function names in sorted order.
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.funcs))
}

// Resolve returns the function c invokes, or [pkg.ErrUnknownFunction].
func (t *Table) Resolve(c Call) (*Func, error) {
	f, ok := t.funcs[c.Name]
	if ok {
		return f, nil
	}

	msg := c.Name
	if hint := words.Suggest(c.Name, t.Names()); len(hint) > 0 {
		msg += "; did you mean " + hint[0] + "?"
	}

	return nil, pkg.ErrUnknownFunction.
		With(slog.String("function", c.Name), slog.String("at", c.Pos.String())).
		Wrapf("%s", msg)
}

// Invoke calls the function named by c with its arguments. Errors are
// annotated with the call's name and position.
func (t *Table) Invoke(ctx context.Context, c Call) error {
	f, err := t.Resolve(c)
	if err != nil {
		return err
	}

	err = f.Call(ctx, c.Args...)
	if err != nil {
		return annotate(err, c)
	}

	return nil
}

// Bind resolves and binds c without running the function body.
func (t *Table) Bind(ctx context.Context, c Call) (*Scope, error) {
	f, err := t.Resolve(c)
	if err != nil {
		return nil, err
	}

	s, err := f.Bind(ctx, c.Args...)
	if err != nil {
		return nil, annotate(err, c)
	}

	return s, nil
}

// Run invokes each call in order and stops at the first error.
func (t *Table) Run(ctx context.Context, calls ...Call) error {
	for _, c := range calls {
		if err := t.Invoke(ctx, c); err != nil {
			return err
		}
	}

	return nil
}

func annotate(err error, c Call) error {
	if c.Pos == (Position{}) {
		return err
	}

	return pkg.WrapError(err).With(slog.String("at", c.Pos.String()))
}
