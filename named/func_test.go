package named

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ardnew/toolconf/pkg"
)

func TestBindOptionalDefaultsEmpty(t *testing.T) {
	var foo, bar string

	fn := MustDefine("F", []string{"FOO", "*BAR"}, func(_ context.Context, s *Scope) error {
		foo, bar = s.Arg("FOO"), s.Arg("BAR")

		return nil
	})

	call, err := ParseCall("F(BAR: [hello])")
	if err != nil {
		t.Fatalf("ParseCall: %v", err)
	}

	if err := fn.Call(context.Background(), call.Args...); err != nil {
		t.Fatalf("Call: %v", err)
	}

	if foo != "" || bar != "hello" {
		t.Errorf("FOO=%q BAR=%q, want FOO=\"\" BAR=\"hello\"", foo, bar)
	}
}

func TestBindMissingRequired(t *testing.T) {
	fn := MustDefine("F", []string{"*BAR"}, func(context.Context, *Scope) error {
		t.Error("body ran despite missing argument")

		return nil
	})

	err := fn.Call(context.Background())
	if !errors.Is(err, pkg.ErrMissingRequired) {
		t.Fatalf("Call() error = %v, want ErrMissingRequired", err)
	}

	if !strings.Contains(err.Error(), "BAR") {
		t.Errorf("error %q does not name BAR", err)
	}
}

func TestBindUnknownArgument(t *testing.T) {
	fn := MustDefine("F", []string{"VAR", "PROGS"}, func(context.Context, *Scope) error { return nil })

	err := fn.Call(context.Background(), Arg{Name: "PRGS", Value: "cc"})
	if !errors.Is(err, pkg.ErrUnknownArgument) {
		t.Fatalf("Call() error = %v, want ErrUnknownArgument", err)
	}

	for _, want := range []string{"PRGS", "VAR PROGS", "did you mean PROGS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestBindDuplicateArgument(t *testing.T) {
	fn := MustDefine("F", []string{"A"}, func(context.Context, *Scope) error { return nil })

	err := fn.Call(context.Background(), Arg{Name: "A", Value: "1"}, Arg{Name: "A", Value: "2"})
	if !errors.Is(err, pkg.ErrDuplicateArgument) {
		t.Fatalf("Call() error = %v, want ErrDuplicateArgument", err)
	}
}

func TestBindOrderInsignificant(t *testing.T) {
	fn := MustDefine("F", []string{"*A", "*B"}, func(context.Context, *Scope) error { return nil })

	s, err := fn.Bind(context.Background(), Arg{Name: "B", Value: "b"}, Arg{Name: "A", Value: "a"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if s.Arg("A") != "a" || s.Arg("B") != "b" {
		t.Errorf("A=%q B=%q", s.Arg("A"), s.Arg("B"))
	}

	if !s.Given("A") || s.Given("C") {
		t.Error("Given reports wrong supplied set")
	}
}

func TestScopeArgUndeclaredPanics(t *testing.T) {
	fn := MustDefine("F", []string{"A"}, func(context.Context, *Scope) error { return nil })

	s, err := fn.Bind(context.Background())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	defer func() {
		r := recover()

		err, ok := r.(error)
		if !ok || !errors.Is(err, pkg.ErrInternal) {
			t.Errorf("recover() = %v, want ErrInternal", r)
		}
	}()

	s.Arg("B")
}

func TestNestedCallsDoNotLeak(t *testing.T) {
	var (
		seen  []string
		inner *Func
	)

	inner = MustDefine("F", []string{"X", "DEPTH"}, func(ctx context.Context, s *Scope) error {
		seen = append(seen, s.Arg("X"))

		if s.Arg("DEPTH") == "" {
			if err := inner.Call(ctx, Arg{Name: "DEPTH", Value: "1"}); err != nil {
				return err
			}

			if s.Parent() != nil {
				t.Error("outer scope has a parent")
			}
		} else if s.Parent() == nil || s.Parent().Arg("X") != "outer" {
			t.Error("inner scope does not see outer scope as parent")
		}

		// The outer binding survives the inner call.
		seen = append(seen, s.Arg("X"))

		return nil
	})

	if err := inner.Call(context.Background(), Arg{Name: "X", Value: "outer"}); err != nil {
		t.Fatalf("Call: %v", err)
	}

	want := []string{"outer", "", "", "outer"}
	if !slices.Equal(seen, want) {
		t.Errorf("seen = %q, want %q", seen, want)
	}

	if ScopeFrom(context.Background()) != nil {
		t.Error("scope leaked into background context")
	}
}

func TestParseSpecInvalid(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		decl []string
	}{
		{"empty name", "F", []string{"*"}},
		{"duplicate", "F", []string{"A", "*A"}},
		{"bad function", "", nil},
		{"bad char", "F", []string{"A-B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSpec(tt.fn, tt.decl...); !errors.Is(err, pkg.ErrInternal) {
				t.Errorf("ParseSpec error = %v, want ErrInternal", err)
			}
		})
	}
}

func TestSpecString(t *testing.T) {
	spec, err := ParseSpec("F", "FOO", "*BAR")
	if err != nil {
		t.Fatal(err)
	}

	if got := spec.String(); got != "F(FOO, *BAR)" {
		t.Errorf("String() = %q", got)
	}

	if got := spec.Required(); !slices.Equal(got, []string{"BAR"}) {
		t.Errorf("Required() = %q", got)
	}
}

func TestBindProperty(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("binding succeeds iff all required names are supplied", prop.ForAll(
		func(required, supplied []bool) bool {
			decl := make([]string, len(names))
			args := Args{}
			ok := true

			for i, n := range names {
				decl[i] = n
				if required[i] {
					decl[i] = RequiredMarker + n
				}

				if supplied[i] {
					args = append(args, Arg{Name: n, Value: n})
				} else if required[i] {
					ok = false
				}
			}

			fn := MustDefine("F", decl, func(context.Context, *Scope) error { return nil })
			err := fn.Call(context.Background(), args...)

			return (err == nil) == ok && (err == nil || errors.Is(err, pkg.ErrMissingRequired))
		},
		gen.SliceOfN(len(names), gen.Bool()),
		gen.SliceOfN(len(names), gen.Bool()),
	))

	properties.TestingRun(t)
}
