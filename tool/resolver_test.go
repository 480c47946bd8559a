package tool

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/pkg"
)

func writeExec(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	return path
}

// noRunner fails the test if the resolver tries to spawn a process.
func noRunner(t *testing.T) Runner {
	t.Helper()

	return RunnerFunc(func(_ context.Context, argv []string) (Output, error) {
		t.Errorf("unexpected command: %q", argv)

		return Output{}, nil
	})
}

type fixture struct {
	bin  string
	vars *Vars
	logs *bytes.Buffer
}

func newFixture(t *testing.T, environ ...string) *fixture {
	t.Helper()

	return &fixture{
		bin:  t.TempDir(),
		vars: NewVars(environ),
		logs: new(bytes.Buffer),
	}
}

func (f *fixture) resolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()

	base := []Option{
		WithVars(f.vars),
		WithSearchPath(f.bin),
		WithShell("/bin/sh"),
		WithRunner(noRunner(t)),
		WithLogger(log.Make(f.logs, log.WithPretty(false), log.WithLevel(log.LevelDebug))),
	}

	return New(append(base, opts...)...)
}

func TestSetupSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		foo := writeExec(t, f.bin, "foo")

		rec, err := f.resolver(t).LookupProgs(ctx, "FOO", "foo")
		require.NoError(t, err)
		assert.Equal(t, foo, rec.Value())
		assert.Equal(t, StateValidated, rec.State)
		assert.Equal(t, StrategySearch, rec.Strategy)
		assert.Contains(t, f.logs.String(), "checking for FOO")
	})

	t.Run("first of several", func(t *testing.T) {
		f := newFixture(t)
		cc := writeExec(t, f.bin, "cc")

		rec, err := f.resolver(t).LookupProgs(ctx, "CC", "gcc clang", "cc")
		require.NoError(t, err)
		assert.Equal(t, cc, rec.Path)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		rec, err := f.resolver(t).LookupProgs(ctx, "FOO", "foo")
		require.NoError(t, err)
		assert.Empty(t, rec.Value())
		assert.Equal(t, StateResolved, rec.State)
	})

	t.Run("not executable", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, os.WriteFile(filepath.Join(f.bin, "foo"), nil, 0o644))

		rec, err := f.resolver(t).LookupProgs(ctx, "FOO", "foo")
		require.NoError(t, err)
		assert.Empty(t, rec.Value())
	})

	t.Run("nil searcher", func(t *testing.T) {
		f := newFixture(t)

		rec, err := f.resolver(t).Setup(ctx, "FOO", nil)
		require.NoError(t, err)
		assert.Equal(t, StateResolved, rec.State)
	})
}

func TestSetupCommandLine(t *testing.T) {
	ctx := context.Background()

	t.Run("path with arguments", func(t *testing.T) {
		f := newFixture(t)
		foo := writeExec(t, f.bin, "foo")
		f.vars.Set("FOO", foo+" --flag -x", OriginCommandLine)

		rec, err := f.resolver(t).RequireProgs(ctx, "FOO", "bar")
		require.NoError(t, err)
		assert.Equal(t, foo, rec.Path)
		assert.Equal(t, []string{"--flag", "-x"}, rec.Args)
		assert.Equal(t, foo+" --flag -x", rec.Value())
		assert.Equal(t, StrategyCommandLine, rec.Strategy)
		assert.True(t, rec.Required)
	})

	t.Run("name searched on path", func(t *testing.T) {
		f := newFixture(t)
		foo := writeExec(t, f.bin, "foo")
		f.vars.Set("FOO", "foo --flag", OriginCommandLine)

		rec, err := f.resolver(t).LookupProgs(ctx, "FOO", "bar")
		require.NoError(t, err)
		assert.Equal(t, foo+" --flag", rec.Value())
	})

	t.Run("missing path", func(t *testing.T) {
		f := newFixture(t)
		f.vars.Set("FOO", "/no/such/tool --flag", OriginCommandLine)

		r := f.resolver(t)

		_, err := r.RequireProgs(ctx, "FOO", "foo")
		require.ErrorIs(t, err, pkg.ErrToolNotExecutable)
		assert.Contains(t, err.Error(), "FOO")

		rec, ok := r.Record("FOO")
		require.True(t, ok)
		assert.Equal(t, StateFailed, rec.State)
	})

	t.Run("path not executable", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(f.bin, "foo")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		f.vars.Set("FOO", path, OriginCommandLine)

		_, err := f.resolver(t).LookupProgs(ctx, "FOO", "foo")
		require.ErrorIs(t, err, pkg.ErrToolNotExecutable)
	})

	t.Run("name not found", func(t *testing.T) {
		f := newFixture(t)
		f.vars.Set("FOO", "nosuchtool", OriginCommandLine)

		_, err := f.resolver(t).LookupProgs(ctx, "FOO", "foo")
		require.ErrorIs(t, err, pkg.ErrToolNotFound)
	})

	t.Run("empty disables", func(t *testing.T) {
		f := newFixture(t)
		writeExec(t, f.bin, "foo")
		f.vars.Set("FOO", "", OriginCommandLine)

		rec, err := f.resolver(t).LookupProgs(ctx, "FOO", "foo")
		require.NoError(t, err)
		assert.Empty(t, rec.Value())
		assert.Equal(t, StrategyDisabled, rec.Strategy)
		assert.Equal(t, StateResolved, rec.State)
	})

	t.Run("empty fails when required", func(t *testing.T) {
		f := newFixture(t)
		writeExec(t, f.bin, "foo")
		f.vars.Set("FOO", "", OriginCommandLine)

		rec, err := f.resolver(t).RequireProgs(ctx, "FOO", "foo")
		require.ErrorIs(t, err, pkg.ErrRequiredToolMissing)
		assert.Contains(t, err.Error(), "FOO")
		assert.Equal(t, StateFailed, rec.State)
	})
}

func TestSetupEnvironment(t *testing.T) {
	ctx := context.Background()

	t.Run("ignored with warning", func(t *testing.T) {
		f := newFixture(t, "FOO=/opt/other/foo")
		foo := writeExec(t, f.bin, "foo")

		rec, err := f.resolver(t).LookupProgs(ctx, "FOO", "foo")
		require.NoError(t, err)
		assert.Equal(t, foo, rec.Value())
		assert.Equal(t, StrategySearch, rec.Strategy)
		assert.Contains(t, f.logs.String(), "level=WARN")
		assert.Contains(t, f.logs.String(), "ignoring value of FOO from the environment")
	})

	t.Run("empty is unset", func(t *testing.T) {
		f := newFixture(t, "FOO=")
		writeExec(t, f.bin, "foo")

		_, err := f.resolver(t).LookupProgs(ctx, "FOO", "foo")
		require.NoError(t, err)
		assert.NotContains(t, f.logs.String(), "level=WARN")
	})

	t.Run("trusted", func(t *testing.T) {
		f := newFixture(t)
		bash := writeExec(t, f.bin, "mybash")
		f.vars.Set("BASH", bash, OriginEnvironment)

		rec, err := f.resolver(t).RequireProgs(ctx, "BASH", "bash")
		require.NoError(t, err)
		assert.Equal(t, bash, rec.Value())
		assert.Equal(t, StrategyEnvironment, rec.Strategy)
		assert.NotContains(t, f.logs.String(), "level=WARN")
	})

	t.Run("custom trusted", func(t *testing.T) {
		f := newFixture(t)
		cc := writeExec(t, f.bin, "mycc")
		f.vars.Set("CC", cc, OriginEnvironment)

		rec, err := f.resolver(t, WithTrusted("CC")).LookupProgs(ctx, "CC", "cc")
		require.NoError(t, err)
		assert.Equal(t, cc, rec.Value())
	})

	t.Run("command line wins", func(t *testing.T) {
		f := newFixture(t)
		env := writeExec(t, f.bin, "envfoo")
		cli := writeExec(t, f.bin, "clifoo")

		f.vars.Set("FOO", cli, OriginCommandLine)
		assert.False(t, f.vars.Set("FOO", env, OriginEnvironment))

		rec, err := f.resolver(t, WithTrusted("FOO")).LookupProgs(ctx, "FOO", "foo")
		require.NoError(t, err)
		assert.Equal(t, cli, rec.Value())
		assert.Equal(t, StrategyCommandLine, rec.Strategy)
	})
}

func TestSetupOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	foo := writeExec(t, f.bin, "foo")
	bar := writeExec(t, f.bin, "bar")

	r := f.resolver(t)

	first, err := r.LookupProgs(ctx, "FOO", "foo")
	require.NoError(t, err)

	f.vars.Set("FOO", bar, OriginCommandLine)

	second, err := r.LookupProgs(ctx, "FOO", "bar")
	require.NoError(t, err)
	assert.Equal(t, foo, second.Value())
	assert.Equal(t, first, second)
}

func TestSetupFailureRepeats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	writeExec(t, f.bin, "foo")
	f.vars.Set("FOO", "/no/such/tool", OriginCommandLine)

	r := f.resolver(t)

	_, err := r.Setup(ctx, "FOO", Progs("foo"))
	require.ErrorIs(t, err, pkg.ErrToolNotExecutable)

	rec, again := r.Setup(ctx, "FOO", Progs("foo"))
	require.ErrorIs(t, again, pkg.ErrToolNotExecutable)
	assert.Equal(t, err, again)
	assert.Equal(t, StateFailed, rec.State)

	_, err = r.LookupProgs(ctx, "FOO", "foo")
	require.ErrorIs(t, err, pkg.ErrToolNotExecutable)
}

func TestToolchainProgs(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	cross := writeExec(t, f.bin, "arm-none-eabi-gcc")
	native := writeExec(t, f.bin, "gcc")

	r := f.resolver(t, WithToolchainPrefix("arm-none-eabi-"))

	rec, err := r.RequireToolchainProgs(ctx, "CC", "", "gcc")
	require.NoError(t, err)
	assert.Equal(t, cross, rec.Path)

	rec, err = r.LookupToolchainProgs(ctx, "HOSTCC", "x86_64-linux-gnu-", "gcc")
	require.NoError(t, err)
	assert.Equal(t, native, rec.Path)
}

func TestToolchainProgsDefaultPrefix(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	a := writeExec(t, f.bin, "a-gcc")
	b := writeExec(t, f.bin, "b-gcc")

	search := ToolchainProgs("", "gcc")

	rec, err := f.resolver(t, WithToolchainPrefix("a-")).Setup(ctx, "CC", search)
	require.NoError(t, err)
	assert.Equal(t, a, rec.Path)

	rec, err = f.resolver(t, WithToolchainPrefix("b-")).Setup(ctx, "CC", search)
	require.NoError(t, err)
	assert.Equal(t, b, rec.Path)
}

func TestBuiltin(t *testing.T) {
	ctx := context.Background()

	shell := RunnerFunc(func(_ context.Context, argv []string) (Output, error) {
		if len(argv) != 5 || argv[2] != `command -V "$1"` {
			t.Errorf("unexpected shell command: %q", argv)
		}

		switch argv[len(argv)-1] {
		case "cd":
			return Output{Stdout: "cd is a shell builtin\n"}, nil
		default:
			return Output{Stderr: "not found\n", Status: 1}, nil
		}
	})

	t.Run("on path", func(t *testing.T) {
		f := newFixture(t)
		cd := writeExec(t, f.bin, "cd")

		rec, err := f.resolver(t).RequireBuiltinProgs(ctx, "CD", "cd")
		require.NoError(t, err)
		assert.Equal(t, cd, rec.Path)
	})

	t.Run("shell builtin", func(t *testing.T) {
		f := newFixture(t)

		rec, err := f.resolver(t, WithRunner(shell)).RequireBuiltinProgs(ctx, "CD", "cd")
		require.NoError(t, err)
		assert.Equal(t, "cd", rec.Value())
		assert.Equal(t, StrategyBuiltin, rec.Strategy)
	})

	t.Run("name is not script text", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.resolver(t, WithRunner(shell)).RequireBuiltinProgs(ctx, "X", "cd;touch")
		require.ErrorIs(t, err, pkg.ErrBuiltinNotFound)
	})

	t.Run("neither", func(t *testing.T) {
		f := newFixture(t)

		r := f.resolver(t, WithRunner(shell))

		_, err := r.RequireBuiltinProgs(ctx, "NOPE", "nope")
		require.ErrorIs(t, err, pkg.ErrBuiltinNotFound)

		rec, _ := r.Record("NOPE")
		assert.Equal(t, StateFailed, rec.State)
	})
}

func TestRequireSpecial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	env := writeExec(t, f.bin, "env")

	rec, err := f.resolver(t).RequireSpecial(ctx, "PYTHON", "env python3 -B")
	require.NoError(t, err)
	assert.Equal(t, env+" python3 -B", rec.Value())

	_, err = f.resolver(t).RequireSpecial(ctx, "OTHER", "/no/such/thing")
	require.ErrorIs(t, err, pkg.ErrToolNotExecutable)
}

func TestExtraPaths(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	writeExec(t, f.bin, "foo")

	extra := t.TempDir()
	preferred := writeExec(t, extra, "foo")

	r := f.resolver(t, WithExtraPaths(extra))
	assert.Equal(t, extra+string(os.PathListSeparator)+f.bin, r.SearchPath())

	rec, err := r.LookupProgs(ctx, "FOO", "foo")
	require.NoError(t, err)
	assert.Equal(t, preferred, rec.Path)

	other := t.TempDir()
	inOther := writeExec(t, other, "bar")

	rec, err = r.Setup(ctx, "BAR", ProgsIn([]string{other}, "bar"))
	require.NoError(t, err)
	assert.Equal(t, inOther, rec.Path)
}

func TestCheckNonEmptyUnknown(t *testing.T) {
	f := newFixture(t)
	r := f.resolver(t)

	_, err := r.CheckNonEmpty(context.Background(), "NEVER")
	require.ErrorIs(t, err, pkg.ErrRequiredToolMissing)
	assert.Contains(t, err.Error(), "NEVER")
}

func TestRecordsAndHelp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	writeExec(t, f.bin, "b")
	writeExec(t, f.bin, "a")

	r := f.resolver(t)

	_, err := r.LookupProgs(ctx, "ZED", "b")
	require.NoError(t, err)
	_, err = r.LookupProgs(ctx, "ALPHA", "a")
	require.NoError(t, err)

	r.Declare("LATER")

	recs := r.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "ALPHA", recs[0].Name)
	assert.Equal(t, "ZED", recs[1].Name)

	help := r.Help()
	require.Len(t, help, 3)
	assert.Equal(t, "ZED", help[0].Name)
	assert.Equal(t, "Override default value for ZED", help[0].Text)
	assert.Equal(t, "LATER", help[2].Name)

	assert.Equal(t, map[string]string{
		"ALPHA": filepath.Join(f.bin, "a"),
		"ZED":   filepath.Join(f.bin, "b"),
	}, r.Values())
}
