package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/toolconf/log"
	"github.com/ardnew/toolconf/manifest"
	"github.com/ardnew/toolconf/pkg"
)

// kongContext returns a context carrying a kong context parsed from args
// over a small application with one flag, writing output to out.
func kongContext(t *testing.T, out *bytes.Buffer, vars kong.Vars, args ...string) context.Context {
	t.Helper()

	var cli struct {
		LogLevel string `default:"info" name:"log-level"`
		Debug    bool   `name:"debug"`
		Version  Version `cmd:""`
	}

	parser, err := kong.New(&cli, vars, kong.Writers(out, out))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append(args, "version"))
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func quiet(t *testing.T) {
	t.Helper()

	prev := log.SetDefault(log.Make(new(bytes.Buffer)))
	t.Cleanup(func() { log.SetDefault(prev) })
}

func TestInit_Manifest(t *testing.T) {
	quiet(t)

	path := filepath.Join(t.TempDir(), pkg.ManifestFile)
	ctx := kongContext(t, new(bytes.Buffer), nil)

	if err := (&Init{Path: path}).Run(ctx); err != nil {
		t.Fatalf("Init.Run() error = %v", err)
	}

	m, err := manifest.LoadFile(path)
	if err != nil {
		t.Fatalf("generated manifest is invalid: %v", err)
	}

	calls, err := m.Calls()
	if err != nil {
		t.Fatalf("generated manifest calls are invalid: %v", err)
	}

	if len(calls) == 0 {
		t.Error("generated manifest has no steps")
	}

	err = (&Init{Path: path}).Run(ctx)
	if !errors.Is(err, pkg.ErrFileExists) || !errors.Is(err, pkg.ErrWriteManifest) {
		t.Errorf("second Init.Run() error = %v, want file exists", err)
	}

	if err := (&Init{Path: path, Force: true}).Run(ctx); err != nil {
		t.Errorf("Init.Run(force) error = %v", err)
	}
}

func TestInit_Config(t *testing.T) {
	quiet(t)

	path := filepath.Join(t.TempDir(), pkg.ConfigFile)
	ctx := kongContext(t, new(bytes.Buffer), kong.Vars{ConfigIdentifier: path}, "--log-level=debug", "--debug")

	if err := (&Init{Config: true}).Run(ctx); err != nil {
		t.Fatalf("Init.Run() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	got := string(data)
	for _, want := range []string{"log_level: debug", "debug: true"} {
		if !strings.Contains(got, want) {
			t.Errorf("config %q missing %q", got, want)
		}
	}

	if strings.Contains(got, "help") {
		t.Errorf("config %q contains the help flag", got)
	}

	err = (&Init{Config: true}).Run(ctx)
	if !errors.Is(err, pkg.ErrWriteConfig) || !errors.Is(err, pkg.ErrFileExists) {
		t.Errorf("second Init.Run() error = %v, want file exists", err)
	}
}

func TestVars(t *testing.T) {
	quiet(t)

	path := filepath.Join(t.TempDir(), pkg.ManifestFile)

	err := os.WriteFile(path, []byte(`
steps:
  - LOOKUP_PROGS: {VAR: CC, PROGS: gcc cc}
  - ARG_WITH: {NAME: libc, DEFAULT: glibc, DESC: C library}
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	ctx := kongContext(t, &out, nil)

	if err := (&Vars{Manifest: path, Sort: true}).Run(ctx); err != nil {
		t.Fatalf("Vars.Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("vars output = %q, want 2 entries", out.String())
	}

	if !strings.Contains(lines[0], "--with-libc") || !strings.Contains(lines[0], "C library [glibc]") {
		t.Errorf("first entry = %q", lines[0])
	}

	if !strings.Contains(lines[1], "CC") || !strings.Contains(lines[1], "Override default value for CC") {
		t.Errorf("second entry = %q", lines[1])
	}
}

func TestCall(t *testing.T) {
	quiet(t)

	t.Run("list", func(t *testing.T) {
		var out bytes.Buffer

		if err := (&Call{List: true}).Run(kongContext(t, &out, nil)); err != nil {
			t.Fatal(err)
		}

		for _, want := range []string{"REQUIRE_PROGS(*VAR, *PROGS", "CHECK_VALUES(*VALUES"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("list output %q missing %q", out.String(), want)
			}
		}
	})

	t.Run("run", func(t *testing.T) {
		var out bytes.Buffer

		c := &Call{
			Report: Report{Format: "yaml"},
			Script: "CHECK_VALUES(VALUES: x86 arm, LEGAL: x86 arm riscv)\n" +
				"ARG_WITH(NAME: arch, DEFAULT: x86)",
			Args: []string{"--with-arch=arm"},
		}

		if err := c.Run(kongContext(t, &out, nil)); err != nil {
			t.Fatalf("Call.Run() error = %v", err)
		}

		for _, want := range []string{"WITH_ARCH", "value: arm"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("report %q missing %q", out.String(), want)
			}
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		c := &Call{
			Report: Report{Format: "text"},
			Script: "CHECK_VALUES(VALUES: sparc, LEGAL: x86 arm)",
		}

		err := c.Run(kongContext(t, new(bytes.Buffer), nil))
		if !errors.Is(err, pkg.ErrInvalidValue) {
			t.Errorf("Call.Run() error = %v, want invalid value", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		err := (&Call{Report: Report{Format: "text"}}).Run(kongContext(t, new(bytes.Buffer), nil))
		if !errors.Is(err, pkg.ErrSyntax) {
			t.Errorf("Call.Run() error = %v, want syntax error", err)
		}
	})
}

func TestReport_WriteToFile(t *testing.T) {
	quiet(t)

	path := filepath.Join(t.TempDir(), "report.json")

	c := &Call{
		Report: Report{Format: "json", Output: path},
		Script: "ARG_ENABLE(NAME: lto, DEFAULT: false)",
	}

	if err := c.Run(kongContext(t, new(bytes.Buffer), nil)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), `"ENABLE_LTO"`) {
		t.Errorf("report file = %q", data)
	}
}
