package tool

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"

	"github.com/ardnew/toolconf/pkg"
)

// Output is the captured result of running a command.
type Output struct {
	Stdout string
	Stderr string
	Status int
}

// Runner executes commands on behalf of a [Resolver].
//
// A non-zero exit status is not an error; it is reported in [Output.Status].
// Run returns an error only when the command could not be started or was
// interrupted by ctx.
type Runner interface {
	Run(ctx context.Context, argv []string) (Output, error)
}

// RunnerFunc adapts a function to the [Runner] interface.
type RunnerFunc func(ctx context.Context, argv []string) (Output, error)

// Run calls f(ctx, argv).
func (f RunnerFunc) Run(ctx context.Context, argv []string) (Output, error) {
	return f(ctx, argv)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// Env is the environment of the child. A nil Env inherits the
	// environment of the current process.
	Env []string
	// Path is searched for commands given by name. An empty Path uses the
	// PATH of the current process.
	Path string
	// Dir is the working directory of the child.
	Dir string
}

// Run implements [Runner].
func (e ExecRunner) Run(ctx context.Context, argv []string) (Output, error) {
	if len(argv) == 0 {
		return Output{}, pkg.ErrInternal.Wrapf("empty command")
	}

	name := argv[0]
	if e.Path != "" {
		if found, ok := lookIn(e.Path, name); ok {
			name = found
		}
	}

	cmd := exec.CommandContext(ctx, name, argv[1:]...)
	cmd.Env = e.Env
	cmd.Dir = e.Dir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		out.Status = exitErr.ExitCode()

		return out, nil
	}

	if err != nil {
		return out, pkg.WrapError(err).With(slog.String("command", argv[0]))
	}

	return out, nil
}
