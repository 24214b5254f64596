package executer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// Output of a completed external command.
type Result struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Runs external commands and reports their outcome.
//
// A non-zero exit code is not treated as an error; the caller decides how to
// handle it. An error is returned only when the command could not be run at
// all (missing binary, cancelled context) or its output could not be
// collected.
type Executer interface {

	// Runs name with args and captures stdout and stderr separately.
	Execute(ctx context.Context, name string, args ...string) (*Result, error)

	// Runs name with args, streaming combined stdout and stderr to w as the
	// command produces it. The returned result carries no captured output.
	ExecuteStream(ctx context.Context, w io.Writer, name string, args ...string) (*Result, error)

	// Runs name with args, feeding stdin from r and capturing stdout and
	// stderr separately.
	ExecuteInput(ctx context.Context, r io.Reader, name string, args ...string) (*Result, error)
}

// Creates an Executer backed by os/exec.
func New() Executer {
	return &executer{}
}

type executer struct{}

func (e *executer) Execute(ctx context.Context, name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	return finish(ctx, cmd.Run(), stdout.String(), stderr.String())
}

func (e *executer) ExecuteStream(ctx context.Context, w io.Writer, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = w
	cmd.Stderr = w

	return finish(ctx, cmd.Run(), "", "")
}

func (e *executer) ExecuteInput(ctx context.Context, r io.Reader, name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	return finish(ctx, cmd.Run(), stdout.String(), stderr.String())
}

// Converts the outcome of a Run into a Result.
//
// A process killed by context cancellation reports the context error rather
// than the synthetic exit status of the killed process.
func finish(ctx context.Context, err error, stdout, stderr string) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result := &Result{
		Stdout: stdout,
		Stderr: stderr,
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return nil, err
}
