package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"imgpack/internal/executer"
)

// Default name of the container CLI binary, resolved via PATH.
const DefaultBinary = "docker"

// Drives the Docker command-line interface.
//
// Every operation maps to exactly one CLI invocation. The client never talks
// to the daemon or a registry directly; whatever the installed CLI can reach,
// the client can package.
type Client struct {
	bin  string            // CLI binary to invoke.
	exec executer.Executer // Runs the commands.
	out  io.Writer         // Receives streamed output from long commands.
}

// Creates a client that shells out to the docker binary on PATH.
//
// A nil exec installs the default os/exec-backed implementation; tests pass
// a fake to capture invocations.
func New(exec executer.Executer) *Client {
	if exec == nil {
		exec = executer.New()
	}
	return &Client{
		bin:  DefaultBinary,
		exec: exec,
		out:  os.Stdout,
	}
}

// Executes a CLI subcommand, converting a non-zero exit into an error.
//
// desc labels the operation in error messages; args is the full argument
// vector after the binary name.
func (c *Client) run(ctx context.Context, desc string, args ...string) (*executer.Result, error) {
	res, err := c.exec.Execute(ctx, c.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDocker, desc, err)
	}
	if res.ExitCode != 0 {
		return res, fmt.Errorf("%w: %s: exit code %d (%s)", ErrCommandFailed, desc, res.ExitCode, firstLine(res.Stderr))
	}
	return res, nil
}

// Returns the first non-blank line of s, for compact error messages.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "no output"
}
