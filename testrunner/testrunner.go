package testrunner

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/week8/rpnserver/logger"
)

// Runner launches an external test target, typically `make <target>`, against a running server.
type Runner struct {
	Command string
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewRunner builds a Runner which forwards the child's output to stdout and stderr.
func NewRunner(command string, stdout, stderr io.Writer) *Runner {
	return &Runner{
		Command: command,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// Run executes the command with target as its only argument and returns the child's exit code.
// An error is returned only when the child could not be started or did not exit normally.
func (r *Runner) Run(ctx context.Context, target string) (int, error) {
	logger.Infof("launching tests: %s %s", r.Command, target)

	cmd := exec.CommandContext(ctx, r.Command, target) //nolint:gosec // G204: command comes from configuration
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
