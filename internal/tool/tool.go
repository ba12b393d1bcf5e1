// Package tool is the boundary to the external experiment program. The
// sequencer treats the tool as an opaque collaborator: it launches
// `<tool> <subcommand> <config>` as a child process, inherits its output
// streams, and reports only whether the process exited cleanly.
package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/vk/seqrungo/internal/ctxlog"
)

// Tool runs one subcommand of the external program against one
// configuration file, blocking until the child process terminates.
type Tool interface {
	Run(ctx context.Context, subcommand, configPath string) error
}

// ExitError reports a child process that terminated with a non-zero status.
type ExitError struct {
	Code int
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return fmt.Sprintf("tool exited with status %d", e.Code)
}

// ExitCode extracts the child's exit status from an error returned by a
// Tool. It returns -1 when the error does not carry one (e.g. the binary
// could not be started at all).
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// ExecTool is the os/exec implementation of Tool.
type ExecTool struct {
	// Binary is the tool executable, resolved via PATH like a shell would.
	Binary string

	// Workdir, when non-empty, is the working directory for every child
	// process.
	Workdir string

	// Stdout and Stderr receive the child's output streams. The tool's own
	// output is the user-visible output of a sequence run, so the defaults
	// should be the parent's streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecTool creates an ExecTool launching the given binary.
func NewExecTool(binary, workdir string, stdout, stderr io.Writer) *ExecTool {
	return &ExecTool{
		Binary:  binary,
		Workdir: workdir,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// Run launches the tool and waits for it to terminate. Context cancellation
// kills the child process.
func (t *ExecTool) Run(ctx context.Context, subcommand, configPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Launching external tool.",
		"binary", t.Binary, "subcommand", subcommand, "config", configPath)

	cmd := exec.CommandContext(ctx, t.Binary, subcommand, configPath)
	cmd.Dir = t.Workdir
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	// Prefer a context error so cancellation is not misreported as a tool
	// failure.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to start %s: %w", t.Binary, err)
}
