// Package executor captures the command output handed to the analysis core,
// either by running a shell command or by draining piped input.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// PipedCommand is the placeholder command name recorded when output arrives
// over stdin instead of from a command cmdrx ran itself.
const PipedCommand = "<piped input>"

// Result is a command's captured output.
type Result struct {
	Command  string
	Output   string // labeled STDOUT/STDERR sections
	ExitCode int
	Piped    bool // true when read from stdin; ExitCode is meaningless then
}

// Empty reports whether there is nothing worth analyzing.
func (r *Result) Empty() bool {
	return strings.TrimSpace(r.Output) == ""
}

// Run executes command through the shell, capturing stdout and stderr.
// A non-zero exit is not an error here; the exit code is part of what gets
// analyzed. Only spawn failures and timeouts are errors.
func Run(ctx context.Context, command string, timeout time.Duration) (*Result, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("command %q timed out after %s", command, timeout)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("command %q failed to run: %w", command, err)
		}
	}

	var parts []string
	if stdout.Len() > 0 {
		parts = append(parts, "STDOUT:\n"+stdout.String())
	}
	if stderr.Len() > 0 {
		parts = append(parts, "STDERR:\n"+stderr.String())
	}

	return &Result{
		Command:  command,
		Output:   strings.Join(parts, "\n"),
		ExitCode: exitCode,
	}, nil
}

// ReadPiped drains r (normally stdin) into a Result with no exit code.
func ReadPiped(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read piped input: %w", err)
	}
	return &Result{
		Command: PipedCommand,
		Output:  string(data),
		Piped:   true,
	}, nil
}
