// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Command describes one subprocess invocation.
type Command struct {
	// Name is the program to run: a bare name resolved on PATH or an
	// absolute path.
	Name string

	// Args are the arguments after the program name.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is the complete environment in KEY=VALUE form. Nil inherits
	// the current process environment.
	Env []string

	// Quiet suppresses streaming of the subprocess output. Stderr is
	// still captured and included in the error on failure.
	Quiet bool
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner starts subprocesses. Every external tool the build pipeline
// invokes (git, python, bazel, c-for-go) goes through a Runner so that
// tests can substitute a [Fake].
type Runner interface {
	// Run executes the command and waits for it to finish. A non-zero
	// exit status is an error.
	Run(ctx context.Context, command Command) error

	// Output executes the command and returns its stdout. Output never
	// streams, regardless of Command.Quiet.
	Output(ctx context.Context, command Command) (string, error)

	// LookPath resolves a program name against PATH.
	LookPath(name string) (string, error)
}

// Exec is the production Runner backed by os/exec.
type Exec struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// NewExec returns a Runner that streams subprocess output to stdout and
// stderr. A nil writer discards that stream. Each command line is logged
// at debug level before it starts.
func NewExec(logger *slog.Logger, stdout, stderr io.Writer) *Exec {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Exec{stdout: stdout, stderr: stderr, logger: logger}
}

// Run executes command. Stderr is teed into a buffer so that a failure
// reports what the tool printed, not only its exit status.
func (e *Exec) Run(ctx context.Context, command Command) error {
	var stderr bytes.Buffer
	cmd := e.command(ctx, command)
	if command.Quiet {
		cmd.Stdout = io.Discard
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = e.stdout
		cmd.Stderr = io.MultiWriter(e.stderr, &stderr)
	}

	e.logger.Debug("running command", "command", command.String(), "dir", command.Dir)
	if err := cmd.Run(); err != nil {
		return FormatError(command, &stderr, err)
	}
	return nil
}

// Output executes command and returns its stdout.
func (e *Exec) Output(ctx context.Context, command Command) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := e.command(ctx, command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("running command", "command", command.String(), "dir", command.Dir)
	if err := cmd.Run(); err != nil {
		return "", FormatError(command, &stderr, err)
	}
	return stdout.String(), nil
}

// LookPath resolves name with exec.LookPath.
func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *Exec) command(ctx context.Context, command Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	if command.Env != nil {
		cmd.Env = command.Env
	}
	return cmd
}

// Error is returned when a subprocess fails to start or exits non-zero.
type Error struct {
	// Command is the failed invocation.
	Command Command

	// ExitCode is the process exit status, or -1 when the process did
	// not start or was killed by a signal.
	ExitCode int

	// Stderr is the trimmed standard error output, possibly empty.
	Stderr string

	// Err is the underlying os/exec error.
	Err error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", e.Command.String(), lastLines(e.Stderr, 20))
	}
	return fmt.Sprintf("%s: %v", e.Command.String(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FormatError wraps a failed command in an [*Error], preferring the
// tool's stderr over the generic exec error in the message.
func FormatError(command Command, stderr *bytes.Buffer, err error) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	stderrText := ""
	if stderr != nil {
		stderrText = strings.TrimSpace(stderr.String())
	}
	return &Error{
		Command:  command,
		ExitCode: exitCode,
		Stderr:   stderrText,
		Err:      err,
	}
}

// lastLines keeps the tail of long tool output. Bazel in particular
// prints thousands of progress lines before the actual failure.
func lastLines(text string, count int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= count {
		return text
	}
	return "...\n" + strings.Join(lines[len(lines)-count:], "\n")
}

// Stdio returns a Runner streaming to the process's own stdout and
// stderr. Used by the CLI.
func Stdio(logger *slog.Logger) *Exec {
	return NewExec(logger, os.Stdout, os.Stderr)
}
