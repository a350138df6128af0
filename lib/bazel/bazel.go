// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bazel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bureau-foundation/tflitec/lib/runner"
)

// BinaryCandidates are the names tried on PATH when no override is set.
// bazelisk reads .bazelversion from the checkout and fetches the
// matching bazel.
var BinaryCandidates = []string{"bazel", "bazelisk"}

// ErrOutputMissing is returned when bazel exits zero but the expected
// artifact does not exist.
var ErrOutputMissing = errors.New("expected bazel output not found")

// FindBinary resolves the bazel executable: override when non-empty,
// otherwise the first of [BinaryCandidates] on PATH.
func FindBinary(run runner.Runner, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	for _, name := range BinaryCandidates {
		if path, err := run.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("neither %s found on PATH; install bazelisk or set TFLITEC_BAZEL",
		strings.Join(BinaryCandidates, " nor "))
}

// RunOptions configures [Run].
type RunOptions struct {
	// Binary is the bazel executable, from [FindBinary].
	Binary string

	// Python is the interpreter that runs configure.py.
	Python string

	// Env is the complete environment for both steps, carrying the
	// configure.py answers.
	Env []string

	Logger *slog.Logger
}

// Run executes configure.py and then the bazel build described by plan,
// and verifies that the artifact exists.
func Run(ctx context.Context, run runner.Runner, plan Plan, options RunOptions) error {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Info("configuring tensorflow", "python", options.Python, "dir", plan.SourceDir)
	err := run.Run(ctx, runner.Command{
		Name: options.Python,
		Args: []string{"configure.py"},
		Dir:  plan.SourceDir,
		Env:  options.Env,
	})
	if err != nil {
		return fmt.Errorf("tensorflow configuration failed: %w", err)
	}

	command := runner.Command{
		Name: options.Binary,
		Args: plan.Args,
		Dir:  plan.SourceDir,
		Env:  options.Env,
	}
	logger.Info("running bazel", "command", command.String())
	if err := run.Run(ctx, command); err != nil {
		return fmt.Errorf("building tensorflow lite with bazel: %w", err)
	}

	if _, err := os.Stat(plan.OutputPath); err != nil {
		return fmt.Errorf("%w at %s", ErrOutputMissing, plan.OutputPath)
	}
	return nil
}
