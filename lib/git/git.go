// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for fetching the
// TensorFlow source tree. All commands go through a runner.Runner so
// that tests can observe them without a network. Commands on an existing
// checkout target its directory via the -C flag, which every
// [Repository] method injects.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/bureau-foundation/tflitec/lib/runner"
)

// CloneOptions configures a shallow clone.
type CloneOptions struct {
	// URL is the remote repository.
	URL string

	// Ref is the tag or branch to fetch. Only this ref is fetched.
	Ref string

	// Directory is the destination. It must not exist.
	Directory string

	// Env is the environment for the git process. Nil inherits.
	Env []string
}

// CloneArgs returns the git arguments for a shallow, single-branch
// clone of one ref, including shallow submodules.
func CloneArgs(options CloneOptions) []string {
	return []string{
		"clone",
		"--depth", "1",
		"--shallow-submodules",
		"--branch", options.Ref,
		"--single-branch",
		options.URL,
		options.Directory,
	}
}

// Clone performs the shallow clone described by options. Git's
// progress output is streamed through the runner.
func Clone(ctx context.Context, run runner.Runner, options CloneOptions) (*Repository, error) {
	if options.URL == "" || options.Ref == "" || options.Directory == "" {
		return nil, fmt.Errorf("git clone: URL, Ref, and Directory are required")
	}
	err := run.Run(ctx, runner.Command{
		Name: "git",
		Args: CloneArgs(options),
		Env:  options.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("git clone %s at %s: %w", options.URL, options.Ref, err)
	}
	return NewRepository(run, options.Directory), nil
}

// Repository represents a git working tree at a specific directory.
type Repository struct {
	run runner.Runner
	dir string
}

// NewRepository returns a Repository targeting dir.
func NewRepository(run runner.Runner, dir string) *Repository {
	return &Repository{run: run, dir: dir}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command targeting this repository and returns
// stdout. Stderr is included in the error on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	output, err := r.run.Output(ctx, runner.Command{Name: "git", Args: fullArgs})
	if err != nil {
		return "", fmt.Errorf("git %s in %s: %w", strings.Join(args, " "), r.dir, err)
	}
	return output, nil
}

// Head returns the commit hash checked out in the working tree.
func (r *Repository) Head(ctx context.Context) (string, error) {
	output, err := r.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}
