// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/tflitec/lib/clock"
	"github.com/bureau-foundation/tflitec/lib/git"
	"github.com/bureau-foundation/tflitec/lib/runner"
)

// MarkerName is the completion marker written at the tree root after a
// successful clone.
const MarkerName = ".complete_clone"

// OverlayPath is where the XNNPACK BUILD overlay is written, relative
// to the tree root.
const OverlayPath = "tensorflow/lite/c/tmp/BUILD"

//go:embed tflitec_with_xnnpack.BUILD.bazel
var xnnpackBuild []byte

// XNNPACKBuild returns the contents of the XNNPACK BUILD overlay.
func XNNPACKBuild() []byte {
	return append([]byte(nil), xnnpackBuild...)
}

// TreeDir returns the source tree location for tag under outDir.
func TreeDir(outDir, tag string) string {
	return filepath.Join(outDir, "tensorflow_"+tag)
}

// Options configures [Prepare].
type Options struct {
	// Dir is the source tree directory, usually from [TreeDir].
	Dir string

	// URL is the git remote.
	URL string

	// Tag is the pinned ref to clone.
	Tag string

	// XNNPACK writes the BUILD overlay after the tree is ready.
	XNNPACK bool

	// Env is passed to git. Nil inherits the process environment.
	Env []string

	// Clock times the clone. Nil uses the wall clock.
	Clock clock.Clock

	// Logger receives progress. Nil discards.
	Logger *slog.Logger
}

// Result describes the prepared tree.
type Result struct {
	Repository *git.Repository

	// Cloned is true when this call performed the clone, false when
	// the marker was already present.
	Cloned bool
}

// Complete reports whether dir holds a finished clone.
func Complete(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, MarkerName))
	return err == nil
}

// Prepare makes sure a complete clone exists at options.Dir and applies
// the XNNPACK overlay when requested.
func Prepare(ctx context.Context, run runner.Runner, options Options) (*Result, error) {
	if options.Dir == "" {
		return nil, errors.New("source directory is required")
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}

	result := &Result{Repository: git.NewRepository(run, options.Dir)}
	if !Complete(options.Dir) {
		if err := os.RemoveAll(options.Dir); err != nil {
			return nil, fmt.Errorf("removing incomplete source tree %s: %w", options.Dir, err)
		}
		if err := os.MkdirAll(filepath.Dir(options.Dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(options.Dir), err)
		}

		logger.Info("cloning tensorflow", "url", options.URL, "tag", options.Tag, "dir", options.Dir)
		start := clk.Now()
		repository, err := git.Clone(ctx, run, git.CloneOptions{
			URL:       options.URL,
			Ref:       options.Tag,
			Directory: options.Dir,
			Env:       options.Env,
		})
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(options.Dir, MarkerName), nil, 0o644); err != nil {
			return nil, fmt.Errorf("writing clone marker: %w", err)
		}
		logger.Info("clone completed", "duration", clock.Since(clk, start))

		result.Repository = repository
		result.Cloned = true
	} else {
		logger.Debug("source tree already complete", "dir", options.Dir)
	}

	if options.XNNPACK {
		if err := writeOverlay(options.Dir); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func writeOverlay(dir string) error {
	target := filepath.Join(dir, filepath.FromSlash(OverlayPath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating overlay directory: %w", err)
	}
	if err := os.WriteFile(target, xnnpackBuild, 0o644); err != nil {
		return fmt.Errorf("writing xnnpack BUILD overlay: %w", err)
	}
	return nil
}
