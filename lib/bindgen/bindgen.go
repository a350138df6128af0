// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bindgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/tflitec/lib/feature"
	"github.com/bureau-foundation/tflitec/lib/runner"
)

// DefaultBinary is the generator looked up on PATH.
const DefaultBinary = "c-for-go"

// ManifestName is the manifest file written to the output directory.
const ManifestName = "tflitec.yml"

// ErrBindingsMissing is returned when the generator succeeds but the
// package's main file does not exist.
var ErrBindingsMissing = errors.New("binding generator produced no bindings")

// Options configures [Generate].
type Options struct {
	// Binary is the generator executable. Empty resolves
	// [DefaultBinary] on PATH.
	Binary string

	// OutDir receives the manifest and the package directory.
	OutDir string

	// IncludeRoot holds the TensorFlow headers at their repository
	// paths: the source tree, or the header root on the prebuilt path.
	IncludeRoot string

	Features feature.Set
	Logger   *slog.Logger
}

// Result locates the generated package.
type Result struct {
	Manifest   string `json:"manifest"`
	PackageDir string `json:"package_dir"`
	MainFile   string `json:"main_file"`
}

// PackageDir returns the generated package directory under outDir.
func PackageDir(outDir string) string {
	return filepath.Join(outDir, PackageName)
}

// MainFile returns the primary generated source file under outDir.
func MainFile(outDir string) string {
	return filepath.Join(PackageDir(outDir), PackageName+".go")
}

// Generate writes the manifest and runs the generator.
func Generate(ctx context.Context, run runner.Runner, options Options) (*Result, error) {
	if options.OutDir == "" || options.IncludeRoot == "" {
		return nil, errors.New("bindgen: output directory and include root are required")
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, header := range SourceHeaders(options.Features) {
		path := filepath.Join(options.IncludeRoot, filepath.FromSlash(header))
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("binding source header: %w", err)
		}
	}

	binary := options.Binary
	if binary == "" {
		resolved, err := run.LookPath(DefaultBinary)
		if err != nil {
			return nil, fmt.Errorf("%s not found on PATH (go install github.com/xlab/c-for-go@latest, or set TFLITEC_BINDGEN): %w",
				DefaultBinary, err)
		}
		binary = resolved
	}

	data, err := NewManifest(options.IncludeRoot, options.Features).Marshal()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(options.OutDir, 0o755); err != nil {
		return nil, err
	}
	result := &Result{
		Manifest:   filepath.Join(options.OutDir, ManifestName),
		PackageDir: PackageDir(options.OutDir),
		MainFile:   MainFile(options.OutDir),
	}
	if err := os.WriteFile(result.Manifest, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", result.Manifest, err)
	}

	logger.Info("generating bindings", "generator", binary, "manifest", result.Manifest)
	err = run.Run(ctx, runner.Command{
		Name: binary,
		Args: []string{"-out", options.OutDir, "-nostamp", result.Manifest},
		Dir:  options.OutDir,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to generate bindings: %w", err)
	}

	if _, err := os.Stat(result.MainFile); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBindingsMissing, result.MainFile)
	}
	return result, nil
}
