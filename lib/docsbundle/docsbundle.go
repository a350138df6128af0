// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package docsbundle supports documentation builds, which run without
// network access or a native toolchain. Instead of fetching and
// building TensorFlow Lite, the output directory receives an embedded
// bundle: an empty placeholder library and a placeholder binding
// package declaring the API types.
package docsbundle

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/tflitec/lib/archive"
)

// Variable enables documentation mode when set to "1".
const Variable = "TFLITEC_DOCS"

// Files every bundle must produce, relative to the output directory.
const (
	LibraryFile  = "libtensorflowlite_c.so"
	BindingsFile = "tflitec/tflitec.go"
)

//go:embed docs_bundle.zip
var bundle []byte

// Enabled reports whether value (the contents of [Variable]) turns
// documentation mode on.
func Enabled(value string) bool {
	return value == "1"
}

// Extract unpacks the embedded bundle into outDir and verifies the
// placeholder library and bindings exist.
func Extract(outDir string, logger *slog.Logger) ([]string, error) {
	return extract(bundle, outDir, logger)
}

func extract(data []byte, outDir string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Info("extracting documentation bundle", "dir", outDir)
	if _, err := archive.ExtractZipBytes(data, outDir); err != nil {
		return nil, fmt.Errorf("failed to extract documentation resources: %w", err)
	}

	paths := []string{
		filepath.Join(outDir, LibraryFile),
		filepath.Join(outDir, filepath.FromSlash(BindingsFile)),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("documentation bundle did not produce %s: %w", path, err)
		}
	}
	return paths, nil
}
