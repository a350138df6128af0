// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/tflitec/lib/archive"
	"github.com/bureau-foundation/tflitec/lib/fileutil"
	"github.com/bureau-foundation/tflitec/lib/target"
)

// ErrImportLibraryMissing is returned when a Windows prebuilt DLL has
// no matching .lib next to it.
var ErrImportLibraryMissing = errors.New("a prebuilt .dll must have a matching .lib file in the same directory")

// Result lists the installed artifacts.
type Result struct {
	// Library is the installed library file or framework directory.
	Library string `json:"library"`

	// ImportLibrary is the installed Windows import library, if any.
	ImportLibrary string `json:"import_library,omitempty"`
}

// Paths returns the installed artifact paths.
func (r *Result) Paths() []string {
	paths := []string{r.Library}
	if r.ImportLibrary != "" {
		paths = append(paths, r.ImportLibrary)
	}
	return paths
}

// LibraryPath returns where the library or framework is installed.
func LibraryPath(outDir string, buildTarget target.Target) string {
	return filepath.Join(outDir, buildTarget.ArtifactName())
}

// ImportLibraryPath returns where the Windows import library is
// installed.
func ImportLibraryPath(outDir string, buildTarget target.Target) string {
	return filepath.Join(outDir, buildTarget.ImportLibraryName())
}

// Built installs the artifact bazel produced at bazelOutput.
func Built(bazelOutput, outDir string, buildTarget target.Target, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	result := &Result{Library: LibraryPath(outDir, buildTarget)}

	if buildTarget.UsesFramework() {
		if err := os.RemoveAll(result.Library); err != nil {
			return nil, fmt.Errorf("removing previous framework: %w", err)
		}
		logger.Info("unpacking framework", "archive", bazelOutput, "dir", outDir)
		if _, err := archive.ExtractZip(bazelOutput, outDir); err != nil {
			return nil, fmt.Errorf("unpacking %s: %w", bazelOutput, err)
		}
		if !fileutil.IsDir(result.Library) {
			return nil, fmt.Errorf("%s did not contain %s", bazelOutput, buildTarget.ArtifactName())
		}
		return result, nil
	}

	logger.Info("installing library", "from", bazelOutput, "to", result.Library)
	if err := fileutil.CopyOrOverwrite(bazelOutput, result.Library); err != nil {
		return nil, err
	}

	if buildTarget.NeedsImportLibrary() {
		source := fileutil.ReplaceExtension(bazelOutput, "dll.if.lib")
		result.ImportLibrary = ImportLibraryPath(outDir, buildTarget)
		if err := fileutil.CopyOrOverwrite(source, result.ImportLibrary); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Prebuilt installs a user-supplied artifact. An archive (see
// [archive.DetectFormat]) is unpacked into outDir and must contain the
// artifact at its top level. Anything else is copied.
//
// On Windows the import library is checked before anything is copied,
// so a missing .lib leaves the output directory untouched.
func Prebuilt(prebuilt, outDir string, buildTarget target.Target, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !fileutil.Exists(prebuilt) {
		return nil, fmt.Errorf("prebuilt artifact %s does not exist", prebuilt)
	}
	result := &Result{Library: LibraryPath(outDir, buildTarget)}

	if archive.DetectFormat(prebuilt) != archive.FormatNone {
		return prebuiltArchive(prebuilt, outDir, buildTarget, result, logger)
	}

	var importSource string
	if buildTarget.NeedsImportLibrary() {
		importSource = fileutil.ReplaceExtension(prebuilt, "lib")
		if !fileutil.Exists(importSource) {
			return nil, fmt.Errorf("%w: expected %s", ErrImportLibraryMissing, importSource)
		}
	}

	logger.Info("installing prebuilt library", "from", prebuilt, "to", result.Library)
	if err := fileutil.CopyOrOverwrite(prebuilt, result.Library); err != nil {
		return nil, err
	}
	if importSource != "" {
		result.ImportLibrary = ImportLibraryPath(outDir, buildTarget)
		if err := fileutil.CopyOrOverwrite(importSource, result.ImportLibrary); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func prebuiltArchive(prebuilt, outDir string, buildTarget target.Target, result *Result, logger *slog.Logger) (*Result, error) {
	if err := os.RemoveAll(result.Library); err != nil {
		return nil, fmt.Errorf("removing previous %s: %w", buildTarget.ArtifactName(), err)
	}
	logger.Info("unpacking prebuilt archive", "archive", prebuilt, "dir", outDir)
	if _, err := archive.Extract(prebuilt, outDir); err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", prebuilt, err)
	}
	if !fileutil.Exists(result.Library) {
		return nil, fmt.Errorf("prebuilt archive %s does not contain %s", prebuilt, buildTarget.ArtifactName())
	}
	if buildTarget.NeedsImportLibrary() {
		result.ImportLibrary = ImportLibraryPath(outDir, buildTarget)
		if !fileutil.Exists(result.ImportLibrary) {
			return nil, fmt.Errorf("%w: archive %s has no %s", ErrImportLibraryMissing, prebuilt, buildTarget.ImportLibraryName())
		}
	}
	return result, nil
}
