// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/tflitec/lib/target"
)

// BindingPackage is the Go package name (and output subdirectory) of
// the generated bindings.
const BindingPackage = "tflitec"

// LinkFlags returns the linker directives for the installed artifact:
// a search path and the library to link. Frameworks use -F and
// -framework; dynamic libraries use -L and -l.
func LinkFlags(outDir string, buildTarget target.Target) []string {
	if buildTarget.UsesFramework() {
		return []string{"-F" + outDir, "-framework", target.FrameworkName}
	}
	return []string{"-L" + outDir, "-l" + target.LibraryName}
}

// CgoFileName returns the name of the generated link file, suffixed
// with GOOS and GOARCH so the go tool only compiles it for that target.
func CgoFileName(buildTarget target.Target) string {
	return fmt.Sprintf("link_%s_%s.go", buildTarget.GOOS, buildTarget.GOARCH)
}

// CgoOptions configures [WriteCgoFile].
type CgoOptions struct {
	// OutDir holds the installed library. The file is written to
	// OutDir/<BindingPackage>/.
	OutDir string

	// IncludeDir, when set, is added to CPPFLAGS so that the binding
	// package finds the TensorFlow headers.
	IncludeDir string

	Target target.Target
}

// WriteCgoFile writes the cgo directives for options.Target and returns
// the file path.
func WriteCgoFile(options CgoOptions) (string, error) {
	dir := filepath.Join(options.OutDir, BindingPackage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating binding package directory: %w", err)
	}
	path := filepath.Join(dir, CgoFileName(options.Target))
	if err := os.WriteFile(path, RenderCgoFile(options), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// RenderCgoFile returns the contents [WriteCgoFile] writes.
func RenderCgoFile(options CgoOptions) []byte {
	var buffer bytes.Buffer
	buffer.WriteString("// Code generated by tflitec-build. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buffer, "//go:build %s && %s\n\n", options.Target.GOOS, options.Target.GOARCH)
	fmt.Fprintf(&buffer, "package %s\n\n", BindingPackage)
	if options.IncludeDir != "" {
		fmt.Fprintf(&buffer, "// #cgo CPPFLAGS: %s\n", quoteFlag("-I"+filepath.ToSlash(options.IncludeDir)))
	}
	fmt.Fprintf(&buffer, "// #cgo LDFLAGS: %s\n", joinFlags(LinkFlags(filepath.ToSlash(options.OutDir), options.Target)))
	buffer.WriteString("import \"C\"\n")
	return buffer.Bytes()
}

// LDFlagsEnv renders flags as a CGO_LDFLAGS value.
func LDFlagsEnv(flags []string) string {
	return joinFlags(flags)
}

func joinFlags(flags []string) string {
	quoted := make([]string, len(flags))
	for i, flag := range flags {
		quoted[i] = quoteFlag(flag)
	}
	return strings.Join(quoted, " ")
}

// quoteFlag wraps flags containing whitespace in double quotes, which
// both cgo directive parsing and CGO_LDFLAGS splitting understand.
func quoteFlag(flag string) string {
	if !strings.ContainsAny(flag, " \t") {
		return flag
	}
	return `"` + strings.ReplaceAll(flag, `"`, `\"`) + `"`
}
