// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/bureau-foundation/tflitec/lib/target"
)

func mustTarget(t *testing.T, goos, goarch string) target.Target {
	t.Helper()
	result, err := target.New(goos, goarch)
	if err != nil {
		t.Fatalf("target.New: %v", err)
	}
	return result
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	for name, content := range files {
		file, err := writer.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(file, content); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buffer.String())
}

func TestBuilt_Linux(t *testing.T) {
	dir := t.TempDir()
	bazelOutput := filepath.Join(dir, "bazel-bin", "libtensorflowlite_c.so")
	writeFile(t, bazelOutput, "elf")
	out := filepath.Join(dir, "out")

	result, err := Built(bazelOutput, out, mustTarget(t, "linux", "amd64"), nil)
	if err != nil {
		t.Fatalf("Built: %v", err)
	}
	if result.Library != filepath.Join(out, "libtensorflowlite_c.so") {
		t.Errorf("Library = %q", result.Library)
	}
	if got := readFile(t, result.Library); got != "elf" {
		t.Errorf("library content = %q", got)
	}
	if result.ImportLibrary != "" {
		t.Error("linux should not install an import library")
	}
}

func TestBuilt_WindowsCopiesImportLibrary(t *testing.T) {
	dir := t.TempDir()
	bazelOutput := filepath.Join(dir, "bazel-bin", "tensorflowlite_c.dll")
	writeFile(t, bazelOutput, "pe")
	writeFile(t, filepath.Join(dir, "bazel-bin", "tensorflowlite_c.dll.if.lib"), "implib")
	out := filepath.Join(dir, "out")

	result, err := Built(bazelOutput, out, mustTarget(t, "windows", "amd64"), nil)
	if err != nil {
		t.Fatalf("Built: %v", err)
	}
	if result.ImportLibrary != filepath.Join(out, "tensorflowlite_c.lib") {
		t.Errorf("ImportLibrary = %q", result.ImportLibrary)
	}
	if got := readFile(t, result.ImportLibrary); got != "implib" {
		t.Errorf("import library content = %q", got)
	}
	if want := []string{result.Library, result.ImportLibrary}; !reflect.DeepEqual(result.Paths(), want) {
		t.Errorf("Paths() = %v", result.Paths())
	}
}

func TestBuilt_IOSUnpacksFramework(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	// A stale framework from an earlier build must not leak into the
	// new one.
	writeFile(t, filepath.Join(out, "TensorFlowLiteC.framework", "Stale.h"), "old")

	bazelOutput := filepath.Join(dir, "TensorFlowLiteC_framework.zip")
	writeZip(t, bazelOutput, map[string]string{
		"TensorFlowLiteC.framework/TensorFlowLiteC":       "macho",
		"TensorFlowLiteC.framework/Headers/c_api.h":       "header",
		"TensorFlowLiteC.framework/Headers/c_api_types.h": "types",
	})

	result, err := Built(bazelOutput, out, mustTarget(t, "ios", "arm64"), nil)
	if err != nil {
		t.Fatalf("Built: %v", err)
	}
	if got := readFile(t, filepath.Join(result.Library, "TensorFlowLiteC")); got != "macho" {
		t.Errorf("framework binary = %q", got)
	}
	if _, err := os.Stat(filepath.Join(result.Library, "Stale.h")); !os.IsNotExist(err) {
		t.Error("stale framework content survived")
	}
}

func TestPrebuilt_CopiesFile(t *testing.T) {
	dir := t.TempDir()
	prebuilt := filepath.Join(dir, "custom", "libtensorflowlite_c.dylib")
	writeFile(t, prebuilt, "dylib")
	out := filepath.Join(dir, "out")

	result, err := Prebuilt(prebuilt, out, mustTarget(t, "darwin", "arm64"), nil)
	if err != nil {
		t.Fatalf("Prebuilt: %v", err)
	}
	if got := readFile(t, filepath.Join(out, "libtensorflowlite_c.dylib")); got != "dylib" {
		t.Errorf("installed = %q", got)
	}
	if result.ImportLibrary != "" {
		t.Error("macos should not install an import library")
	}
}

func TestPrebuilt_WindowsRequiresImportLibraryBeforeCopy(t *testing.T) {
	dir := t.TempDir()
	prebuilt := filepath.Join(dir, "custom", "tensorflowlite_c.dll")
	writeFile(t, prebuilt, "pe")
	out := filepath.Join(dir, "out")

	_, err := Prebuilt(prebuilt, out, mustTarget(t, "windows", "amd64"), nil)
	if !errors.Is(err, ErrImportLibraryMissing) {
		t.Fatalf("error = %v, want ErrImportLibraryMissing", err)
	}
	if _, err := os.Stat(filepath.Join(out, "tensorflowlite_c.dll")); !os.IsNotExist(err) {
		t.Error("primary artifact copied despite missing import library")
	}
}

func TestPrebuilt_WindowsWithImportLibrary(t *testing.T) {
	dir := t.TempDir()
	prebuilt := filepath.Join(dir, "custom", "tensorflowlite_c.dll")
	writeFile(t, prebuilt, "pe")
	writeFile(t, filepath.Join(dir, "custom", "tensorflowlite_c.lib"), "implib")
	out := filepath.Join(dir, "out")

	result, err := Prebuilt(prebuilt, out, mustTarget(t, "windows", "amd64"), nil)
	if err != nil {
		t.Fatalf("Prebuilt: %v", err)
	}
	if got := readFile(t, result.ImportLibrary); got != "implib" {
		t.Errorf("import library = %q", got)
	}
}

func TestPrebuilt_FrameworkDirectory(t *testing.T) {
	dir := t.TempDir()
	prebuilt := filepath.Join(dir, "TensorFlowLiteC.framework")
	writeFile(t, filepath.Join(prebuilt, "TensorFlowLiteC"), "macho")
	out := filepath.Join(dir, "out")

	result, err := Prebuilt(prebuilt, out, mustTarget(t, "ios", "arm64"), nil)
	if err != nil {
		t.Fatalf("Prebuilt: %v", err)
	}
	if got := readFile(t, filepath.Join(result.Library, "TensorFlowLiteC")); got != "macho" {
		t.Errorf("framework binary = %q", got)
	}
}

func TestPrebuilt_Archive(t *testing.T) {
	dir := t.TempDir()
	prebuilt := filepath.Join(dir, "tflite-linux.zip")
	writeZip(t, prebuilt, map[string]string{"libtensorflowlite_c.so": "elf"})
	out := filepath.Join(dir, "out")

	result, err := Prebuilt(prebuilt, out, mustTarget(t, "linux", "arm64"), nil)
	if err != nil {
		t.Fatalf("Prebuilt: %v", err)
	}
	if got := readFile(t, result.Library); got != "elf" {
		t.Errorf("library = %q", got)
	}
}

func TestPrebuilt_ArchiveWithoutArtifact(t *testing.T) {
	dir := t.TempDir()
	prebuilt := filepath.Join(dir, "wrong.zip")
	writeZip(t, prebuilt, map[string]string{"README": "nothing here"})

	_, err := Prebuilt(prebuilt, filepath.Join(dir, "out"), mustTarget(t, "linux", "amd64"), nil)
	if err == nil || !strings.Contains(err.Error(), "does not contain") {
		t.Fatalf("error = %v", err)
	}
}

func TestPrebuilt_Missing(t *testing.T) {
	if _, err := Prebuilt(filepath.Join(t.TempDir(), "nope.so"), t.TempDir(), mustTarget(t, "linux", "amd64"), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestLinkFlags(t *testing.T) {
	if got, want := LinkFlags("/out", mustTarget(t, "linux", "amd64")), []string{"-L/out", "-ltensorflowlite_c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("linux = %v, want %v", got, want)
	}
	if got, want := LinkFlags("/out", mustTarget(t, "ios", "arm64")), []string{"-F/out", "-framework", "TensorFlowLiteC"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ios = %v, want %v", got, want)
	}
}

func TestRenderCgoFile(t *testing.T) {
	content := string(RenderCgoFile(CgoOptions{
		OutDir:     "/build/out dir",
		IncludeDir: "/build/out dir/tensorflow_v2.19.0",
		Target:     mustTarget(t, "linux", "arm64"),
	}))
	for _, want := range []string{
		"// Code generated by tflitec-build. DO NOT EDIT.",
		"//go:build linux && arm64",
		"package tflitec",
		`// #cgo CPPFLAGS: "-I/build/out dir/tensorflow_v2.19.0"`,
		`// #cgo LDFLAGS: "-L/build/out dir" -ltensorflowlite_c`,
		`import "C"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("cgo file missing %q:\n%s", want, content)
		}
	}
}

func TestWriteCgoFile(t *testing.T) {
	out := t.TempDir()
	path, err := WriteCgoFile(CgoOptions{OutDir: out, Target: mustTarget(t, "android", "arm64")})
	if err != nil {
		t.Fatalf("WriteCgoFile: %v", err)
	}
	if want := filepath.Join(out, "tflitec", "link_android_arm64.go"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if content := readFile(t, path); strings.Contains(content, "CPPFLAGS") {
		t.Error("CPPFLAGS written without an include directory")
	}
}

func TestLDFlagsEnv(t *testing.T) {
	if got := LDFlagsEnv([]string{"-F/a b", "-framework", "TensorFlowLiteC"}); got != `"-F/a b" -framework TensorFlowLiteC` {
		t.Errorf("LDFlagsEnv = %q", got)
	}
}
