// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package docsbundle

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

func TestExtract(t *testing.T) {
	out := t.TempDir()
	paths, err := Extract(out, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	data, err := os.ReadFile(filepath.Join(out, "tflitec", "tflitec.go"))
	if err != nil {
		t.Fatalf("reading bindings: %v", err)
	}
	if !strings.Contains(string(data), "package tflitec") {
		t.Errorf("placeholder bindings do not declare package tflitec")
	}
	if _, err := os.Stat(filepath.Join(out, LibraryFile)); err != nil {
		t.Errorf("placeholder library: %v", err)
	}
}

func TestExtract_IncompleteBundle(t *testing.T) {
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	file, err := writer.Create(LibraryFile)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(file, "")
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := extract(buffer.Bytes(), t.TempDir(), nil); err == nil {
		t.Fatal("expected error for bundle without bindings")
	}
}

func TestEnabled(t *testing.T) {
	for value, want := range map[string]bool{"1": true, "": false, "0": false, "true": false} {
		if got := Enabled(value); got != want {
			t.Errorf("Enabled(%q) = %v, want %v", value, got, want)
		}
	}
}
