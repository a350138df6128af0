// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/blake3"
)

func TestHashFile(t *testing.T) {
	content := []byte("libtensorflowlite_c")
	path := filepath.Join(t.TempDir(), "lib.so")
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if want := Digest(blake3.Sum256(content)); got != want {
		t.Errorf("HashFile = %x, want %x", got, want)
	}
}

func TestHashFileLarge(t *testing.T) {
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "large")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if want := Digest(blake3.Sum256(content)); got != want {
		t.Errorf("HashFile(256KB) mismatch")
	}
}

func TestHashFileNonexistent(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("HashFile should fail for nonexistent file")
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHashPathDirectory(t *testing.T) {
	files := map[string]string{
		"TensorFlowLiteC":       "binary",
		"Headers/c_api.h":       "api",
		"Headers/c_api_types.h": "types",
	}
	first := filepath.Join(t.TempDir(), "a.framework")
	second := filepath.Join(t.TempDir(), "b.framework")
	writeTree(t, first, files)
	writeTree(t, second, files)

	digestA, err := HashPath(first)
	if err != nil {
		t.Fatalf("HashPath: %v", err)
	}
	digestB, err := HashPath(second)
	if err != nil {
		t.Fatalf("HashPath: %v", err)
	}
	if digestA != digestB {
		t.Error("identical trees at different locations hash differently")
	}

	writeTree(t, second, map[string]string{"Headers/c_api.h": "changed"})
	digestC, err := HashPath(second)
	if err != nil {
		t.Fatalf("HashPath: %v", err)
	}
	if digestC == digestA {
		t.Error("content change did not change the tree digest")
	}
}

func TestHashPathFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	fromPath, err := HashPath(path)
	if err != nil {
		t.Fatal(err)
	}
	fromFile, _ := HashFile(path)
	if fromPath != fromFile {
		t.Error("HashPath on a file should equal HashFile")
	}
}

func TestFingerprint(t *testing.T) {
	if Fingerprint("ab", "c") == Fingerprint("a", "bc") {
		t.Error("field boundaries are not part of the fingerprint")
	}
	if Fingerprint("v2.19.0", "linux") != Fingerprint("v2.19.0", "linux") {
		t.Error("fingerprint is not deterministic")
	}
	if Fingerprint("x") == Digest(blake3.Sum256([]byte("x"))) {
		t.Error("fingerprint should be keyed")
	}
}

func TestFormatParseDigest(t *testing.T) {
	digest := Fingerprint("roundtrip")
	parsed, err := ParseDigest(FormatDigest(digest))
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != digest {
		t.Error("parsed digest differs")
	}
	if len(digest.String()) != 64 {
		t.Errorf("String() length = %d", len(digest.String()))
	}
}

func TestParseDigestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not hex", "zzzz"},
		{"too short", "abcd"},
		{"too long", FormatDigest(Digest{}) + "00"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseDigest(test.input); err == nil {
				t.Errorf("ParseDigest(%q) should fail", test.input)
			}
		})
	}
}
