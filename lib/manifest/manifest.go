// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest records what a build installed into an output
// directory, and whether a later build with the same inputs can be
// skipped.
//
// The manifest is written last, after every artifact is in place, so
// its presence means the previous run completed. [Manifest.UpToDate]
// compares the stored input fingerprint with a freshly computed one and
// re-digests each recorded artifact, so a library replaced by hand is
// noticed even when the inputs did not change.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bureau-foundation/tflitec/lib/binhash"
	"github.com/bureau-foundation/tflitec/lib/codec"
	"github.com/bureau-foundation/tflitec/lib/feature"
	"github.com/bureau-foundation/tflitec/lib/target"
)

// FileName is the manifest file in the output directory.
const FileName = "tflitec-manifest.cbor"

// Version is the current manifest format.
const Version = 1

// Mode values.
const (
	ModeSource   = "source"
	ModePrebuilt = "prebuilt"
	ModeDocs     = "docs"
)

// Manifest describes one completed build.
type Manifest struct {
	Version  int           `json:"version"`
	Tag      string        `json:"tag"`
	Mode     string        `json:"mode"`
	Target   target.Target `json:"target"`
	ConfigID string        `json:"config_id,omitempty"`
	Features feature.Set   `json:"features"`

	// Fingerprint is the hex digest of every input that affects the
	// output. See [Fingerprint].
	Fingerprint string `json:"fingerprint"`

	// SourceCommit is the TensorFlow commit built, when built from
	// source.
	SourceCommit string `json:"source_commit,omitempty"`

	Artifacts []Artifact `json:"artifacts"`

	// LDFlags are the linker directives for the installed library.
	LDFlags []string `json:"ldflags"`

	CompletedAt time.Time `json:"completed_at"`
}

// Artifact is one installed output.
type Artifact struct {
	// Path is relative to the output directory, slash-separated.
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

// Inputs are the values that determine a build's output.
type Inputs struct {
	Tag      string
	Target   target.Target
	Features feature.Set

	// Tracked maps customization variable names to their effective
	// values. Unset variables are omitted.
	Tracked map[string]string
}

// Fingerprint digests inputs. Tracked variables are included in sorted
// name order.
func Fingerprint(inputs Inputs) string {
	fields := []string{
		"tag", inputs.Tag,
		"goos", inputs.Target.GOOS,
		"goarch", inputs.Target.GOARCH,
		"features", inputs.Features.Normalize().String(),
	}
	for _, name := range sortedKeys(inputs.Tracked) {
		fields = append(fields, name, inputs.Tracked[name])
	}
	return binhash.Fingerprint(fields...).String()
}

// Path returns the manifest location in outDir.
func Path(outDir string) string {
	return filepath.Join(outDir, FileName)
}

// DigestArtifacts digests each absolute path and returns artifacts with
// paths relative to outDir.
func DigestArtifacts(outDir string, paths []string) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(paths))
	for _, path := range paths {
		digest, err := binhash.HashPath(path)
		if err != nil {
			return nil, err
		}
		relative, err := filepath.Rel(outDir, path)
		if err != nil {
			return nil, fmt.Errorf("artifact %s is not under %s: %w", path, outDir, err)
		}
		artifacts = append(artifacts, Artifact{Path: filepath.ToSlash(relative), Digest: digest.String()})
	}
	return artifacts, nil
}

// Write stores m in outDir atomically.
func Write(outDir string, m *Manifest) error {
	if m.Version == 0 {
		m.Version = Version
	}
	data, err := codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	path := Path(outDir)
	temporary := path + ".tmp"
	if err := os.WriteFile(temporary, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(temporary, path); err != nil {
		os.Remove(temporary)
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ErrNotFound is returned by [Read] when outDir has no manifest.
var ErrNotFound = errors.New("no build manifest")

// Read loads the manifest from outDir.
func Read(outDir string) (*Manifest, error) {
	data, err := ReadRaw(outDir)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", Path(outDir), err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("%s has format version %d, want %d", Path(outDir), m.Version, Version)
	}
	return &m, nil
}

// ReadRaw returns the encoded manifest bytes.
func ReadRaw(outDir string) ([]byte, error) {
	data, err := os.ReadFile(Path(outDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w in %s", ErrNotFound, outDir)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// UpToDate reports whether m was produced from a build with the given
// fingerprint and every recorded artifact still has its recorded
// digest. The returned string explains a false result.
func (m *Manifest) UpToDate(outDir, fingerprint string) (bool, string) {
	if m.Fingerprint != fingerprint {
		return false, "build inputs changed"
	}
	if len(m.Artifacts) == 0 {
		return false, "no artifacts recorded"
	}
	for _, artifact := range m.Artifacts {
		path := filepath.Join(outDir, filepath.FromSlash(artifact.Path))
		digest, err := binhash.HashPath(path)
		if err != nil {
			return false, fmt.Sprintf("artifact %s unreadable", artifact.Path)
		}
		if digest.String() != artifact.Digest {
			return false, fmt.Sprintf("artifact %s modified", artifact.Path)
		}
	}
	return true, ""
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
