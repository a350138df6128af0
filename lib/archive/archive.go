// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies an archive container.
type Format uint8

const (
	// FormatNone is a plain file or directory, not an archive.
	FormatNone Format = iota

	// FormatZip is a zip archive.
	FormatZip

	// FormatTarZstd is a tar stream compressed with zstd.
	FormatTarZstd

	// FormatTarLZ4 is a tar stream in the LZ4 frame format.
	FormatTarLZ4
)

// String returns the conventional file suffix for the format.
func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatZip:
		return "zip"
	case FormatTarZstd:
		return "tar.zst"
	case FormatTarLZ4:
		return "tar.lz4"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// ErrUnsafePath is returned when an archive entry would be written
// outside the destination directory.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// DetectFormat classifies path by its name. Matching is case-insensitive.
func DetectFormat(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".zip"):
		return FormatZip
	case strings.HasSuffix(name, ".tar.zst"), strings.HasSuffix(name, ".tzst"):
		return FormatTarZstd
	case strings.HasSuffix(name, ".tar.lz4"):
		return FormatTarLZ4
	default:
		return FormatNone
	}
}

// Extract unpacks the archive at path into destination, creating it if
// needed. The format comes from [DetectFormat]; a path that is not a
// recognized archive is an error.
func Extract(path, destination string) ([]string, error) {
	switch format := DetectFormat(path); format {
	case FormatZip:
		return ExtractZip(path, destination)
	case FormatTarZstd, FormatTarLZ4:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ExtractTar(file, format, destination)
	default:
		return nil, fmt.Errorf("%s is not a recognized archive (want .zip, .tar.zst, or .tar.lz4)", path)
	}
}

// ExtractZip unpacks a zip file into destination and returns the
// top-level names it created, in archive order.
func ExtractZip(path, destination string) ([]string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening zip %s: %w", path, err)
	}
	defer reader.Close()
	return extractZip(&reader.Reader, destination)
}

// ExtractZipBytes unpacks an in-memory zip into destination.
func ExtractZipBytes(data []byte, destination string) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading zip: %w", err)
	}
	return extractZip(reader, destination)
}

func extractZip(reader *zip.Reader, destination string) ([]string, error) {
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return nil, err
	}

	var roots topLevel
	for _, entry := range reader.File {
		target, err := safeJoin(destination, entry.Name)
		if err != nil {
			return nil, err
		}
		roots.add(entry.Name)

		mode := entry.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
		case mode&fs.ModeSymlink != 0:
			link, err := readZipEntry(entry)
			if err != nil {
				return nil, err
			}
			if err := writeSymlink(destination, target, string(link)); err != nil {
				return nil, err
			}
		default:
			source, err := entry.Open()
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", entry.Name, err)
			}
			err = writeFile(target, source, mode.Perm())
			source.Close()
			if err != nil {
				return nil, fmt.Errorf("extracting %s: %w", entry.Name, err)
			}
		}
	}
	return roots.names, nil
}

// ExtractTar unpacks a compressed tar stream into destination.
func ExtractTar(source io.Reader, format Format, destination string) ([]string, error) {
	var stream io.Reader
	switch format {
	case FormatTarZstd:
		decoder, err := zstd.NewReader(source)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer decoder.Close()
		stream = decoder
	case FormatTarLZ4:
		stream = lz4.NewReader(source)
	default:
		return nil, fmt.Errorf("unsupported tar compression %s", format)
	}

	if err := os.MkdirAll(destination, 0o755); err != nil {
		return nil, err
	}

	var roots topLevel
	reader := tar.NewReader(stream)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return roots.names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s archive: %w", format, err)
		}

		target, err := safeJoin(destination, header.Name)
		if err != nil {
			return nil, err
		}
		roots.add(header.Name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(destination, target, header.Linkname); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			if err := writeFile(target, reader, fs.FileMode(header.Mode).Perm()); err != nil {
				return nil, fmt.Errorf("extracting %s: %w", header.Name, err)
			}
		default:
			// Hard links, devices and FIFOs never appear in library
			// archives.
			return nil, fmt.Errorf("archive entry %s has unsupported type %q", header.Name, header.Typeflag)
		}
	}
}

// safeJoin resolves name under destination, rejecting names that would
// land outside it.
func safeJoin(destination, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return filepath.Join(destination, cleaned), nil
}

func writeSymlink(destination, target, link string) error {
	resolved := link
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(target), link)
	}
	relative, err := filepath.Rel(destination, resolved)
	if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: symlink %s -> %s", ErrUnsafePath, target, link)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	os.Remove(target)
	return os.Symlink(link, target)
}

func writeFile(target string, source io.Reader, perm fs.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, source); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	source, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer source.Close()
	return io.ReadAll(source)
}

// topLevel collects the distinct first path components of archive
// entries, preserving first-seen order.
type topLevel struct {
	seen  map[string]bool
	names []string
}

func (t *topLevel) add(name string) {
	first := strings.SplitN(strings.TrimPrefix(filepath.ToSlash(name), "./"), "/", 2)[0]
	if first == "" || first == "." {
		return
	}
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if !t.seen[first] {
		t.seen[first] = true
		t.names = append(t.names, first)
	}
}
