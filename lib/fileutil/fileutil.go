// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileutil holds the filesystem primitives shared by the header
// provisioner and the artifact installer: existence checks and a
// replace-then-copy operation that works for single files and for
// directory trees such as framework bundles.
package fileutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Exists reports whether path exists. Any stat error other than
// not-exist is treated as existing, so callers fail on the subsequent
// operation with the real error rather than silently recreating files.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !os.IsNotExist(err)
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CopyOrOverwrite copies src to dst, replacing whatever dst currently
// is. A directory source is copied recursively so that dst becomes a
// copy of src (not a child of it). File modes are preserved.
func CopyOrOverwrite(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}

	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("removing existing %s: %w", dst, err)
	}

	if info.IsDir() {
		if err := CopyDir(src, dst); err != nil {
			return fmt.Errorf("copying directory %s to %s: %w", src, dst, err)
		}
		return nil
	}
	if err := CopyFile(src, dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("copying file %s to %s: %w", src, dst, err)
	}
	return nil
}

// CopyFile copies a single regular file, creating parent directories of
// dst as needed.
func CopyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CopyDir copies the tree rooted at src to dst. Symbolic links are
// recreated as links, which keeps framework bundles (Versions/Current
// and friends) intact.
func CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relative, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, relative)

		switch {
		case entry.IsDir():
			return os.MkdirAll(target, 0o755)
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			info, err := entry.Info()
			if err != nil {
				return err
			}
			return CopyFile(path, target, info.Mode().Perm())
		}
	})
}

// ReplaceExtension returns path with its final extension (without the
// dot) replaced by extension. A path without an extension gains one.
//
//	ReplaceExtension("dir/tensorflowlite_c.dll", "lib")        // dir/tensorflowlite_c.lib
//	ReplaceExtension("dir/tensorflowlite_c.dll", "dll.if.lib") // dir/tensorflowlite_c.dll.if.lib
func ReplaceExtension(path, extension string) string {
	base := path[:len(path)-len(filepath.Ext(path))]
	return base + "." + extension
}
