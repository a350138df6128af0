// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// fingerprintKey separates build fingerprints from content digests. The
// bytes are the ASCII domain name, zero-padded to 32.
var fingerprintKey = [32]byte{
	't', 'f', 'l', 'i', 't', 'e', 'c', '.', 'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r',
	'i', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// HashFile computes the BLAKE3 digest of the file at path.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return sum(hasher), nil
}

// HashPath digests a regular file like [HashFile]. For a directory, it
// hashes every entry in lexical order of its slash-separated relative
// path: the path, a type byte, and then the file contents or symlink
// target, each length-prefixed. Two trees with the same layout and
// contents produce the same digest regardless of where they live.
func HashPath(path string) (Digest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	if !info.IsDir() {
		return HashFile(path)
	}

	type item struct {
		relative string
		full     string
		mode     fs.FileMode
	}
	var items []item
	err = filepath.WalkDir(path, func(full string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if full == path {
			return nil
		}
		relative, err := filepath.Rel(path, full)
		if err != nil {
			return err
		}
		items = append(items, item{relative: filepath.ToSlash(relative), full: full, mode: entry.Type()})
		return nil
	})
	if err != nil {
		return Digest{}, fmt.Errorf("walking %s: %w", path, err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].relative < items[j].relative })

	hasher := blake3.New()
	for _, it := range items {
		writeField(hasher, []byte(it.relative))
		switch {
		case it.mode.IsDir():
			hasher.Write([]byte{'d'})
		case it.mode&fs.ModeSymlink != 0:
			link, err := os.Readlink(it.full)
			if err != nil {
				return Digest{}, err
			}
			hasher.Write([]byte{'l'})
			writeField(hasher, []byte(link))
		default:
			hasher.Write([]byte{'f'})
			digest, err := HashFile(it.full)
			if err != nil {
				return Digest{}, err
			}
			hasher.Write(digest[:])
		}
	}
	return sum(hasher), nil
}

// Fingerprint returns the keyed BLAKE3 hash of fields. Each field is
// length-prefixed, so ("ab", "c") and ("a", "bc") differ.
func Fingerprint(fields ...string) Digest {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic("binhash: fingerprint key: " + err.Error())
	}
	for _, field := range fields {
		writeField(hasher, []byte(field))
	}
	return sum(hasher)
}

func writeField(w io.Writer, data []byte) {
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(data)))
	w.Write(length[:])
	w.Write(data)
}

func sum(hasher *blake3.Hasher) Digest {
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the hex form of the digest.
func (d Digest) String() string {
	return FormatDigest(d)
}

// FormatDigest returns the hex-encoded digest.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a 64-character hex digest.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("hash digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
