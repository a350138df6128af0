// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content digests for installed
// artifacts and for the build fingerprint.
//
// The API surface:
//
//   - [HashFile] streams one file through BLAKE3 with constant memory
//   - [HashPath] hashes a file, or a directory tree such as an iOS
//     framework bundle, as a single digest
//   - [Fingerprint] hashes an ordered list of strings in keyed mode,
//     used to detect when build inputs changed
//   - [FormatDigest] and [ParseDigest] convert to and from the hex form
//     used in the manifest and in log output
//
// This package has no dependencies on other packages of this module.
package binhash
