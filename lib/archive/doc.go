// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive unpacks the archives that carry TensorFlow Lite
// artifacts: the zip that bazel produces for the iOS framework, the
// embedded documentation bundle, and prebuilt artifacts shipped as
// .zip, .tar.zst, or .tar.lz4.
//
// Every entry name is checked before anything is written. Absolute
// names and names that climb out of the destination with ".." are
// rejected, so a hostile archive cannot write outside the directory it
// is unpacked into.
package archive
