// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package target resolves the platform the TensorFlow Lite C library is
// built for and derives every platform-dependent name from it.
//
// Go and TensorFlow name platforms differently. A [Target] carries both:
// the GOOS/GOARCH pair it was resolved from and the normalized
// TensorFlow OS and architecture. The TensorFlow names feed the bazel
// configuration identifier ([ConfigID]), which must match a profile in
// TensorFlow's .bazelrc exactly. The Go names drive the suffix of
// target-dependent environment variables ([Target.EnvSuffix]) and the
// build constraint of the generated cgo link file.
//
// Naming derived per OS:
//
//   - dynamic library prefix and extension ("lib"/"so", "lib"/"dylib",
//     ""/"dll")
//   - framework bundle instead of a dynamic library on iOS
//   - import library requirement on Windows
//
// All functions are pure. This package depends only on lib/environ.
package target
