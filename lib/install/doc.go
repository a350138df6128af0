// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package install places the TensorFlow Lite library in the output
// directory and emits the linker directives a cgo consumer needs.
//
// There are two entry points. [Built] installs what bazel produced: the
// shared library (plus the Windows import library bazel writes next to
// it as <name>.dll.if.lib), or on iOS the framework zip, unpacked. [Prebuilt]
// installs a user-supplied artifact: a library file, a framework
// directory, or an archive of either.
//
// Linking is described by [LinkFlags] and materialized by
// [WriteCgoFile] as a constrained Go file in the binding package, so a
// build of the generated package for that GOOS/GOARCH picks up the
// right -L and -l flags without any CGO_LDFLAGS in the environment.
package install
