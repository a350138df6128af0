// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version identifies the tflitec-build binary and the
// TensorFlow release it targets.
//
// The release scripts stamp [GitCommit], [GitDirty] and [BuildTime]
// with -ldflags -X. [TensorFlowTag] is a constant: the embedded header
// list and the build overlay only match that release.
package version
