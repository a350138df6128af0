// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bazel drives TensorFlow's own build: configure.py followed by
// a single bazel build of the TensorFlow Lite C shared library (or the
// iOS framework).
//
// [NewPlan] is pure: it turns a target, feature set and extra compiler
// options into the exact bazel command line and the path the artifact
// will appear at. [Run] executes a plan. Keeping the two apart lets the
// CLI print a plan without side effects.
//
// Every build uses an output base under the output directory rather
// than bazel's per-user default, so that separate output directories
// never share bazel state.
package bazel
