// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator sequences a complete TensorFlow Lite C build
// into an output directory.
//
// [NewPlan] resolves everything a build depends on (target, features,
// customization, paths, the bazel command line) without touching the
// filesystem or running anything. [Run] executes a plan:
//
//   - documentation mode unpacks the embedded placeholder bundle;
//   - a prebuilt artifact is installed, its headers provisioned, and
//     bindings generated against them;
//   - otherwise the source tree is cloned, configured and built with
//     bazel, the artifact installed, and bindings generated against the
//     tree.
//
// Every mode then writes the cgo link file (except documentation mode)
// and the build manifest. Stages run in order and the first failure
// aborts the run; nothing completed earlier is rolled back.
//
// The output directory is held under [lockfile] for the whole run, and
// a run whose inputs and artifacts match the manifest is skipped unless
// [Options.Force] is set.
package orchestrator
