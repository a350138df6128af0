// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner is the process-invocation layer for the build
// pipeline. Every external tool (git, the configure interpreter, bazel,
// the binding generator) is started through the [Runner] interface.
//
// [Exec] is the os/exec implementation. It streams tool output to the
// caller's writers while keeping a copy of stderr, so that a failure is
// reported as the tool's own message ([Error]) rather than a bare
// "exit status 1". [Fake] records commands and lets tests script their
// results without any binaries on the machine.
//
// There are no timeouts or retries. Cancellation comes only from the
// caller's context.
package runner
