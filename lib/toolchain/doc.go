// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolchain prepares the environment that TensorFlow's
// configure.py and bazel build expect.
//
// configure.py is non-interactive only when every question it would
// ask has an answer in the environment. [Configure] fills in a fixed
// table of answers (no CUDA, no ROCm, no OpenCL, and so on) without
// overriding anything the caller already set, locates a Python
// interpreter that can import numpy, and checks the SDK variables that
// Android builds cannot do without.
package toolchain
