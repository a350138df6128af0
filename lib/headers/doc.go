// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package headers provides the TensorFlow Lite C headers the binding
// generator reads when the library itself was not built from source.
//
// Headers are placed under a destination root at the same relative
// paths they have in the TensorFlow repository (for example
// tensorflow/lite/c/c_api.h), so the root can be used directly as an
// include directory. Each header is taken from an override directory
// when one is configured, otherwise downloaded from the raw file
// endpoint of the TensorFlow repository at the pinned tag. Headers
// already present at the destination are left alone.
package headers
