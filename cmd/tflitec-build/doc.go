// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// tflitec-build fetches, builds and installs the TensorFlow Lite C
// library and generates the cgo binding package for it.
//
// A build writes into one output directory: the TensorFlow source tree
// (tensorflow_<tag>), the library (or iOS framework), the binding
// package (tflitec/) with a cgo link file for the target, and a CBOR
// build manifest. The usual entry point is a go:generate directive:
//
//	//go:generate go run github.com/bureau-foundation/tflitec/cmd/tflitec-build build --features xnnpack
//
// The target is taken from GOOS and GOARCH. Behaviour is customized
// with TFLITEC_BAZEL_COPTS, TFLITEC_PREBUILT_PATH and
// TFLITEC_HEADER_DIR, each of which may be suffixed with the target
// (TFLITEC_PREBUILT_PATH_ANDROID_ARM64) to apply to one target only.
// TFLITEC_DOCS=1 installs placeholder artifacts without building.
package main
