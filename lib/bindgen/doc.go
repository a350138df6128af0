// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bindgen generates the Go binding package for the TensorFlow
// Lite C API with c-for-go.
//
// c-for-go is driven by a YAML manifest. [NewManifest] builds one that
// parses c_api.h (and the XNNPACK delegate header when that feature is
// on) from an include root, accepts the TfLite API symbols, and names
// the output package tflitec. [Generate] writes the manifest into the
// output directory, runs the generator, and checks that the package's
// main file appeared.
package bindgen
