// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for tflitec-build.
//
// A configuration file is optional. When present it is named by the
// --config flag or the TFLITEC_CONFIG environment variable; there is no
// automatic discovery. YAML is the native format. Files ending in .json
// or .jsonc are accepted too, with comments and trailing commas.
//
// The file pins what to build (tag, repository, features, output
// directory) and supplies defaults for the three customization values
// that the environment can also set: extra bazel compiler options, a
// prebuilt artifact path, and a header override directory. A `targets`
// section keyed by environment suffix (for example ANDROID_ARM64)
// overrides the base customization for one cross-compilation target.
// [Config.Customization] applies the full precedence order, with the
// environment always winning over the file.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${TFLITEC_OUT_DIR}, and ${VAR:-default} patterns are
// expanded against the environment the config was loaded with.
//
// Key exports:
//
//   - [Config] holds what to build plus per-target customization
//   - [Default] returns the pinned TensorFlow Lite release
//   - [Load] and [LoadFile] are the two entry points for loading
package config
