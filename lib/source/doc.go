// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package source provisions the TensorFlow source tree that the native
// build runs in.
//
// The tree lives at <out>/tensorflow_<tag>. A completed clone is marked
// by an empty ".complete_clone" file at the tree root; when the marker
// is present [Prepare] trusts the tree and does not touch the network.
// Without it, any leftover directory (an interrupted clone) is removed
// and a fresh shallow clone of the pinned tag is made.
//
// When the XNNPACK feature is enabled the tree additionally receives a
// BUILD file under tensorflow/lite/c/tmp that defines a shared library
// target with the XNNPACK delegate linked in. The overlay is rewritten
// on every call so that a tree cloned without the feature can be reused
// with it.
package source
