// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil seeds and inspects output directories in tests.
// Every helper fails the test through t.Fatalf instead of returning an
// error.
package testutil
