// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process ends tflitec-build with a status code after printing
// the error that caused it.
package process
