// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration used for on-disk state.
//
// The build manifest is the one binary file this tool writes. It is
// CBOR with Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items. The same
// manifest always produces identical bytes, so an unchanged build
// leaves the file byte-for-byte unchanged.
//
// Types that also appear in CLI --json output carry only `json` struct
// tags. fxamacker/cbor reads them as a fallback, so one tag names the
// field in both formats.
package codec
