// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encoder, decoder = mustModes()

func mustModes() (cbor.EncMode, cbor.DecMode) {
	options := cbor.CoreDetEncOptions()
	// RFC 3339 text keeps CompletedAt readable in diagnostic output.
	options.Time = cbor.TimeRFC3339Nano
	enc, err := options.EncMode()
	if err != nil {
		panic("codec: building manifest encoder: " + err.Error())
	}
	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: building manifest decoder: " + err.Error())
	}
	return enc, dec
}

// Marshal returns the deterministic CBOR encoding of v.
func Marshal(v any) ([]byte, error) { return encoder.Marshal(v) }

// Unmarshal decodes data into v, ignoring fields v does not declare.
// Untyped maps decode with string keys.
func Unmarshal(data []byte, v any) error { return decoder.Unmarshal(data, v) }

// Diagnose renders data in CBOR diagnostic notation.
func Diagnose(data []byte) (string, error) { return cbor.Diagnose(data) }
