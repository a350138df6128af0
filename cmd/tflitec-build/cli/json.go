// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
	"os"
	"reflect"
)

// JSONOutput adds --json to any params struct that embeds it. A command
// calls EmitJSON first and falls through to its text rendering when
// EmitJSON reports it did nothing:
//
//	if done, err := params.EmitJSON(result); done {
//	    return err
//	}
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"print the result as JSON"`
}

// EmitJSON prints result to stdout when --json was given.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(os.Stdout, emptyIfNilSlice(result))
}

// WriteJSON writes value to w with two-space indentation.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// emptyIfNilSlice turns a nil slice into an empty one so it encodes as
// [] instead of null.
func emptyIfNilSlice(value any) any {
	if v := reflect.ValueOf(value); v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
