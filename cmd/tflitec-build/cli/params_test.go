// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_TypesAndDefaults(t *testing.T) {
	type params struct {
		JSONOutput
		Config   string        `flag:"config" desc:"config file" default:"tflitec.yaml"`
		Verbose  bool          `flag:"verbose,v" desc:"debug logging"`
		Jobs     int           `flag:"jobs" desc:"parallel jobs" default:"4"`
		Wait     time.Duration `flag:"wait" desc:"lock wait" default:"10s"`
		Features []string      `flag:"features" desc:"features" default:"xnnpack"`
		Untagged string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if p.Config != "tflitec.yaml" || p.Jobs != 4 || p.Wait != 10*time.Second {
		t.Errorf("defaults not applied: %+v", p)
	}
	if len(p.Features) != 1 || p.Features[0] != "xnnpack" {
		t.Errorf("Features default = %v", p.Features)
	}

	if err := flagSet.Parse([]string{"-v", "--json", "--features", "xnnpack,xnnpack_qs8", "--jobs", "8"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.Verbose || !p.OutputJSON || p.Jobs != 8 {
		t.Errorf("parsed params = %+v", p)
	}
	if len(p.Features) != 2 || p.Features[1] != "xnnpack_qs8" {
		t.Errorf("Features = %v", p.Features)
	}
	if flagSet.Lookup("Untagged") != nil || flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlags_Errors(t *testing.T) {
	var notPointer struct{}
	if err := BindFlags(notPointer, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Error("expected error for non-pointer params")
	}

	var badDefault struct {
		Jobs int `flag:"jobs" default:"many"`
	}
	if err := BindFlags(&badDefault, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Error("expected error for unparseable default")
	}

	var unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	err := BindFlags(&unsupported, pflag.NewFlagSet("x", pflag.ContinueOnError))
	if err == nil || !strings.Contains(err.Error(), "unsupported type") {
		t.Errorf("error = %v, want unsupported type", err)
	}
}

func TestWriteJSONNormalizesNilSlices(t *testing.T) {
	var buffer bytes.Buffer
	var empty []string
	if err := WriteJSON(&buffer, emptyIfNilSlice(empty)); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("output = %q, want []", buffer.String())
	}
}
