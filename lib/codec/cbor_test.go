// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

type sampleRecord struct {
	Tag      string    `json:"tag"`
	Features []string  `json:"features,omitempty"`
	Count    int       `json:"count"`
	Built    time.Time `json:"built"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Tag:      "v2.19.0",
		Features: []string{"xnnpack"},
		Count:    2,
		Built:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Tag != original.Tag || decoded.Count != original.Count || !decoded.Built.Equal(original.Built) {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}
	first, err := Marshal(value)
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(sampleRecord{Tag: "v1", Count: 1})
	if err != nil {
		t.Fatal(err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	// map[string]any re-encodes as JSON; map[any]any would not.
	if _, err := json.Marshal(decoded); err != nil {
		t.Errorf("decoded value is not JSON-encodable: %v", err)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleRecord{Tag: "v2.19.0", Count: 1})
	if err != nil {
		t.Fatal(err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"tag": "v2.19.0"`) {
		t.Errorf("diagnostic = %s", diagnostic)
	}
}
