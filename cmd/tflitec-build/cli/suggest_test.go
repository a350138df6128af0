// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"build", "", 5},
		{"build", "build", 0},
		{"biuld", "build", 2},
		{"headrs", "headers", 1},
		{"manifest", "manifests", 1},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if got := levenshtein(test.b, test.a); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d (symmetry)", test.b, test.a, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("build", pflag.ContinueOnError)
	flagSet.Bool("force", false, "")
	flagSet.StringP("out", "o", "", "")

	if got := suggestFlag([]string{"-o", "x", "--forse"}, flagSet); got != "--force" {
		t.Errorf("suggestFlag = %q, want --force", got)
	}
	if got := suggestFlag([]string{"--completely-different"}, flagSet); got != "" {
		t.Errorf("suggestFlag = %q, want no suggestion", got)
	}
}
