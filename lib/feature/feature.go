// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package feature models the optional TensorFlow Lite build features:
// the XNNPACK delegate and its quantized-operator variants.
package feature

import (
	"fmt"
	"sort"
	"strings"
)

// Feature names as accepted on the command line and in config files.
const (
	XNNPACK    = "xnnpack"
	XNNPACKQU8 = "xnnpack_qu8"
	XNNPACKQS8 = "xnnpack_qs8"
)

var known = map[string]bool{XNNPACK: true, XNNPACKQU8: true, XNNPACKQS8: true}

// Set is a normalized set of enabled features. The zero value has
// everything disabled.
type Set struct {
	XNNPACK bool `json:"xnnpack"`
	QU8     bool `json:"xnnpack_qu8"`
	QS8     bool `json:"xnnpack_qs8"`
}

// Parse builds a Set from feature names. Names may also be given as one
// comma-separated string. Unknown names are an error listing the valid
// ones. Either quantized variant implies XNNPACK.
func Parse(names []string) (Set, error) {
	var set Set
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if !known[name] {
				return Set{}, fmt.Errorf("unknown feature %q (valid: %s)", name, strings.Join(All(), ", "))
			}
			switch name {
			case XNNPACK:
				set.XNNPACK = true
			case XNNPACKQU8:
				set.QU8 = true
			case XNNPACKQS8:
				set.QS8 = true
			}
		}
	}
	return set.Normalize(), nil
}

// Normalize returns s with implied features enabled.
func (s Set) Normalize() Set {
	if s.QU8 || s.QS8 {
		s.XNNPACK = true
	}
	return s
}

// Names returns the enabled feature names in sorted order.
func (s Set) Names() []string {
	var names []string
	if s.XNNPACK {
		names = append(names, XNNPACK)
	}
	if s.QS8 {
		names = append(names, XNNPACKQS8)
	}
	if s.QU8 {
		names = append(names, XNNPACKQU8)
	}
	return names
}

// String joins the enabled names with commas, or "none".
func (s Set) String() string {
	names := s.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// All returns every known feature name, sorted.
func All() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
