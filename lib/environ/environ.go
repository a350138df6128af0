// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package environ provides an explicit, copyable view of process
// environment variables. Build stages read and extend an Environ instead
// of calling os.Getenv and os.Setenv, so that the variables a stage
// depends on are visible at its call site and tests can construct the
// exact environment they need.
//
// An Environ is converted back to the KEY=VALUE form expected by
// os/exec with [Environ.Slice] when launching subprocesses.
package environ

import (
	"os"
	"sort"
	"strings"
)

// Environ is a set of environment variables. The zero value is an
// empty environment ready to use. Environ is not safe for concurrent
// mutation; the build pipeline is single-threaded.
type Environ struct {
	values map[string]string
}

// FromOS returns an Environ populated from the current process
// environment.
func FromOS() *Environ {
	return FromSlice(os.Environ())
}

// FromSlice returns an Environ populated from KEY=VALUE entries. Entries
// without "=" are ignored. When a key repeats, the last value wins,
// matching the behavior of os/exec.
func FromSlice(entries []string) *Environ {
	environ := &Environ{values: make(map[string]string, len(entries))}
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		environ.values[key] = value
	}
	return environ
}

// Lookup returns the value of name and whether it is set. A variable set
// to the empty string is reported as set.
func (e *Environ) Lookup(name string) (string, bool) {
	if e == nil || e.values == nil {
		return "", false
	}
	value, ok := e.values[name]
	return value, ok
}

// Get returns the value of name, or "" when unset.
func (e *Environ) Get(name string) string {
	value, _ := e.Lookup(name)
	return value
}

// Set assigns value to name, replacing any previous value.
func (e *Environ) Set(name, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	e.values[name] = value
}

// SetDefault assigns value to name only when name is unset. Returns true
// when the default was applied. Caller-supplied values are never
// replaced.
func (e *Environ) SetDefault(name, value string) bool {
	if _, ok := e.Lookup(name); ok {
		return false
	}
	e.Set(name, value)
	return true
}

// LookupTargetDependent returns the value of "<name>_<suffix>" if set,
// otherwise the value of name. The suffixed form lets one environment
// carry different settings for each cross-compilation target (for
// example TFLITEC_PREBUILT_PATH_ANDROID_ARM64 next to
// TFLITEC_PREBUILT_PATH). An empty suffix only consults name.
func (e *Environ) LookupTargetDependent(name, suffix string) (string, bool) {
	if suffix != "" {
		if value, ok := e.Lookup(name + "_" + suffix); ok {
			return value, true
		}
	}
	return e.Lookup(name)
}

// Clone returns an independent copy.
func (e *Environ) Clone() *Environ {
	clone := &Environ{values: make(map[string]string, e.Len())}
	if e != nil {
		for key, value := range e.values {
			clone.values[key] = value
		}
	}
	return clone
}

// Len returns the number of variables.
func (e *Environ) Len() int {
	if e == nil {
		return 0
	}
	return len(e.values)
}

// Slice returns the variables as KEY=VALUE entries sorted by key, the
// form accepted by exec.Cmd.Env.
func (e *Environ) Slice() []string {
	if e == nil {
		return nil
	}
	keys := make([]string, 0, len(e.values))
	for key := range e.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, key+"="+e.values[key])
	}
	return entries
}
