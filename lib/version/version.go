// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"

	// Version is set manually for releases.
	Version = "0.1.0-dev"
)

// TensorFlowTag is the TensorFlow release built when no tag is
// configured.
const TensorFlowTag = "v2.19.0"

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns Info plus the Go toolchain, host platform and the
// default TensorFlow tag.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s\n  TensorFlow: %s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH, TensorFlowTag)
}

// Fields returns the version information as a flat map for JSON output.
func Fields() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"dirty":      GitDirty,
		"build_time": BuildTime,
		"go":         runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		"tensorflow": TensorFlowTag,
	}
}
