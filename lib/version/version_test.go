// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime })

	GitCommit, GitDirty, BuildTime = "abc1234", "true", "2026-01-02T03:04:05Z"
	want := Version + " (abc1234-dirty, 2026-01-02T03:04:05Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "false"
	if got := Info(); strings.Contains(got, "-dirty") {
		t.Errorf("Info() = %q, want no dirty marker", got)
	}
}

func TestFullMentionsTensorFlow(t *testing.T) {
	if !strings.Contains(Full(), "TensorFlow: "+TensorFlowTag) {
		t.Errorf("Full() = %q", Full())
	}
	if Fields()["tensorflow"] != TensorFlowTag {
		t.Errorf("Fields() = %v", Fields())
	}
}
