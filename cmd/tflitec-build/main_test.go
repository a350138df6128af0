// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
	"github.com/bureau-foundation/tflitec/lib/config"
	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/feature"
	"github.com/bureau-foundation/tflitec/lib/manifest"
	"github.com/bureau-foundation/tflitec/lib/orchestrator"
	"github.com/bureau-foundation/tflitec/lib/target"
	"github.com/bureau-foundation/tflitec/lib/testutil"
)

func TestRootListsCommands(t *testing.T) {
	var help bytes.Buffer
	command := root()
	command.SetHelpOutput(&help)
	if err := command.Execute(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, name := range []string{"build", "plan", "fetch", "headers", "bindings", "manifest", "version"} {
		if !strings.Contains(help.String(), "  "+name) {
			t.Errorf("help does not list %q:\n%s", name, help.String())
		}
	}
}

func TestRootRejectsUnknownFeature(t *testing.T) {
	t.Setenv("TFLITEC_CONFIG", "")
	err := root().Execute(context.Background(), []string{"plan", "--features", "cuda", "--out", t.TempDir()})
	if err == nil {
		t.Fatal("expected error")
	}
	if code, _ := cli.ExitCode(err); code != cli.ExitValidation {
		t.Errorf("exit code = %d, want %d (%v)", code, cli.ExitValidation, err)
	}
}

func TestCommandsRejectPositionalArguments(t *testing.T) {
	for _, name := range []string{"build", "fetch", "headers"} {
		t.Run(name, func(t *testing.T) {
			err := root().Execute(context.Background(), []string{name, "--out", t.TempDir(), "stray"})
			if err == nil {
				t.Fatal("expected error")
			}
			if code, _ := cli.ExitCode(err); code != cli.ExitValidation {
				t.Errorf("exit code = %d, want %d (%v)", code, cli.ExitValidation, err)
			}
			if !strings.Contains(err.Error(), "takes no arguments") {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestConfigParams_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tflitec.yaml")
	testutil.WriteFile(t, path, "tag: v2.18.0\nout_dir: /from/config\nfeatures: [xnnpack]\n")

	params := configParams{ConfigPath: path, Features: []string{"xnnpack_qu8"}}
	current, err := params.open(environ.FromSlice([]string{"TFLITEC_OUT_DIR=/from/env"}))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if current.config.Tag != "v2.18.0" {
		t.Errorf("Tag = %q", current.config.Tag)
	}
	if current.outDir != "/from/env" {
		t.Errorf("outDir = %q, want the environment override", current.outDir)
	}
	// --features replaces the configured list; qu8 implies xnnpack.
	if strings.Join(current.config.Features, ",") != "xnnpack,xnnpack_qu8" {
		t.Errorf("Features = %v", current.config.Features)
	}
}

func TestConfigParams_OpenMissingFile(t *testing.T) {
	params := configParams{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := params.open(environ.FromSlice(nil))
	var toolError *cli.ToolError
	if !errors.As(err, &toolError) || toolError.Category != cli.CategoryValidation {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestRenderPlan(t *testing.T) {
	outDir := t.TempDir()
	plan, err := orchestrator.NewPlan(config.Default(),
		environ.FromSlice([]string{"GOOS=ios", "GOARCH=arm64", "TFLITEC_BAZEL_COPTS_IOS_ARM64=-Os"}), outDir)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}

	var output bytes.Buffer
	renderPlan(&output, plan, newStyles(&output, false))
	text := output.String()
	for _, want := range []string{
		"TensorFlow Lite C v2.19.0",
		"ios_arm64",
		"TensorFlowLiteC.framework",
		"-framework TensorFlowLiteC",
		"//tensorflow/lite/ios:TensorFlowLiteC_framework",
		"--copt=-Os",
		"(TFLITEC_BAZEL_COPTS_IOS_ARM64)",
		"fingerprint " + plan.Fingerprint,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("plan output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "\x1b[") {
		t.Error("uncolored plan output contains escape sequences")
	}
}

func TestPrintBuildResult(t *testing.T) {
	plan := &orchestrator.Plan{OutDir: "/out", Library: "/out/libtensorflowlite_c.so", Mode: manifest.ModePrebuilt}
	var output bytes.Buffer
	printBuildResult(&output, &orchestrator.Result{
		Plan:      plan,
		Installed: []string{"/out/libtensorflowlite_c.so"},
		LDFlags:   "-L/out -ltensorflowlite_c",
	})
	if !strings.Contains(output.String(), "Built /out/libtensorflowlite_c.so (prebuilt)") ||
		!strings.Contains(output.String(), "CGO_LDFLAGS=-L/out -ltensorflowlite_c") {
		t.Errorf("output:\n%s", output.String())
	}

	output.Reset()
	printBuildResult(&output, &orchestrator.Result{Plan: plan, Skipped: true})
	if !strings.HasPrefix(output.String(), "Up to date: /out") {
		t.Errorf("skipped output:\n%s", output.String())
	}
}

func TestPrintManifest(t *testing.T) {
	buildTarget, err := target.New("android", "arm64")
	if err != nil {
		t.Fatal(err)
	}
	var output bytes.Buffer
	printManifest(&output, &manifest.Manifest{
		Tag:          "v2.19.0",
		Mode:         manifest.ModeSource,
		Target:       buildTarget,
		ConfigID:     "android_arm64",
		Features:     feature.Set{XNNPACK: true},
		SourceCommit: "abc123",
		CompletedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Artifacts:    []manifest.Artifact{{Path: "libtensorflowlite_c.so", Digest: "ff00"}},
	})
	for _, want := range []string{"config android_arm64", "commit       abc123", "2026-01-02T03:04:05Z", "ff00  libtensorflowlite_c.so"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("manifest output missing %q:\n%s", want, output.String())
		}
	}
}

func TestWriteSourcePlain(t *testing.T) {
	var output bytes.Buffer
	source := "package tflitec\n\nfunc Version() string { return \"\" }\n"
	if err := writeSource(&output, source, false); err != nil {
		t.Fatalf("writeSource: %v", err)
	}
	if output.String() != source {
		t.Errorf("plain output = %q", output.String())
	}

	output.Reset()
	if err := writeSource(&output, source, true); err != nil {
		t.Fatalf("writeSource: %v", err)
	}
	if !strings.Contains(output.String(), "\x1b[") {
		t.Error("highlighted output has no escape sequences")
	}
}
