// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/orchestrator"
)

type buildParams struct {
	cli.JSONOutput
	configParams
	Force bool `json:"-" flag:"force" desc:"rebuild even when the output directory is up to date"`
}

func buildCommand() *cli.Command {
	var params buildParams

	return &cli.Command{
		Name:    "build",
		Summary: "Build or install the library and generate bindings",
		Description: `Produce the TensorFlow Lite C library for the target and generate the
cgo binding package.

With TFLITEC_PREBUILT_PATH (or prebuilt_path in the configuration) the
given artifact is installed instead of building; headers are then
copied from TFLITEC_HEADER_DIR or downloaded. Otherwise TensorFlow is
cloned at the configured tag, configured, and built with bazel.

The build is skipped when the manifest in the output directory records
the same inputs and the installed files are unchanged.`,
		Usage: "tflitec-build build [flags]",
		Examples: []cli.Example{
			{
				Description: "Build for the host with XNNPACK",
				Command:     "tflitec-build build --features xnnpack",
			},
			{
				Description: "Cross-build for Android",
				Command:     "GOOS=android GOARCH=arm64 ANDROID_NDK_HOME=... tflitec-build build",
			},
			{
				Description: "Install a prebuilt library",
				Command:     "TFLITEC_PREBUILT_PATH=/opt/tflite/libtensorflowlite_c.so tflitec-build build",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("build", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Validation("build takes no arguments (got %q)", args)
			}
			current, err := params.open(environ.FromOS())
			if err != nil {
				return err
			}

			options := current.options(params.OutputJSON)
			options.Force = params.Force
			result, err := orchestrator.Run(ctx, options)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(result); done {
				return err
			}
			printBuildResult(os.Stdout, result)
			return nil
		},
	}
}

func printBuildResult(w io.Writer, result *orchestrator.Result) {
	if result.Skipped {
		fmt.Fprintf(w, "Up to date: %s\n", result.Plan.OutDir)
	} else {
		fmt.Fprintf(w, "Built %s (%s)\n", result.Plan.Library, result.Plan.Mode)
		for _, path := range result.Installed {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
	fmt.Fprintf(w, "CGO_LDFLAGS=%s\n", result.LDFlags)
}
