// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
	"github.com/bureau-foundation/tflitec/lib/config"
	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/orchestrator"
)

type planParams struct {
	cli.JSONOutput
	configParams
}

func planCommand() *cli.Command {
	var params planParams

	return &cli.Command{
		Name:    "plan",
		Summary: "Show what a build would do",
		Description: `Resolve the target, features, customization values, paths and the
bazel command line, and print them without running anything or
touching the output directory.`,
		Usage: "tflitec-build plan [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the bazel invocation for iOS",
				Command:     "GOOS=ios GOARCH=arm64 tflitec-build plan",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("plan", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			current, err := params.open(environ.FromOS())
			if err != nil {
				return err
			}
			plan, err := current.plan()
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(plan); done {
				return err
			}
			renderPlan(os.Stdout, plan, newStyles(os.Stdout, stdoutColor()))
			return nil
		},
	}
}

func renderPlan(w io.Writer, plan *orchestrator.Plan, style styles) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%s%s\n", style.label.Render(label), style.value.Render(value))
	}

	fmt.Fprintln(w, style.heading.Render("TensorFlow Lite C "+plan.Tag))
	row("mode", plan.Mode)
	if plan.Target.GOOS != "" {
		row("target", plan.Target.String())
		row("config", plan.ConfigID)
	}
	row("features", plan.Features.String())
	row("output", plan.OutDir)
	row("source", plan.SourceDir)
	row("library", plan.Library)
	row("ldflags", strings.Join(plan.LinkFlags, " "))

	settings := []struct {
		name    string
		setting config.Setting
	}{
		{config.BazelCoptsVariable, plan.Customization.BazelCopts},
		{config.PrebuiltPathVariable, plan.Customization.PrebuiltPath},
		{config.HeaderDirVariable, plan.Customization.HeaderDir},
	}
	printed := false
	for _, entry := range settings {
		if !entry.setting.Set() {
			continue
		}
		if !printed {
			fmt.Fprintln(w)
			fmt.Fprintln(w, style.heading.Render("Customization"))
			printed = true
		}
		fmt.Fprintf(w, "  %s=%s %s\n", entry.name, entry.setting.Value,
			style.faint.Render("("+entry.setting.Source+")"))
	}

	if plan.Bazel != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, style.heading.Render("Bazel"))
		row("label", plan.Bazel.Label)
		row("output", plan.Bazel.OutputPath)
		fmt.Fprintf(w, "  bazel %s\n", strings.Join(plan.Bazel.Args, " "))
	}

	if len(plan.Headers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, style.heading.Render("Headers"))
		for _, header := range plan.Headers {
			fmt.Fprintf(w, "  %s\n", header)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, style.faint.Render("fingerprint "+plan.Fingerprint))
}
