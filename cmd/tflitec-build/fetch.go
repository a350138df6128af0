// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/orchestrator"
)

type fetchParams struct {
	cli.JSONOutput
	configParams
}

type fetchResult struct {
	SourceDir string `json:"source_dir"`
	Cloned    bool   `json:"cloned"`
	Commit    string `json:"commit,omitempty"`
}

func fetchCommand() *cli.Command {
	var params fetchParams

	return &cli.Command{
		Name:    "fetch",
		Summary: "Clone the TensorFlow source tree without building",
		Description: `Make sure the output directory holds a complete shallow clone of
TensorFlow at the configured tag. An existing complete clone is left
alone; an interrupted one is removed and cloned again.`,
		Usage: "tflitec-build fetch [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("fetch", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Validation("fetch takes no arguments (got %q)", args)
			}
			current, err := params.open(environ.FromOS())
			if err != nil {
				return err
			}
			prepared, plan, err := orchestrator.Fetch(ctx, current.options(params.OutputJSON))
			if err != nil {
				return err
			}

			result := fetchResult{SourceDir: plan.SourceDir, Cloned: prepared.Cloned}
			if commit, err := prepared.Repository.Head(ctx); err == nil {
				result.Commit = commit
			} else {
				current.logger.Debug("unable to read source commit", "error", err)
			}

			if done, err := params.EmitJSON(result); done {
				return err
			}
			state := "already present"
			if result.Cloned {
				state = "cloned"
			}
			fmt.Fprintf(os.Stdout, "%s: %s\n", result.SourceDir, state)
			if result.Commit != "" {
				fmt.Fprintf(os.Stdout, "  commit %s\n", result.Commit)
			}
			return nil
		},
	}
}
