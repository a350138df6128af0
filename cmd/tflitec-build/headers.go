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

type headersParams struct {
	cli.JSONOutput
	configParams
}

func headersCommand() *cli.Command {
	var params headersParams

	return &cli.Command{
		Name:    "headers",
		Summary: "Provide the C API headers for the configured tag",
		Description: `Place the TensorFlow Lite C API headers under the source directory in
the output directory. Existing headers are kept. Missing ones are
copied from TFLITEC_HEADER_DIR when set, otherwise downloaded from the
configured header base URL at the configured tag.`,
		Usage: "tflitec-build headers [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("headers", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Validation("headers takes no arguments (got %q)", args)
			}
			current, err := params.open(environ.FromOS())
			if err != nil {
				return err
			}
			provided, err := orchestrator.ProvisionHeaders(ctx, current.options(params.OutputJSON))
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(provided); done {
				return err
			}
			for _, header := range provided {
				fmt.Fprintf(os.Stdout, "%-10s %s\n", header.Source, header.Path)
			}
			return nil
		},
	}
}
