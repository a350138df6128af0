// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
	"github.com/bureau-foundation/tflitec/lib/bindgen"
	"github.com/bureau-foundation/tflitec/lib/environ"
)

func bindingsCommand() *cli.Command {
	return &cli.Command{
		Name:    "bindings",
		Summary: "Generate or inspect the cgo binding package",
		Subcommands: []*cli.Command{
			bindingsGenerateCommand(),
			bindingsShowCommand(),
		},
	}
}

type bindingsGenerateParams struct {
	cli.JSONOutput
	configParams
}

func bindingsGenerateCommand() *cli.Command {
	var params bindingsGenerateParams

	return &cli.Command{
		Name:    "generate",
		Summary: "Regenerate bindings from the headers in the output directory",
		Description: `Run the binding generator against the headers already present in the
source directory (from "fetch" or "headers"), without building or
installing the library.`,
		Usage: "tflitec-build bindings generate [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("generate", &params)
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
			options := current.options(params.OutputJSON)
			result, err := bindgen.Generate(ctx, options.Runner, bindgen.Options{
				Binary:      current.config.BindgenBinary(current.env),
				OutDir:      plan.OutDir,
				IncludeRoot: plan.SourceDir,
				Features:    plan.Features,
				Logger:      current.logger,
			})
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			fmt.Fprintf(os.Stdout, "Generated %s\n", result.MainFile)
			return nil
		},
	}
}

type bindingsShowParams struct {
	configParams
	Plain bool `json:"-" flag:"plain" desc:"never highlight"`
}

func bindingsShowCommand() *cli.Command {
	var params bindingsShowParams

	return &cli.Command{
		Name:    "show",
		Summary: "Print the generated binding source",
		Usage:   "tflitec-build bindings show [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			current, err := params.open(environ.FromOS())
			if err != nil {
				return err
			}
			path := bindgen.MainFile(current.outDir)
			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				return cli.NotFound("no generated bindings at %s; run \"tflitec-build build\" first", path)
			}
			if err != nil {
				return err
			}
			return writeSource(os.Stdout, string(data), !params.Plain && stdoutColor())
		},
	}
}
