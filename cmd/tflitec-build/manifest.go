// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
	"github.com/bureau-foundation/tflitec/lib/codec"
	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/manifest"
)

type manifestParams struct {
	cli.JSONOutput
	configParams
	Diagnostic bool `json:"-" flag:"cbor-diagnostic" desc:"print the raw manifest in CBOR diagnostic notation"`
}

func manifestCommand() *cli.Command {
	var params manifestParams

	return &cli.Command{
		Name:    "manifest",
		Summary: "Print the build manifest of the output directory",
		Description: `Print what the last completed build installed: tag, target,
features, input fingerprint, source commit and each artifact with its
BLAKE3 digest.`,
		Usage: "tflitec-build manifest [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("manifest", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if params.Diagnostic && params.OutputJSON {
				return cli.Validation("--json and --cbor-diagnostic are mutually exclusive")
			}
			current, err := params.open(environ.FromOS())
			if err != nil {
				return err
			}

			if params.Diagnostic {
				data, err := manifest.ReadRaw(current.outDir)
				if err != nil {
					return manifestError(err)
				}
				notation, err := codec.Diagnose(data)
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, notation)
				return nil
			}

			stored, err := manifest.Read(current.outDir)
			if err != nil {
				return manifestError(err)
			}
			if done, err := params.EmitJSON(stored); done {
				return err
			}
			printManifest(os.Stdout, stored)
			return nil
		},
	}
}

func manifestError(err error) error {
	if errors.Is(err, manifest.ErrNotFound) {
		return cli.NotFound("%w; run \"tflitec-build build\" first", err)
	}
	return err
}

func printManifest(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintf(w, "tag          %s\n", m.Tag)
	fmt.Fprintf(w, "mode         %s\n", m.Mode)
	if m.Target.GOOS != "" {
		fmt.Fprintf(w, "target       %s (config %s)\n", m.Target, m.ConfigID)
	}
	fmt.Fprintf(w, "features     %s\n", m.Features)
	if m.SourceCommit != "" {
		fmt.Fprintf(w, "commit       %s\n", m.SourceCommit)
	}
	fmt.Fprintf(w, "completed    %s\n", m.CompletedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "fingerprint  %s\n", m.Fingerprint)
	fmt.Fprintln(w, "artifacts")
	for _, artifact := range m.Artifacts {
		fmt.Fprintf(w, "  %s  %s\n", artifact.Digest, artifact.Path)
	}
}
