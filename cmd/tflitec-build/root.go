// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
	"github.com/bureau-foundation/tflitec/lib/config"
	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/feature"
	"github.com/bureau-foundation/tflitec/lib/orchestrator"
	"github.com/bureau-foundation/tflitec/lib/runner"
)

func root() *cli.Command {
	return &cli.Command{
		Name:    "tflitec-build",
		Summary: "Build TensorFlow Lite C and its Go bindings",
		Description: `Fetch, build and install the TensorFlow Lite C library for the
target named by GOOS and GOARCH, and generate the cgo binding package.

Everything is written to one output directory (--out, TFLITEC_OUT_DIR,
or out_dir in the configuration file).`,
		Subcommands: []*cli.Command{
			buildCommand(),
			planCommand(),
			fetchCommand(),
			headersCommand(),
			bindingsCommand(),
			manifestCommand(),
			versionCommand(),
		},
	}
}

// configParams are the flags shared by every command that resolves a
// build.
type configParams struct {
	ConfigPath string   `json:"-" flag:"config" desc:"configuration file, YAML or JSONC (default: $TFLITEC_CONFIG)"`
	OutDir     string   `json:"-" flag:"out,o" desc:"output directory (default: $TFLITEC_OUT_DIR or the configured out_dir)"`
	Features   []string `json:"-" flag:"features" desc:"build features: xnnpack, xnnpack_qu8, xnnpack_qs8 (default: the configured features)"`
	Verbose    bool     `json:"-" flag:"verbose,v" desc:"log debug output"`
}

// session is the resolved context of one command invocation.
type session struct {
	env    *environ.Environ
	config *config.Config
	outDir string
	logger *slog.Logger
}

// open loads configuration and applies command-line overrides.
// Configuration problems are validation errors.
func (p *configParams) open(env *environ.Environ) (*session, error) {
	var cfg *config.Config
	var err error
	if p.ConfigPath != "" {
		cfg, err = config.LoadFile(p.ConfigPath, env)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	if len(p.Features) > 0 {
		set, err := feature.Parse(p.Features)
		if err != nil {
			return nil, cli.Validation("--features: %w", err)
		}
		cfg.Features = set.Names()
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}

	return &session{
		env:    env,
		config: cfg,
		outDir: cfg.ResolveOutDir(env, p.OutDir),
		logger: cli.NewCommandLogger(p.Verbose),
	}, nil
}

// options returns orchestrator options for the session. With
// jsonOutput, tool output is sent to stderr so stdout carries only the
// JSON document.
func (s *session) options(jsonOutput bool) orchestrator.Options {
	run := runner.Stdio(s.logger)
	if jsonOutput {
		run = runner.NewExec(s.logger, os.Stderr, os.Stderr)
	}
	return orchestrator.Options{
		Config: s.config,
		Env:    s.env,
		OutDir: s.outDir,
		Runner: run,
		Logger: s.logger,
	}
}

func (s *session) plan() (*orchestrator.Plan, error) {
	return orchestrator.NewPlan(s.config, s.env, s.outDir)
}
