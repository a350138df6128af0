// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bureau-foundation/tflitec/lib/bazel"
	"github.com/bureau-foundation/tflitec/lib/bindgen"
	"github.com/bureau-foundation/tflitec/lib/clock"
	"github.com/bureau-foundation/tflitec/lib/config"
	"github.com/bureau-foundation/tflitec/lib/docsbundle"
	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/headers"
	"github.com/bureau-foundation/tflitec/lib/install"
	"github.com/bureau-foundation/tflitec/lib/lockfile"
	"github.com/bureau-foundation/tflitec/lib/manifest"
	"github.com/bureau-foundation/tflitec/lib/runner"
	"github.com/bureau-foundation/tflitec/lib/source"
	"github.com/bureau-foundation/tflitec/lib/toolchain"
)

// Options configures [Run], [Fetch] and [ProvisionHeaders].
type Options struct {
	Config *config.Config

	// Env is the process environment; nil reads the real one. Run
	// never modifies it; the configure answers are applied to a clone.
	Env *environ.Environ

	// OutDir overrides the configured output directory.
	OutDir string

	// Force rebuilds even when the manifest says the output is current.
	Force bool

	Runner runner.Runner

	// HTTPClient downloads headers. Nil uses http.DefaultClient.
	HTTPClient *http.Client

	Clock  clock.Clock
	Logger *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *Options) environment() *environ.Environ {
	if o.Env == nil {
		return environ.FromOS()
	}
	return o.Env
}

// Result reports what [Run] did.
type Result struct {
	Plan *Plan `json:"plan"`

	// Skipped is true when the output directory was already current.
	Skipped bool `json:"skipped"`

	Installed []string           `json:"installed,omitempty"`
	Headers   []headers.Provided `json:"headers,omitempty"`
	Toolchain *toolchain.Result  `json:"toolchain,omitempty"`
	Bindings  *bindgen.Result    `json:"bindings,omitempty"`
	CgoFile   string             `json:"cgo_file,omitempty"`
	Manifest  *manifest.Manifest `json:"manifest"`
	LDFlags   string             `json:"cgo_ldflags"`
}

// Run builds the output directory described by options.
func Run(ctx context.Context, options Options) (*Result, error) {
	if options.Runner == nil {
		return nil, errors.New("a runner is required")
	}
	logger := options.logger()
	env := options.environment()
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}

	plan, err := NewPlan(options.Config, env, options.OutDir)
	if err != nil {
		return nil, err
	}
	logger = logger.With("mode", plan.Mode, "out_dir", plan.OutDir)
	if plan.Mode != manifest.ModeDocs {
		logger = logger.With("target", plan.Target.String())
	}

	lock, err := lockfile.Acquire(ctx, plan.OutDir, logger)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	result := &Result{Plan: plan, LDFlags: install.LDFlagsEnv(plan.LinkFlags)}

	if !options.Force {
		previous, err := manifest.Read(plan.OutDir)
		switch {
		case err == nil:
			current, reason := previous.UpToDate(plan.OutDir, plan.Fingerprint)
			if current {
				logger.Info("output directory is up to date", "fingerprint", plan.Fingerprint)
				result.Skipped = true
				result.Manifest = previous
				return result, nil
			}
			logger.Info("rebuilding", "reason", reason)
		case errors.Is(err, manifest.ErrNotFound):
		default:
			logger.Warn("ignoring unreadable build manifest", "error", err)
		}
	}

	record := &manifest.Manifest{
		Tag:         plan.Tag,
		Mode:        plan.Mode,
		Target:      plan.Target,
		ConfigID:    plan.ConfigID,
		Features:    plan.Features,
		Fingerprint: plan.Fingerprint,
		LDFlags:     plan.LinkFlags,
	}

	switch plan.Mode {
	case manifest.ModeDocs:
		installed, err := docsbundle.Extract(plan.OutDir, logger)
		if err != nil {
			return nil, err
		}
		result.Installed = installed
	case manifest.ModePrebuilt:
		if err := runPrebuilt(ctx, options, plan, result, logger); err != nil {
			return nil, err
		}
	default:
		commit, err := runSource(ctx, options, env, plan, result, clk, logger)
		if err != nil {
			return nil, err
		}
		record.SourceCommit = commit
	}

	if plan.Mode != manifest.ModeDocs {
		cgoFile, err := install.WriteCgoFile(install.CgoOptions{
			OutDir:     plan.OutDir,
			IncludeDir: plan.SourceDir,
			Target:     plan.Target,
		})
		if err != nil {
			return nil, err
		}
		result.CgoFile = cgoFile
		result.Installed = append(result.Installed, cgoFile)
	}

	artifacts, err := manifest.DigestArtifacts(plan.OutDir, result.Installed)
	if err != nil {
		return nil, fmt.Errorf("recording artifacts: %w", err)
	}
	record.Artifacts = artifacts
	record.CompletedAt = clk.Now().UTC()
	if err := manifest.Write(plan.OutDir, record); err != nil {
		return nil, err
	}
	result.Manifest = record

	logger.Info("build complete", "library", plan.Library, "cgo_ldflags", result.LDFlags)
	return result, nil
}

func runPrebuilt(ctx context.Context, options Options, plan *Plan, result *Result, logger *slog.Logger) error {
	installed, err := install.Prebuilt(plan.Customization.PrebuiltPath.Value, plan.OutDir, plan.Target, logger)
	if err != nil {
		return err
	}
	result.Installed = installed.Paths()

	provided, err := ProvisionHeaders(ctx, options)
	if err != nil {
		return err
	}
	result.Headers = provided

	bindings, err := generateBindings(ctx, options, plan, logger)
	if err != nil {
		return err
	}
	result.Bindings = bindings
	result.Installed = append(result.Installed, bindings.MainFile)
	return nil
}

func runSource(ctx context.Context, options Options, env *environ.Environ, plan *Plan, result *Result, clk clock.Clock, logger *slog.Logger) (string, error) {
	// Prerequisites are checked before the clone, which is the slow part.
	buildEnv := env.Clone()
	configured, err := toolchain.Configure(ctx, options.Runner, buildEnv, plan.Target, logger)
	if err != nil {
		return "", err
	}
	result.Toolchain = configured

	prepared, err := source.Prepare(ctx, options.Runner, source.Options{
		Dir:     plan.SourceDir,
		URL:     plan.Repository,
		Tag:     plan.Tag,
		XNNPACK: plan.Features.XNNPACK,
		Env:     env.Slice(),
		Clock:   clk,
		Logger:  logger,
	})
	if err != nil {
		return "", err
	}

	binary, err := bazel.FindBinary(options.Runner, options.Config.BazelBinary(env))
	if err != nil {
		return "", err
	}
	err = bazel.Run(ctx, options.Runner, *plan.Bazel, bazel.RunOptions{
		Binary: binary,
		Python: configured.Python,
		Env:    buildEnv.Slice(),
		Logger: logger,
	})
	if err != nil {
		return "", err
	}

	installed, err := install.Built(plan.Bazel.OutputPath, plan.OutDir, plan.Target, logger)
	if err != nil {
		return "", err
	}
	result.Installed = installed.Paths()

	commit, err := prepared.Repository.Head(ctx)
	if err != nil {
		logger.Warn("unable to read source commit", "error", err)
		commit = ""
	}

	bindings, err := generateBindings(ctx, options, plan, logger)
	if err != nil {
		return "", err
	}
	result.Bindings = bindings
	result.Installed = append(result.Installed, bindings.MainFile)
	return commit, nil
}

func generateBindings(ctx context.Context, options Options, plan *Plan, logger *slog.Logger) (*bindgen.Result, error) {
	return bindgen.Generate(ctx, options.Runner, bindgen.Options{
		Binary:      options.Config.BindgenBinary(options.environment()),
		OutDir:      plan.OutDir,
		IncludeRoot: plan.SourceDir,
		Features:    plan.Features,
		Logger:      logger,
	})
}

// Fetch makes sure the TensorFlow source tree for the configured tag is
// present in the output directory, without building.
func Fetch(ctx context.Context, options Options) (*source.Result, *Plan, error) {
	if options.Runner == nil {
		return nil, nil, errors.New("a runner is required")
	}
	logger := options.logger()
	plan, err := NewPlan(options.Config, options.environment(), options.OutDir)
	if err != nil {
		return nil, nil, err
	}
	lock, err := lockfile.Acquire(ctx, plan.OutDir, logger)
	if err != nil {
		return nil, nil, err
	}
	defer lock.Release()

	prepared, err := source.Prepare(ctx, options.Runner, source.Options{
		Dir:     plan.SourceDir,
		URL:     plan.Repository,
		Tag:     plan.Tag,
		XNNPACK: plan.Features.XNNPACK,
		Clock:   options.Clock,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return prepared, plan, nil
}

// ProvisionHeaders places the C API headers for the configured tag and
// features under the source directory, copying from the configured
// header directory or downloading.
func ProvisionHeaders(ctx context.Context, options Options) ([]headers.Provided, error) {
	plan, err := NewPlan(options.Config, options.environment(), options.OutDir)
	if err != nil {
		return nil, err
	}
	logger := options.logger()
	lock, err := lockfile.Acquire(ctx, plan.OutDir, logger)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	required := plan.Headers
	if len(required) == 0 {
		required = headers.Required(plan.Features)
	}
	return headers.Provision(ctx, headers.Options{
		Root:        plan.SourceDir,
		Headers:     required,
		OverrideDir: plan.Customization.HeaderDir.Value,
		BaseURL:     options.Config.HeaderBaseURL,
		Tag:         plan.Tag,
		Client:      options.HTTPClient,
		Logger:      logger,
	})
}
