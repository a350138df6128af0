// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bureau-foundation/tflitec/lib/bazel"
	"github.com/bureau-foundation/tflitec/lib/bindgen"
	"github.com/bureau-foundation/tflitec/lib/config"
	"github.com/bureau-foundation/tflitec/lib/docsbundle"
	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/feature"
	"github.com/bureau-foundation/tflitec/lib/headers"
	"github.com/bureau-foundation/tflitec/lib/install"
	"github.com/bureau-foundation/tflitec/lib/manifest"
	"github.com/bureau-foundation/tflitec/lib/source"
	"github.com/bureau-foundation/tflitec/lib/target"
)

// Plan is a fully resolved build. It is computed from configuration and
// environment alone.
type Plan struct {
	Mode       string `json:"mode"`
	Tag        string `json:"tag"`
	Repository string `json:"repository"`

	// Target is zero in documentation mode.
	Target   target.Target `json:"target"`
	ConfigID string        `json:"config_id,omitempty"`
	Features feature.Set   `json:"features"`

	OutDir string `json:"out_dir"`

	// SourceDir is the TensorFlow tree. Prebuilt builds place
	// downloaded headers there too, so it is always the include root
	// for binding generation.
	SourceDir string `json:"source_dir"`

	Customization config.Resolved `json:"customization"`

	// Bazel is set only for source builds.
	Bazel *bazel.Plan `json:"bazel,omitempty"`

	// Headers are provisioned into SourceDir for prebuilt builds.
	Headers []string `json:"headers,omitempty"`

	// BindingHeaders are the headers bindings are generated from.
	BindingHeaders []string `json:"binding_headers,omitempty"`

	Library     string   `json:"library"`
	LinkFlags   []string `json:"link_flags"`
	Fingerprint string   `json:"fingerprint"`
}

// NewPlan resolves the build described by cfg, env and outDir. cfg is
// validated first; every configuration problem is reported together.
func NewPlan(cfg *config.Config, env *environ.Environ, outDir string) (*Plan, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if outDir == "" {
		outDir = cfg.ResolveOutDir(env, "")
	}
	absolute, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory %s: %w", outDir, err)
	}
	outDir = absolute

	features, err := cfg.FeatureSet()
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Tag:        cfg.Tag,
		Repository: cfg.Repository,
		Features:   features,
		OutDir:     outDir,
		SourceDir:  source.TreeDir(outDir, cfg.Tag),
	}

	if docsbundle.Enabled(env.Get(docsbundle.Variable)) {
		plan.Mode = manifest.ModeDocs
		plan.Library = filepath.Join(outDir, docsbundle.LibraryFile)
		plan.LinkFlags = []string{"-L" + outDir, "-l" + target.LibraryName}
		plan.Fingerprint = manifest.Fingerprint(manifest.Inputs{
			Tag:      cfg.Tag,
			Features: features,
			Tracked:  map[string]string{docsbundle.Variable: "1"},
		})
		return plan, nil
	}

	buildTarget, err := target.Resolve(env)
	if err != nil {
		return nil, err
	}
	plan.Target = buildTarget
	plan.ConfigID = buildTarget.ConfigID()
	plan.Customization = cfg.ResolveCustomization(env, buildTarget.EnvSuffix())
	plan.Library = install.LibraryPath(outDir, buildTarget)
	plan.LinkFlags = install.LinkFlags(outDir, buildTarget)
	plan.BindingHeaders = bindgen.SourceHeaders(features)

	tracked := plan.Customization.Tracked()
	if plan.Customization.PrebuiltPath.Set() {
		plan.Mode = manifest.ModePrebuilt
		plan.Headers = headers.Required(features)
	} else {
		plan.Mode = manifest.ModeSource
		bazelPlan := bazel.NewPlan(bazel.PlanOptions{
			SourceDir:  plan.SourceDir,
			OutputBase: bazel.OutputBaseDir(outDir, cfg.Tag),
			Target:     buildTarget,
			Features:   features,
			Copts:      plan.Customization.BazelCopts.Value,
		})
		plan.Bazel = &bazelPlan
		tracked["repository"] = cfg.Repository
	}

	plan.Fingerprint = manifest.Fingerprint(manifest.Inputs{
		Tag:      cfg.Tag,
		Target:   buildTarget,
		Features: features,
		Tracked:  tracked,
	})
	return plan, nil
}
