// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/feature"
)

// Pinned TensorFlow release.
const (
	DefaultTag        = "v2.19.0"
	DefaultRepository = "https://github.com/tensorflow/tensorflow.git"
	DefaultHeaderURL  = "https://raw.githubusercontent.com/tensorflow/tensorflow"
	DefaultOutDir     = "tflitec-out"
)

// Environment variables read by the tool itself.
const (
	// ConfigVariable names the configuration file.
	ConfigVariable = "TFLITEC_CONFIG"

	// OutDirVariable overrides the output directory.
	OutDirVariable = "TFLITEC_OUT_DIR"

	// BazelVariable and BindgenVariable override tool binaries.
	BazelVariable   = "TFLITEC_BAZEL"
	BindgenVariable = "TFLITEC_BINDGEN"

	// Customization variables. Each is also read with a
	// "_<GOOS>_<GOARCH>" suffix that takes precedence.
	BazelCoptsVariable   = "TFLITEC_BAZEL_COPTS"
	PrebuiltPathVariable = "TFLITEC_PREBUILT_PATH"
	HeaderDirVariable    = "TFLITEC_HEADER_DIR"
)

// CustomizationVariables lists the target-dependent variables in the
// order they are tracked for the build fingerprint.
var CustomizationVariables = []string{
	BazelCoptsVariable,
	PrebuiltPathVariable,
	HeaderDirVariable,
}

// Config is the tool configuration.
type Config struct {
	// Tag is the TensorFlow git tag to build and to download headers
	// for.
	Tag string `yaml:"tag"`

	// Repository is the TensorFlow git remote.
	Repository string `yaml:"repository"`

	// HeaderBaseURL serves raw repository files; the tag and header
	// path are appended.
	HeaderBaseURL string `yaml:"header_base_url"`

	// OutDir receives the source tree, library, headers and bindings.
	OutDir string `yaml:"out_dir"`

	// Features are optional build features (xnnpack, xnnpack_qu8,
	// xnnpack_qs8).
	Features []string `yaml:"features"`

	// Tools overrides tool binaries.
	Tools ToolsConfig `yaml:"tools"`

	// Customization applies to every target.
	Customization Customization `yaml:"customization"`

	// Targets holds per-target customization keyed by environment
	// suffix (LINUX_AMD64, ANDROID_ARM64, ...).
	Targets map[string]Customization `yaml:"targets,omitempty"`
}

// ToolsConfig names tool binaries. Empty fields are resolved on PATH.
type ToolsConfig struct {
	Bazel   string `yaml:"bazel"`
	Bindgen string `yaml:"bindgen"`
}

// Customization holds the values the customization variables set.
type Customization struct {
	// BazelCopts are extra compiler options, whitespace separated.
	BazelCopts string `yaml:"bazel_copts"`

	// PrebuiltPath installs this artifact instead of building.
	PrebuiltPath string `yaml:"prebuilt_path"`

	// HeaderDir supplies headers instead of downloading them.
	HeaderDir string `yaml:"header_dir"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tag:           DefaultTag,
		Repository:    DefaultRepository,
		HeaderBaseURL: DefaultHeaderURL,
		OutDir:        DefaultOutDir,
	}
}

// Load loads the file named by TFLITEC_CONFIG in env, or returns
// [Default] expanded against env when the variable is unset.
func Load(env *environ.Environ) (*Config, error) {
	path := env.Get(ConfigVariable)
	if path == "" {
		cfg := Default()
		cfg.expandVariables(env)
		return cfg, nil
	}
	return LoadFile(path, env)
}

// LoadFile loads configuration from path on top of [Default].
func LoadFile(path string, env *environ.Environ) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables(env)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so once comments and trailing
		// commas are stripped the YAML decoder handles it.
		data = jsonc.ToJSON(data)
	}
	return yaml.Unmarshal(data, c)
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables(env *environ.Environ) {
	vars := map[string]string{
		"HOME":         env.Get("HOME"),
		OutDirVariable: env.Get(OutDirVariable),
	}
	if vars["HOME"] == "" {
		vars["HOME"], _ = os.UserHomeDir()
	}

	c.OutDir = expandVars(c.OutDir, vars, env)
	c.Tools.Bazel = expandVars(c.Tools.Bazel, vars, env)
	c.Tools.Bindgen = expandVars(c.Tools.Bindgen, vars, env)
	c.Customization.expand(vars, env)
	for suffix, customization := range c.Targets {
		customization.expand(vars, env)
		c.Targets[suffix] = customization
	}
}

func (c *Customization) expand(vars map[string]string, env *environ.Environ) {
	c.PrebuiltPath = expandVars(c.PrebuiltPath, vars, env)
	c.HeaderDir = expandVars(c.HeaderDir, vars, env)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string, env *environ.Environ) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := env.Get(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var suffixPattern = regexp.MustCompile(`^[A-Z0-9]+_[A-Z0-9_]+$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Tag == "" {
		errs = append(errs, errors.New("tag is required"))
	}
	if c.Repository == "" {
		errs = append(errs, errors.New("repository is required"))
	}
	if c.OutDir == "" {
		errs = append(errs, errors.New("out_dir is required"))
	}

	if parsed, err := url.Parse(c.HeaderBaseURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("header_base_url must be an http(s) URL, got %q", c.HeaderBaseURL))
	}

	if _, err := feature.Parse(c.Features); err != nil {
		errs = append(errs, fmt.Errorf("features: %w", err))
	}

	for suffix := range c.Targets {
		if !suffixPattern.MatchString(suffix) {
			errs = append(errs, fmt.Errorf("targets.%s: key must be an uppercase GOOS_GOARCH suffix such as LINUX_AMD64", suffix))
		}
	}

	return errors.Join(errs...)
}

// FeatureSet parses Features. Call after [Config.Validate].
func (c *Config) FeatureSet() (feature.Set, error) {
	return feature.Parse(c.Features)
}

// Setting is a resolved customization value and where it came from.
type Setting struct {
	Value string `json:"value"`

	// Source is the variable name, "config targets.<suffix>", or
	// "config". Empty when unset.
	Source string `json:"source,omitempty"`
}

// Set reports whether the setting has a value.
func (s Setting) Set() bool { return s.Source != "" }

// Resolved holds the customization for one target.
type Resolved struct {
	BazelCopts   Setting `json:"bazel_copts"`
	PrebuiltPath Setting `json:"prebuilt_path"`
	HeaderDir    Setting `json:"header_dir"`
}

// Tracked returns the effective value of each set customization
// variable, keyed by variable name, for the build fingerprint.
func (r Resolved) Tracked() map[string]string {
	tracked := make(map[string]string)
	for name, setting := range map[string]Setting{
		BazelCoptsVariable:   r.BazelCopts,
		PrebuiltPathVariable: r.PrebuiltPath,
		HeaderDirVariable:    r.HeaderDir,
	} {
		if setting.Set() {
			tracked[name] = setting.Value
		}
	}
	return tracked
}

// ResolveCustomization resolves the customization values for the target with
// the given environment suffix. Precedence, highest first: the
// suffixed variable, the plain variable, the config targets section,
// the config base section.
func (c *Config) ResolveCustomization(env *environ.Environ, suffix string) Resolved {
	perTarget := c.Targets[suffix]
	return Resolved{
		BazelCopts:   resolve(env, BazelCoptsVariable, suffix, perTarget.BazelCopts, c.Customization.BazelCopts),
		PrebuiltPath: resolve(env, PrebuiltPathVariable, suffix, perTarget.PrebuiltPath, c.Customization.PrebuiltPath),
		HeaderDir:    resolve(env, HeaderDirVariable, suffix, perTarget.HeaderDir, c.Customization.HeaderDir),
	}
}

func resolve(env *environ.Environ, name, suffix, targetValue, baseValue string) Setting {
	if suffix != "" {
		if value, ok := env.Lookup(name + "_" + suffix); ok {
			return Setting{Value: value, Source: name + "_" + suffix}
		}
	}
	if value, ok := env.Lookup(name); ok {
		return Setting{Value: value, Source: name}
	}
	if targetValue != "" {
		return Setting{Value: targetValue, Source: "config targets." + suffix}
	}
	if baseValue != "" {
		return Setting{Value: baseValue, Source: "config"}
	}
	return Setting{}
}

// ResolveOutDir returns the output directory: flagValue when non-empty,
// else TFLITEC_OUT_DIR, else the configured value.
func (c *Config) ResolveOutDir(env *environ.Environ, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if value := env.Get(OutDirVariable); value != "" {
		return value
	}
	return c.OutDir
}

// BazelBinary returns the bazel override: TFLITEC_BAZEL, else the
// configured tool. Empty means resolve on PATH.
func (c *Config) BazelBinary(env *environ.Environ) string {
	if value := env.Get(BazelVariable); value != "" {
		return value
	}
	return c.Tools.Bazel
}

// BindgenBinary returns the binding generator override.
func (c *Config) BindgenBinary(env *environ.Environ) string {
	if value := env.Get(BindgenVariable); value != "" {
		return value
	}
	return c.Tools.Bindgen
}
