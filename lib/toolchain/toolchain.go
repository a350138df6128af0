// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/runner"
	"github.com/bureau-foundation/tflitec/lib/target"
)

// Setting is one environment variable and the value assigned to it.
type Setting struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Defaults returns the configure.py answers applied when the caller has
// not set them. The interpreter path comes first.
func Defaults(python string) []Setting {
	return []Setting{
		{PythonVariable, python},
		{"USE_DEFAULT_PYTHON_LIB_PATH", "1"},
		{"TF_NEED_OPENCL", "0"},
		{"TF_CUDA_CLANG", "0"},
		{"TF_NEED_TENSORRT", "0"},
		{"TF_DOWNLOAD_CLANG", "0"},
		{"TF_NEED_MPI", "0"},
		{"TF_NEED_ROCM", "0"},
		{"TF_NEED_CUDA", "0"},
		{"TF_OVERRIDE_EIGEN_STRONG_INLINE", "1"},
		{"CC_OPT_FLAGS", "-Wno-sign-compare"},
	}
}

// AndroidVariables must all be set for an Android build.
var AndroidVariables = []string{
	"ANDROID_NDK_HOME",
	"ANDROID_NDK_API_LEVEL",
	"ANDROID_SDK_HOME",
	"ANDROID_API_LEVEL",
	"ANDROID_BUILD_TOOLS_VERSION",
}

// MissingVariablesError lists required variables that are unset.
type MissingVariablesError struct {
	// OS is the target that requires them.
	OS string

	// Names are the missing variables, in declaration order.
	Names []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("%s should be set for %s builds", strings.Join(e.Names, ", "), e.OS)
}

// CheckRequired returns a [*MissingVariablesError] naming every
// variable the target requires that env does not set.
func CheckRequired(env *environ.Environ, buildTarget target.Target) error {
	if buildTarget.OS != target.Android {
		return nil
	}
	var missing []string
	for _, name := range AndroidVariables {
		if _, ok := env.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingVariablesError{OS: buildTarget.OS, Names: missing}
	}
	return nil
}

// Result records what [Configure] did.
type Result struct {
	// Python is the interpreter configure.py will run under.
	Python string `json:"python"`

	// Applied are the defaults that were set because the caller had
	// not set them.
	Applied []Setting `json:"applied,omitempty"`
}

// Configure locates the interpreter, applies [Defaults] to env where
// unset, sets the workspace switches for the target, and validates the
// target's required variables. env is modified in place; callers that
// need the original should pass a clone.
func Configure(ctx context.Context, run runner.Runner, env *environ.Environ, buildTarget target.Target, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	python, err := FindPython(ctx, run, env)
	if err != nil {
		return nil, err
	}
	logger.Debug("using python interpreter", "path", python)

	result := &Result{Python: python}
	for _, setting := range Defaults(python) {
		if env.SetDefault(setting.Name, setting.Value) {
			result.Applied = append(result.Applied, setting)
		}
	}

	env.Set("TF_SET_ANDROID_WORKSPACE", boolFlag(buildTarget.OS == target.Android))
	env.Set("TF_CONFIGURE_IOS", boolFlag(buildTarget.OS == target.IOS))

	if err := CheckRequired(env, buildTarget); err != nil {
		return nil, err
	}
	return result, nil
}

func boolFlag(value bool) string {
	if value {
		return "1"
	}
	return "0"
}
