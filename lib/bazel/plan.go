// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bazel

import (
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/tflitec/lib/feature"
	"github.com/bureau-foundation/tflitec/lib/target"
)

// PlanOptions are the inputs to [NewPlan].
type PlanOptions struct {
	// SourceDir is the TensorFlow checkout.
	SourceDir string

	// OutputBase is passed as --output_base.
	OutputBase string

	Target   target.Target
	Features feature.Set

	// Copts is a whitespace-separated list of extra compiler options,
	// each passed as --copt.
	Copts string
}

// Plan is a fully resolved bazel invocation.
type Plan struct {
	SourceDir  string `json:"source_dir"`
	OutputBase string `json:"output_base"`
	ConfigID   string `json:"config"`

	// Label is the bazel target label.
	Label string `json:"label"`

	// OutputPath is where bazel leaves the artifact.
	OutputPath string `json:"output_path"`

	// Args are the bazel arguments, startup options included.
	Args []string `json:"args"`
}

// OutputBaseDir returns the per-tag bazel output base under outDir.
func OutputBaseDir(outDir, tag string) string {
	return filepath.Join(outDir, "tensorflow_"+tag+"_output_base")
}

// Output returns the label to build and the artifact path it produces.
// With XNNPACK the label is the overlay package (tensorflow/lite/c/tmp).
func Output(sourceDir string, buildTarget target.Target, features feature.Set) (label, path string) {
	if buildTarget.UsesFramework() {
		return "//tensorflow/lite/ios:TensorFlowLiteC_framework",
			filepath.Join(sourceDir, "bazel-bin", "tensorflow", "lite", "ios", "TensorFlowLiteC_framework.zip")
	}

	pkg := "tensorflow/lite/c"
	if features.XNNPACK {
		pkg += "/tmp"
	}
	return "//" + pkg + ":" + target.LibraryName,
		filepath.Join(sourceDir, "bazel-bin", filepath.FromSlash(pkg), buildTarget.LibraryFileName())
}

// DefineArgs translates features into --define arguments.
func DefineArgs(features feature.Set) []string {
	var args []string
	if !features.XNNPACK {
		args = append(args, "--define", "tflite_with_xnnpack=false")
	}
	if features.QU8 || features.QS8 {
		args = append(args, "--define", "tflite_with_xnnpack=true")
	}
	if features.QS8 {
		args = append(args, "--define", "xnn_enable_qs8=true")
	}
	if features.QU8 {
		args = append(args, "--define", "xnn_enable_qu8=true")
	}
	return args
}

// CoptArgs splits copts on whitespace into --copt arguments.
func CoptArgs(copts string) []string {
	var args []string
	for _, option := range strings.Fields(copts) {
		args = append(args, "--copt="+option)
	}
	return args
}

// NewPlan resolves the bazel invocation for options.
func NewPlan(options PlanOptions) Plan {
	features := options.Features.Normalize()
	label, output := Output(options.SourceDir, options.Target, features)
	configID := options.Target.ConfigID()

	args := []string{
		"--output_base=" + options.OutputBase,
		"build", "-c", "opt",
	}
	args = append(args, DefineArgs(features)...)
	args = append(args, "--config="+configID, label)
	args = append(args, CoptArgs(options.Copts)...)
	if options.Target.OS == target.IOS {
		args = append(args, "--apple_bitcode=embedded", "--copt=-fembed-bitcode")
	}

	return Plan{
		SourceDir:  options.SourceDir,
		OutputBase: options.OutputBase,
		ConfigID:   configID,
		Label:      label,
		OutputPath: output,
		Args:       args,
	}
}
