// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/runner"
	"github.com/bureau-foundation/tflitec/lib/target"
)

// pythonFake accepts the interpreters in good and fails the probe for
// everything else.
func pythonFake(paths map[string]string, good ...string) *runner.Fake {
	accepted := make(map[string]bool)
	for _, path := range good {
		accepted[path] = true
	}
	return &runner.Fake{
		Paths: paths,
		Handler: func(command runner.Command) (string, error) {
			if accepted[command.Name] {
				return "", nil
			}
			return "", runner.ExitStatus(command, 1, "ModuleNotFoundError: No module named 'numpy'")
		},
	}
}

func mustTarget(t *testing.T, goos, goarch string) target.Target {
	t.Helper()
	result, err := target.New(goos, goarch)
	if err != nil {
		t.Fatalf("target.New(%s, %s): %v", goos, goarch, err)
	}
	return result
}

func TestFindPython_ExplicitOverride(t *testing.T) {
	fake := pythonFake(nil, "/opt/py/bin/python")
	env := environ.FromSlice([]string{"PYTHON_BIN_PATH=/opt/py/bin/python"})

	path, err := FindPython(context.Background(), fake, env)
	if err != nil {
		t.Fatalf("FindPython: %v", err)
	}
	if path != "/opt/py/bin/python" {
		t.Errorf("path = %q", path)
	}
	command := fake.Commands()[0]
	if want := []string{"-c", ProbeScript}; !reflect.DeepEqual(command.Args, want) {
		t.Errorf("probe args = %v, want %v", command.Args, want)
	}
	if !command.Quiet {
		t.Error("probe should be quiet")
	}
}

func TestFindPython_ExplicitOverrideFailsHard(t *testing.T) {
	// python3 on PATH would pass, but an explicit override that fails
	// must not fall back to it.
	fake := pythonFake(map[string]string{"python3": "/usr/bin/python3"}, "/usr/bin/python3")
	env := environ.FromSlice([]string{"PYTHON_BIN_PATH=/broken/python"})

	_, err := FindPython(context.Background(), fake, env)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrPythonNotFound) {
		t.Error("explicit override failure reported as not found")
	}
	if !strings.Contains(err.Error(), "/broken/python") {
		t.Errorf("error %q should name the override", err)
	}
	if fake.Invoked("/usr/bin/python3") {
		t.Error("fell back to PATH after explicit override failed")
	}
}

func TestFindPython_ProbesCandidatesInOrder(t *testing.T) {
	paths := map[string]string{"python3": "/usr/bin/python3", "python": "/usr/bin/python"}

	t.Run("python3 preferred", func(t *testing.T) {
		fake := pythonFake(paths, "/usr/bin/python3", "/usr/bin/python")
		path, err := FindPython(context.Background(), fake, environ.FromSlice(nil))
		if err != nil || path != "/usr/bin/python3" {
			t.Fatalf("FindPython = (%q, %v)", path, err)
		}
	})

	t.Run("falls back to python", func(t *testing.T) {
		fake := pythonFake(paths, "/usr/bin/python")
		path, err := FindPython(context.Background(), fake, environ.FromSlice(nil))
		if err != nil || path != "/usr/bin/python" {
			t.Fatalf("FindPython = (%q, %v)", path, err)
		}
	})

	t.Run("none suitable", func(t *testing.T) {
		fake := pythonFake(paths)
		_, err := FindPython(context.Background(), fake, environ.FromSlice(nil))
		if !errors.Is(err, ErrPythonNotFound) {
			t.Fatalf("error = %v, want ErrPythonNotFound", err)
		}
	})

	t.Run("none on PATH", func(t *testing.T) {
		fake := pythonFake(nil)
		_, err := FindPython(context.Background(), fake, environ.FromSlice(nil))
		if !errors.Is(err, ErrPythonNotFound) {
			t.Fatalf("error = %v, want ErrPythonNotFound", err)
		}
		if len(fake.Commands()) != 0 {
			t.Errorf("probed without a candidate: %v", fake.Commands())
		}
	})
}

func TestConfigure_AppliesDefaultsWithoutOverriding(t *testing.T) {
	fake := pythonFake(map[string]string{"python3": "/usr/bin/python3"}, "/usr/bin/python3")
	env := environ.FromSlice([]string{"TF_NEED_CUDA=1", "CC_OPT_FLAGS=-march=native"})

	result, err := Configure(context.Background(), fake, env, mustTarget(t, "linux", "amd64"), nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if result.Python != "/usr/bin/python3" {
		t.Errorf("Python = %q", result.Python)
	}

	checks := map[string]string{
		"PYTHON_BIN_PATH":                 "/usr/bin/python3",
		"USE_DEFAULT_PYTHON_LIB_PATH":     "1",
		"TF_NEED_CUDA":                    "1",
		"CC_OPT_FLAGS":                    "-march=native",
		"TF_NEED_ROCM":                    "0",
		"TF_OVERRIDE_EIGEN_STRONG_INLINE": "1",
		"TF_SET_ANDROID_WORKSPACE":        "0",
		"TF_CONFIGURE_IOS":                "0",
	}
	for name, want := range checks {
		if got := env.Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	for _, applied := range result.Applied {
		if applied.Name == "TF_NEED_CUDA" || applied.Name == "CC_OPT_FLAGS" {
			t.Errorf("caller-supplied %s reported as applied", applied.Name)
		}
	}
	if len(result.Applied) != len(Defaults("x"))-2 {
		t.Errorf("applied %d defaults, want %d", len(result.Applied), len(Defaults("x"))-2)
	}
}

func TestConfigure_IOSWorkspaceSwitch(t *testing.T) {
	fake := pythonFake(map[string]string{"python3": "/usr/bin/python3"}, "/usr/bin/python3")
	env := environ.FromSlice(nil)
	if _, err := Configure(context.Background(), fake, env, mustTarget(t, "ios", "arm64"), nil); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if env.Get("TF_CONFIGURE_IOS") != "1" || env.Get("TF_SET_ANDROID_WORKSPACE") != "0" {
		t.Errorf("ios switches = %q/%q", env.Get("TF_CONFIGURE_IOS"), env.Get("TF_SET_ANDROID_WORKSPACE"))
	}
}

func TestConfigure_AndroidRequiresSDK(t *testing.T) {
	fake := pythonFake(map[string]string{"python3": "/usr/bin/python3"}, "/usr/bin/python3")
	env := environ.FromSlice([]string{"ANDROID_NDK_HOME=/ndk", "ANDROID_API_LEVEL=30"})

	_, err := Configure(context.Background(), fake, env, mustTarget(t, "android", "arm64"), nil)
	var missing *MissingVariablesError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingVariablesError", err)
	}
	want := []string{"ANDROID_NDK_API_LEVEL", "ANDROID_SDK_HOME", "ANDROID_BUILD_TOOLS_VERSION"}
	if !reflect.DeepEqual(missing.Names, want) {
		t.Errorf("missing = %v, want %v", missing.Names, want)
	}
	if env.Get("TF_SET_ANDROID_WORKSPACE") != "1" {
		t.Error("TF_SET_ANDROID_WORKSPACE not set for android")
	}
}

func TestCheckRequired_AndroidComplete(t *testing.T) {
	var entries []string
	for _, name := range AndroidVariables {
		entries = append(entries, name+"=x")
	}
	if err := CheckRequired(environ.FromSlice(entries), mustTarget(t, "android", "arm")); err != nil {
		t.Errorf("CheckRequired: %v", err)
	}
	if err := CheckRequired(environ.FromSlice(nil), mustTarget(t, "linux", "arm64")); err != nil {
		t.Errorf("linux should require nothing: %v", err)
	}
}
