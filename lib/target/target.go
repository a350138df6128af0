// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package target

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/bureau-foundation/tflitec/lib/environ"
)

// TensorFlow's operating system names. These differ from GOOS only for
// Apple desktop ("darwin" in Go, "macos" in TensorFlow's bazel configs).
const (
	Linux   = "linux"
	MacOS   = "macos"
	Windows = "windows"
	Android = "android"
	IOS     = "ios"
)

// LibraryName is the base name of the TensorFlow Lite C library, without
// platform prefix or extension. It is also the name passed to the linker.
const LibraryName = "tensorflowlite_c"

// FrameworkName is the iOS framework bundle name (without ".framework").
const FrameworkName = "TensorFlowLiteC"

// Target describes the platform the library is built for. It is
// computed once per invocation by [Resolve] and never modified.
type Target struct {
	// GOOS and GOARCH are the Go toolchain names the target was
	// resolved from. They name the generated cgo link file and the
	// suffix of target-dependent variables.
	GOOS   string `json:"goos"`
	GOARCH string `json:"goarch"`

	// OS and Arch are the TensorFlow names, normalized by
	// [NormalizeOS] and [NormalizeArch].
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// Resolve determines the build target from GOOS and GOARCH in env,
// falling back to the values of the running toolchain when either is
// unset. Returns an error when the OS is not one TensorFlow Lite
// supports or the architecture is empty.
func Resolve(env *environ.Environ) (Target, error) {
	goos := env.Get("GOOS")
	if goos == "" {
		goos = runtime.GOOS
	}
	goarch := env.Get("GOARCH")
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	return New(goos, goarch)
}

// New builds a Target from Go toolchain names.
func New(goos, goarch string) (Target, error) {
	if goos == "" {
		return Target{}, fmt.Errorf("unable to determine target OS")
	}
	if goarch == "" {
		return Target{}, fmt.Errorf("unable to determine target architecture")
	}
	operatingSystem, err := NormalizeOS(goos)
	if err != nil {
		return Target{}, err
	}
	return Target{
		GOOS:   goos,
		GOARCH: goarch,
		OS:     operatingSystem,
		Arch:   NormalizeArch(operatingSystem, goarch),
	}, nil
}

// NormalizeOS maps a GOOS value to TensorFlow's OS name. The TensorFlow
// spellings are accepted unchanged so that configuration files may use
// either convention.
func NormalizeOS(goos string) (string, error) {
	switch goos {
	case "linux":
		return Linux, nil
	case "darwin", "macos":
		return MacOS, nil
	case "windows":
		return Windows, nil
	case "android":
		return Android, nil
	case "ios":
		return IOS, nil
	default:
		return "", fmt.Errorf("unsupported target OS %q (supported: linux, darwin, windows, android, ios)", goos)
	}
}

// NormalizeArch maps an architecture name to TensorFlow's spelling.
// Both 64-bit ARM spellings become "arm64" on every OS. 32-bit ARM
// becomes "arm" on Android, where TensorFlow's bazel config is named
// android_arm, and "armv7" everywhere else. Unknown names pass through.
func NormalizeArch(operatingSystem, arch string) string {
	switch arch {
	case "aarch64", "arm64":
		return "arm64"
	case "amd64", "x86_64":
		return "x86_64"
	case "armv7", "arm":
		if operatingSystem == Android {
			return "arm"
		}
		return "armv7"
	default:
		return arch
	}
}

// ConfigID returns the bazel --config value for an OS and architecture.
// TensorFlow's .bazelrc defines per-architecture profiles for Android,
// iOS, and Apple Silicon macOS; every other OS uses a profile named after
// the OS alone. A mismatch here makes the bazel invocation fail.
func ConfigID(operatingSystem, arch string) string {
	if operatingSystem == Android || operatingSystem == IOS ||
		(operatingSystem == MacOS && arch == "arm64") {
		return operatingSystem + "_" + arch
	}
	return operatingSystem
}

// ConfigID returns the bazel --config value for this target.
func (t Target) ConfigID() string {
	return ConfigID(t.OS, t.Arch)
}

// LibraryExtension returns the dynamic library extension without the
// leading dot.
func (t Target) LibraryExtension() string {
	switch t.OS {
	case MacOS:
		return "dylib"
	case Windows:
		return "dll"
	default:
		return "so"
	}
}

// LibraryPrefix returns the dynamic library filename prefix.
func (t Target) LibraryPrefix() string {
	if t.OS == Windows {
		return ""
	}
	return "lib"
}

// LibraryFileName returns the dynamic library filename, for example
// "libtensorflowlite_c.so" or "tensorflowlite_c.dll".
func (t Target) LibraryFileName() string {
	return t.LibraryPrefix() + LibraryName + "." + t.LibraryExtension()
}

// UsesFramework reports whether the target links a framework bundle
// instead of a plain dynamic library.
func (t Target) UsesFramework() bool {
	return t.OS == IOS
}

// ArtifactName returns the name of the installed artifact in the output
// directory: the framework bundle on iOS, the dynamic library elsewhere.
func (t Target) ArtifactName() string {
	if t.UsesFramework() {
		return FrameworkName + ".framework"
	}
	return t.LibraryFileName()
}

// NeedsImportLibrary reports whether linking requires a separate import
// library (.lib) next to the dynamic library.
func (t Target) NeedsImportLibrary() bool {
	return t.OS == Windows
}

// ImportLibraryName returns the installed import library filename.
func (t Target) ImportLibraryName() string {
	return LibraryName + ".lib"
}

// EnvSuffix returns the suffix for target-dependent variables: GOOS and
// GOARCH joined by "_", uppercased, with "-" replaced by "_"
// (for example "LINUX_AMD64").
func (t Target) EnvSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(t.GOOS+"_"+t.GOARCH, "-", "_"))
}

// String returns "GOOS/GOARCH (os/arch)".
func (t Target) String() string {
	return fmt.Sprintf("%s/%s (%s/%s)", t.GOOS, t.GOARCH, t.OS, t.Arch)
}
