// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/tflitec/lib/environ"
	"github.com/bureau-foundation/tflitec/lib/runner"
)

// PythonVariable names the interpreter override. configure.py reads the
// same variable.
const PythonVariable = "PYTHON_BIN_PATH"

// ProbeScript is executed with -c to validate an interpreter.
const ProbeScript = "import numpy; import importlib.util"

// PythonCandidates are the names tried on PATH, in order, when no
// override is set.
var PythonCandidates = []string{"python3", "python"}

// ErrPythonNotFound is returned when no candidate interpreter on PATH
// passes the probe.
var ErrPythonNotFound = errors.New(
	"cannot find a Python interpreter that can import numpy and importlib.util; " +
		"set " + PythonVariable + " or make python3 or python on PATH suitable")

// ProbePython reports whether the interpreter at path can import the
// modules configure.py needs. Its output is suppressed.
func ProbePython(ctx context.Context, run runner.Runner, path string) error {
	return run.Run(ctx, runner.Command{
		Name:  path,
		Args:  []string{"-c", ProbeScript},
		Quiet: true,
	})
}

// FindPython returns the interpreter to use for configure.py.
//
// An explicit PYTHON_BIN_PATH must pass the probe; if it does not, the
// error says so instead of silently falling back. Otherwise each name
// in [PythonCandidates] is resolved on PATH and the first that passes
// wins.
func FindPython(ctx context.Context, run runner.Runner, env *environ.Environ) (string, error) {
	if explicit, ok := env.Lookup(PythonVariable); ok {
		if err := ProbePython(ctx, run, explicit); err != nil {
			return "", fmt.Errorf("the specified %s %q failed the import test: %w", PythonVariable, explicit, err)
		}
		return explicit, nil
	}

	for _, name := range PythonCandidates {
		path, err := run.LookPath(name)
		if err != nil {
			continue
		}
		if err := ProbePython(ctx, run, path); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			continue
		}
		return path, nil
	}
	return "", ErrPythonNotFound
}
