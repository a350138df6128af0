// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for tflitec-build.
//
// A [Command] tree is dispatched by [Command.Execute]: the first
// positional argument selects a subcommand, flags are parsed with
// pflag, and the leaf's Run receives the remaining arguments. Flags
// are declared as tagged struct fields and bound by [FlagsFromParams];
// embedding [JSONOutput] adds --json.
//
// Unknown commands and flags are answered with the closest known name
// by Levenshtein edit distance.
//
// Errors carry an [ErrorCategory] via [ToolError]; [ExitCode] maps a
// returned error to the process exit status (validation errors exit 2,
// other failures 1, an [ExitError] its own code).
package cli
