// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
	"github.com/bureau-foundation/tflitec/lib/process"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root().Execute(ctx, os.Args[1:])
	stop()

	code, report := cli.ExitCode(err)
	if code == 0 {
		return
	}
	if report {
		process.Fatal(err, code)
	}
	os.Exit(code)
}
