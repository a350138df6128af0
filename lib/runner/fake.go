// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// Fake is a Runner for tests. It records every command and delegates
// the outcome to Handler. With a nil Handler every command succeeds
// with empty output.
//
// LookPath consults Paths; names absent from Paths fail with
// exec.ErrNotFound.
type Fake struct {
	// Handler decides the result of each Run or Output call. The
	// returned string is the command's stdout (ignored for Run).
	Handler func(command Command) (string, error)

	// Paths maps program names to the path LookPath returns.
	Paths map[string]string

	mu       sync.Mutex
	commands []Command
}

// Run records command and returns the Handler's error.
func (f *Fake) Run(ctx context.Context, command Command) error {
	_, err := f.invoke(ctx, command)
	return err
}

// Output records command and returns the Handler's result.
func (f *Fake) Output(ctx context.Context, command Command) (string, error) {
	return f.invoke(ctx, command)
}

// LookPath returns the entry from Paths.
func (f *Fake) LookPath(name string) (string, error) {
	if path, ok := f.Paths[name]; ok {
		return path, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Commands returns a copy of the recorded commands in invocation order.
func (f *Fake) Commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.commands...)
}

// Invoked reports whether any recorded command ran the named program.
func (f *Fake) Invoked(name string) bool {
	for _, command := range f.Commands() {
		if command.Name == name {
			return true
		}
	}
	return false
}

func (f *Fake) invoke(ctx context.Context, command Command) (string, error) {
	f.mu.Lock()
	f.commands = append(f.commands, command)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Handler == nil {
		return "", nil
	}
	return f.Handler(command)
}

// ExitStatus returns an error shaped like a failed subprocess, for use
// in Fake handlers.
func ExitStatus(command Command, code int, stderr string) error {
	return &Error{
		Command:  command,
		ExitCode: code,
		Stderr:   stderr,
		Err:      fmt.Errorf("exit status %d", code),
	}
}
