// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lockfile serializes builds that share an output directory.
//
// The lock is an advisory OS lock (flock on Unix, LockFileEx on
// Windows) held on a file descriptor, so it is released by the kernel
// when the process exits, even on a crash. The lock file itself is
// never deleted.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileName is the lock file created in the output directory.
const FileName = ".tflitec.lock"

// ErrLocked is returned by [TryAcquire] when another process holds the
// lock.
var ErrLocked = errors.New("output directory is locked by another build")

// pollInterval is how often [Acquire] retries a held lock.
const pollInterval = 250 * time.Millisecond

// Lock is a held lock. Release it when the build finishes.
type Lock struct {
	file *os.File
}

// Path returns the lock file location for outDir.
func Path(outDir string) string {
	return filepath.Join(outDir, FileName)
}

// TryAcquire takes the lock on outDir without waiting.
func TryAcquire(outDir string) (*Lock, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.OpenFile(Path(outDir), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := lock(file); err != nil {
		file.Close()
		return nil, err
	}
	return &Lock{file: file}, nil
}

// Acquire takes the lock on outDir, waiting while another process holds
// it until ctx is done.
func Acquire(ctx context.Context, outDir string, logger *slog.Logger) (*Lock, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	waiting := false
	for {
		held, err := TryAcquire(outDir)
		if err == nil {
			return held, nil
		}
		if !errors.Is(err, ErrLocked) {
			return nil, err
		}
		if !waiting {
			logger.Info("waiting for another build to release the output directory", "lock", Path(outDir))
			waiting = true
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", Path(outDir), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Release drops the lock. Calling Release more than once is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlock(l.file)
	closeErr := l.file.Close()
	l.file = nil
	return errors.Join(unlockErr, closeErr)
}
