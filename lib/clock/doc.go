// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets the build pipeline read the time through an
// interface. The orchestrator and the source fetcher take a [Clock];
// production wiring passes [Real], and tests pass [Fake] so that
// manifest timestamps and logged durations are fixed values:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	c.SetStep(time.Second)
package clock
