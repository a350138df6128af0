// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the time source for stage timings and manifest timestamps.
type Clock interface {
	Now() time.Time
}

// Real returns the wall clock.
func Real() Clock { return wall{} }

type wall struct{}

func (wall) Now() time.Time { return time.Now() }

// Since reports how long ago start was, as seen by c.
func Since(c Clock, start time.Time) time.Duration {
	return c.Now().Sub(start)
}
