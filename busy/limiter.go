// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package busy provides a concurrency limiter independent of the gate's own
// admission decision. workerpool composes one in front of sm.Begin to bound
// queue depth, showing that sm is meant to sit alongside other concurrency
// controls rather than replace them.
package busy

import (
	"sync/atomic"
)

// Done is a callback that must be invoked exactly once when the work
// admitted by Check has finished, so the Limiter can reclaim the slot.
type Done func()

// NopDone is a Done implementation that does nothing. Useful instead of nil.
func NopDone() {}

// Limiter constrains how many units of work may be in flight at once.
type Limiter interface {
	// Check requests one slot. If it returns true, Done is non-nil and must
	// be invoked exactly once by the caller once the work completes. If it
	// returns false, Done should be ignored and the caller must not proceed.
	Check() (Done, bool)
}

// MaxConcurrency is a Limiter that imposes a fixed global cap on concurrent
// admissions.
type MaxConcurrency struct {
	// Max is the maximum number of concurrently admitted units of work. If
	// nonpositive, Check always admits.
	Max int64

	counter int64
}

func (m *MaxConcurrency) release() {
	atomic.AddInt64(&m.counter, -1)
}

// Check enforces Max. See Limiter.
func (m *MaxConcurrency) Check() (Done, bool) {
	if m.Max < 1 {
		return NopDone, true
	}

	count := atomic.AddInt64(&m.counter, 1)
	if count > m.Max {
		atomic.AddInt64(&m.counter, -1)
		return NopDone, false
	}

	return m.release, true
}

// InFlight reports the current number of admitted units of work.
func (m *MaxConcurrency) InFlight() int64 {
	return atomic.LoadInt64(&m.counter)
}
