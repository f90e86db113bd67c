// Package retry provides a bounded, backoff-with-jitter helper for callers
// of a *_begin operation that come back sm.Refused. spec.md's gate leaves
// "try again" entirely to the caller; this package is that caller-side
// policy, kept out of package sm so the gate itself never retries on its
// own.
package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/corestore/smgate/sm"
)

// DefaultInterval is the base wait used when Config.Interval is unset.
const DefaultInterval = 100 * time.Millisecond

// Config controls the backoff schedule used by Do.
type Config struct {
	// Retries is the maximum number of additional attempts after the first.
	// If nonpositive, Do makes exactly one attempt and never waits.
	Retries int

	// Interval is the base wait before the first retry. If nonpositive,
	// DefaultInterval is used.
	Interval time.Duration

	// Multiplier scales Interval for each successive retry, producing
	// exponential backoff. If <= 0, it is treated as 1.0 (no growth).
	Multiplier float64

	// Jitter is the fraction, in (0, 1), of each interval to randomize.
	// A value outside (0, 1) disables jitter.
	Jitter float64

	// Random supplies randomness for jitter. Defaults to a time-seeded
	// math/rand.Rand.
	Random Random

	// Timer is the strategy used to wait between attempts. Defaults to
	// DefaultTimer.
	Timer Timer
}

// Do repeatedly invokes attempt, waiting according to cfg's backoff
// schedule between tries, until attempt returns sm.Granted, a non-Refused
// Result, a non-nil error, the retry budget is exhausted, or ctx is done.
//
// attempt is typically a closure around one of the gate's *_begin functions,
// e.g.:
//
//	result, err := retry.Do(ctx, cfg, func() (sm.Result, error) {
//	    return sm.Begin(h), nil
//	})
func Do(ctx context.Context, cfg Config, attempt func() (sm.Result, error)) (sm.Result, error) {
	intervals := newIntervals(cfg)

	random := cfg.Random
	if random == nil {
		//nolint:gosec
		random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	timer := cfg.Timer
	if timer == nil {
		timer = DefaultTimer
	}

	result, err := attempt()
	if err != nil || result != sm.Refused || intervals.Len() == 0 {
		return result, err
	}

	for i := 0; i < intervals.Len(); i++ {
		wait := intervals.duration(random, i)
		tc, stop := timer(wait)

		select {
		case <-ctx.Done():
			stop()
			return sm.Refused, ctx.Err()
		case <-tc:
		}

		result, err = attempt()
		if err != nil || result != sm.Refused {
			return result, err
		}
	}

	return sm.Refused, nil
}
