// Package workerpool is a concrete host component built on package sm: a
// pool of worker goroutines that treats its *sm.Handle as the sole
// authority over whether it is running, accepting new work, or draining.
package workerpool

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/corestore/smgate/busy"
	"github.com/corestore/smgate/sm"
)

var (
	// ErrAlreadyStarted is returned by Start when the pool is not in its
	// initial dormant state.
	ErrAlreadyStarted = errors.New("workerpool: already started")

	// ErrNotAccepting is returned by Submit and Drain when the gate refused
	// admission: the pool has not been started, is draining toward a
	// barrier, or is closing. Safe to retry with package retry.
	ErrNotAccepting = errors.New("workerpool: not accepting")

	// ErrAtCapacity is returned by Submit when the queue-depth limiter, not
	// the gate, refused the task. This is independent of gate state.
	ErrAtCapacity = errors.New("workerpool: at capacity")

	// ErrNotRunning is returned by Stop when the pool was never started.
	ErrNotRunning = errors.New("workerpool: not running")
)

// Task is one unit of work submitted to a Pool.
type Task func() error

// Pool hosts a bounded set of concurrent workers behind a single *sm.Handle.
// The zero value is not usable; construct one with New.
type Pool struct {
	gate    *sm.Handle
	limiter *busy.MaxConcurrency
	workers int

	g *errgroup.Group
}

// Option configures a Pool constructed by New.
type Option func(*config)

type config struct {
	queueLimit int64
	smOpts     []sm.Option
}

// WithQueueLimit bounds the number of tasks that may be admitted and not
// yet complete, independently of the gate's own admission decision. A
// nonpositive limit (the default) means unlimited.
func WithQueueLimit(max int64) Option {
	return func(c *config) {
		c.queueLimit = max
	}
}

// WithName sets the diagnostic name recorded on the underlying gate.
func WithName(name string) Option {
	return func(c *config) {
		c.smOpts = append(c.smOpts, sm.WithName(name))
	}
}

// WithLogger routes the underlying gate's soft-error diagnostics to l.
func WithLogger(l sm.Logger) Option {
	return func(c *config) {
		c.smOpts = append(c.smOpts, sm.WithLogger(l))
	}
}

// New constructs a Pool with the given maximum concurrent worker count. The
// pool starts dormant; call Start to begin accepting work.
func New(workers int, opts ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}

	var c config
	for _, opt := range opts {
		opt(&c)
	}

	return &Pool{
		gate:    sm.New(c.smOpts...),
		limiter: &busy.MaxConcurrency{Max: c.queueLimit},
		workers: workers,
	}
}

// Gate exposes the underlying Handle for diagnostics and for composing with
// httpgate or other hosts that share a lifecycle with this pool.
func (p *Pool) Gate() *sm.Handle {
	return p.gate
}

// Start moves the pool from dormant to running, per spec.md's
// open_begin/open_end pair. It is not safe to call Start concurrently with
// itself.
func (p *Pool) Start() error {
	if sm.OpenBegin(p.gate) != sm.Granted {
		return ErrAlreadyStarted
	}

	p.g = new(errgroup.Group)
	p.g.SetLimit(p.workers)

	sm.OpenEnd(p.gate)
	return nil
}

// Submit dispatches task to a worker. It consults the queue-depth limiter
// first, then calls sm.Begin to reserve a slot in the gate's in-flight
// count, and sm.End once task has returned, regardless of outcome.
//
// Submit may block briefly if all p.workers goroutines are already busy;
// it does not block indefinitely unless task itself never returns.
func (p *Pool) Submit(task Task) error {
	done, ok := p.limiter.Check()
	if !ok {
		return ErrAtCapacity
	}

	if sm.Begin(p.gate) != sm.Granted {
		done()
		return ErrNotAccepting
	}

	p.g.Go(func() error {
		defer sm.End(p.gate)
		defer done()
		return task()
	})

	return nil
}

// Drain runs fn with every currently submitted task retired and no new
// task admitted, using sm.BarrierBegin/sm.BarrierEnd. It is the pool's
// hook for rebalance or checkpoint routines that must not overlap with
// Submit'ted work.
func (p *Pool) Drain(fn func() error) error {
	if sm.BarrierBegin(p.gate) != sm.Granted {
		return ErrNotAccepting
	}
	defer sm.BarrierEnd(p.gate)

	return fn()
}

// Stop drains all in-flight tasks and transitions the pool back to
// dormant, via sm.CloseBegin/sm.CloseEnd. It returns the first error
// returned by any submitted task, if any. A nil Pool or one never
// started returns ErrNotRunning.
func (p *Pool) Stop() error {
	if p == nil || p.g == nil {
		return ErrNotRunning
	}

	if sm.CloseBegin(p.gate) != sm.Granted {
		return ErrNotAccepting
	}

	err := p.g.Wait()
	sm.CloseEnd(p.gate)
	return err
}
