// Package delay holds randomized-wait and timed value-generator helpers.
//
// Every call is independent: a Waiter carries only its clock and random
// source, so the same Waiter can be shared across goroutines.
package delay

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/kirksw/orgscope/internal/clock"
)

const (
	DefaultMaxDelay = 10 * time.Second

	DefaultCount    = 10
	DefaultInterval = time.Second
	// MaxValue bounds generated values to [0, MaxValue).
	MaxValue = 10.0
)

type Waiter struct {
	clock clock.Clock
	rand  func() float64
}

type Option func(*Waiter)

func WithClock(clk clock.Clock) Option {
	return func(w *Waiter) { w.clock = clk }
}

// WithRand replaces the [0, 1) random source. It must be safe for
// concurrent use when WaitN is used.
func WithRand(source func() float64) Option {
	return func(w *Waiter) { w.rand = source }
}

func New(opts ...Option) *Waiter {
	w := &Waiter{
		clock: clock.Real(),
		rand:  rand.Float64,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WaitRandom waits a random duration in [0, maxDelay) and returns it.
func (w *Waiter) WaitRandom(ctx context.Context, maxDelay time.Duration) (time.Duration, error) {
	d := time.Duration(w.rand() * float64(maxDelay))

	select {
	case <-w.clock.After(d):
		return d, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Task is a WaitRandom running in its own goroutine.
type Task struct {
	done  chan struct{}
	delay time.Duration
	err   error
}

// Start schedules WaitRandom and returns immediately.
func (w *Waiter) Start(ctx context.Context, maxDelay time.Duration) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.delay, t.err = w.WaitRandom(ctx, maxDelay)
	}()
	return t
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the outcome. Only valid after Done is closed.
func (t *Task) Result() (time.Duration, error) {
	return t.delay, t.err
}

func (t *Task) Wait(ctx context.Context) (time.Duration, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// WaitN runs n waits concurrently and returns their delays in the order
// they finished. The first failure cancels the remaining waits.
func (w *Waiter) WaitN(ctx context.Context, n int, maxDelay time.Duration) ([]time.Duration, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		delay time.Duration
		err   error
	}

	results := make(chan result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := w.WaitRandom(ctx, maxDelay)
			results <- result{delay: d, err: err}
		}()
	}

	delays := make([]time.Duration, 0, n)
	var firstErr error
	for i := 0; i < n; i++ {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		delays = append(delays, r.delay)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return delays, nil
}

// Generate emits count values in [0, MaxValue), one after each interval.
// The channel is closed when all values are sent or ctx is done.
func (w *Waiter) Generate(ctx context.Context, count int, interval time.Duration) <-chan float64 {
	out := make(chan float64)
	go func() {
		defer close(out)
		for i := 0; i < count; i++ {
			select {
			case <-w.clock.After(interval):
			case <-ctx.Done():
				return
			}

			select {
			case out <- w.rand() * MaxValue:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Collect drains a Generate run into a slice.
func (w *Waiter) Collect(ctx context.Context, count int, interval time.Duration) ([]float64, error) {
	values := make([]float64, 0, count)
	for v := range w.Generate(ctx, count, interval) {
		values = append(values, v)
	}
	if err := ctx.Err(); err != nil {
		return values, err
	}
	return values, nil
}

// MeasureRuntime runs parallel Collect calls at once and reports how long
// they took together, as seen by the Waiter's clock.
func (w *Waiter) MeasureRuntime(ctx context.Context, parallel, count int, interval time.Duration) (time.Duration, error) {
	start := w.clock.Now()

	errs := make(chan error, parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			_, err := w.Collect(ctx, count, interval)
			errs <- err
		}()
	}

	var firstErr error
	for i := 0; i < parallel; i++ {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return 0, firstErr
	}

	return w.clock.Now().Sub(start), nil
}
