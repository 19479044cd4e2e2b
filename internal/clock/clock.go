// Package clock abstracts the time operations used by delays and cache
// expiry so tests can drive them deterministically.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time

	// After behaves like time.After. If d <= 0 the channel is ready
	// immediately.
	After(d time.Duration) <-chan time.Time
}

func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Fake is a Clock whose time only moves when Advance is called.
type Fake struct {
	mu      sync.Mutex
	current time.Time
	waiters []fakeWaiter
	changed *sync.Cond
}

type fakeWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

func NewFake(initial time.Time) *Fake {
	f := &Fake{current: initial}
	f.changed = sync.NewCond(&f.mu)
	return f
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- f.current
		return ch
	}

	f.waiters = append(f.waiters, fakeWaiter{deadline: f.current.Add(d), ch: ch})
	f.changed.Broadcast()
	return ch
}

// Advance moves the clock forward and fires every waiter whose deadline
// has been reached.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = f.current.Add(d)

	pending := f.waiters[:0]
	for _, w := range f.waiters {
		if w.deadline.After(f.current) {
			pending = append(pending, w)
			continue
		}
		w.ch <- f.current
	}
	f.waiters = pending
	f.changed.Broadcast()
}

// BlockUntil waits until at least n waiters are pending.
func (f *Fake) BlockUntil(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.waiters) < n {
		f.changed.Wait()
	}
}
