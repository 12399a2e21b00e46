// Package promise provides a settle-once asynchronous result.
package promise

import (
	"context"
	"sync"
)

// Promise is an asynchronous result that settles exactly once. The zero
// value is a usable pending Promise.
type Promise struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	value   any
	err     error
}

// New returns a pending Promise.
func New() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Go runs fn in its own goroutine and settles the returned Promise with its
// result.
func Go(ctx context.Context, fn func(ctx context.Context) (any, error)) *Promise {
	p := New()
	go func() {
		v, err := fn(ctx)
		p.settle(v, err)
	}()
	return p
}

// Resolved returns a Promise already fulfilled with v.
func Resolved(v any) *Promise {
	p := New()
	p.Resolve(v)
	return p
}

// Rejected returns a Promise already rejected with err.
func Rejected(err error) *Promise {
	p := New()
	p.Reject(err)
	return p
}

// Resolve fulfills the Promise. It reports false if it was already settled.
func (p *Promise) Resolve(v any) bool {
	return p.settle(v, nil)
}

// Reject rejects the Promise. It reports false if it was already settled.
func (p *Promise) Reject(err error) bool {
	return p.settle(nil, err)
}

func (p *Promise) settle(v any, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.settled {
		return false
	}
	if p.done == nil {
		p.done = make(chan struct{})
	}
	p.value, p.err, p.settled = v, err, true
	close(p.done)
	return true
}

func (p *Promise) ch() chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		p.done = make(chan struct{})
	}
	return p.done
}

func (p *Promise) result() (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err
}

// Done is closed once the Promise settles.
func (p *Promise) Done() <-chan struct{} {
	return p.ch()
}

// Await blocks until the Promise settles or ctx ends. Giving up on ctx does
// not stop the work behind the Promise.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.ch():
		return p.result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the Promise has settled.
func (p *Promise) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}
