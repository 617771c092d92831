// Package pool provides a bounded, lazily-overflowing pool of exclusive
// handles to expensive-to-create resources such as database connections.
//
// The pool never blocks: Acquire pops a free item when one is available and
// otherwise creates a fresh one, so the number of items in flight may
// transiently exceed the configured minimum. The minimum only caps the
// resting capacity — items released while the free list is full are
// discarded.
//
// Usage:
//
//	p, err := pool.New(5, openConnection)
//	if err != nil {
//		return err
//	}
//	item, err := p.Acquire()
//	if err != nil {
//		return err
//	}
//	defer item.Release()
//
//	doWork(item.Value())
package pool

import "sync"

// Creator constructs one pool resource. It is called minSize times during
// New and once per Acquire that finds the free list empty.
type Creator[T any] func() (T, error)

// Pool holds up to minSize idle resources and hands out exclusive leases.
// All methods are safe for concurrent use.
type Pool[T any] struct {
	mu      sync.Mutex
	free    []T
	minSize int
	creator Creator[T]
}

// New creates a pool and eagerly seeds it with minSize resources.
// A failing creator aborts construction and the error is returned as-is so
// callers can inspect the cause.
func New[T any](minSize int, creator Creator[T]) (*Pool[T], error) {
	p := &Pool[T]{
		free:    make([]T, 0, minSize),
		minSize: minSize,
		creator: creator,
	}
	for i := 0; i < minSize; i++ {
		item, err := creator()
		if err != nil {
			return nil, err
		}
		p.free = append(p.free, item)
	}
	return p, nil
}

// Acquire returns an exclusive lease on one resource. It never blocks: when
// the free list is empty a brand-new resource is created instead. The only
// possible error is a creator failure while synthesizing such an overflow
// resource.
func (p *Pool[T]) Acquire() (*Item[T], error) {
	if v, ok := p.pop(); ok {
		return &Item[T]{value: v, pool: p}, nil
	}
	v, err := p.creator()
	if err != nil {
		return nil, err
	}
	return &Item[T]{value: v, pool: p}, nil
}

// Available reports the current free-list size. It is inherently racy and
// meant for observability, not coordination.
func (p *Pool[T]) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

func (p *Pool[T]) pop() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		return v, true
	}
	var zero T
	return zero, false
}

// release returns a resource to the free list, or drops it when the list is
// already at resting capacity.
func (p *Pool[T]) release(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < p.minSize {
		p.free = append(p.free, v)
	}
}

// Item is a scoped exclusive lease on one pooled resource. The holder must
// call Release exactly once when done; deferring it right after Acquire
// covers every exit path, including panics.
type Item[T any] struct {
	value T
	pool  *Pool[T]
	once  sync.Once
}

// Value returns the leased resource. The resource must not be used after
// Release has been called.
func (it *Item[T]) Value() T {
	return it.value
}

// Release returns the resource to its pool. Calling it more than once is
// safe; only the first call has an effect.
func (it *Item[T]) Release() {
	it.once.Do(func() {
		it.pool.release(it.value)
	})
}
