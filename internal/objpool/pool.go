// Package objpool implements a generic fixed-capacity slab allocator: a
// pre-allocated backing array of objects plus a used-slot map, avoiding a
// per-object heap allocation on the crawl's hot path.
package objpool

import (
	"sync"

	"github.com/gamh86/netwasabi/internal/errs"
)

// Pool is a fixed-capacity slab of T, reused via Get/Put instead of being
// allocated and garbage-collected per use.
type Pool[T any] struct {
	mu      sync.Mutex
	slots   []T
	used    []bool
	ctor    func() T
	dtor    func(*T)
	freeIdx int
}

// New builds a Pool with room for capacity objects. ctor initializes a
// fresh slot (may be nil to use T's zero value as-is); dtor runs before a
// slot is returned to the free list (may be nil).
func New[T any](capacity int, ctor func() T, dtor func(*T)) *Pool[T] {
	if capacity <= 0 {
		capacity = 1
	}
	p := &Pool[T]{
		slots: make([]T, capacity),
		used:  make([]bool, capacity),
		ctor:  ctor,
		dtor:  dtor,
	}
	if ctor != nil {
		for i := range p.slots {
			p.slots[i] = ctor()
		}
	}
	return p
}

// Get reserves a free slot and returns its index and a pointer to it. It
// returns AllocationFailure once every slot is in use; the crawler treats
// this as backpressure, not a fatal error.
func (p *Pool[T]) Get() (int, *T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < len(p.used); i++ {
		idx := (p.freeIdx + i) % len(p.used)
		if !p.used[idx] {
			p.used[idx] = true
			p.freeIdx = (idx + 1) % len(p.used)
			return idx, &p.slots[idx], nil
		}
	}
	return -1, nil, errs.New(errs.AllocationFailure, "object pool exhausted")
}

// Put releases slot idx back to the free list. Unknown or already-free
// indices are ignored.
func (p *Pool[T]) Put(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx < 0 || idx >= len(p.used) || !p.used[idx] {
		return
	}
	if p.dtor != nil {
		p.dtor(&p.slots[idx])
	}
	p.used[idx] = false
}

// InUse reports how many slots are currently reserved.
func (p *Pool[T]) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, u := range p.used {
		if u {
			n++
		}
	}
	return n
}

// Cap returns total slot capacity.
func (p *Pool[T]) Cap() int { return len(p.slots) }
