// Package stream provides a generic bounded FIFO used for the engine's
// alert, loss-history and consumption streams.
package stream

import (
	"sync"
)

// Bounded is a thread-safe FIFO with a fixed capacity. Pushing beyond the
// capacity silently evicts the oldest entries.
type Bounded[T any] struct {
	mu    sync.Mutex
	cap   int
	items []T
}

// NewBounded creates an empty bounded stream with the given capacity.
// Panics if capacity is not positive.
func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity <= 0 {
		panic("stream: capacity must be positive")
	}
	return &Bounded[T]{
		cap:   capacity,
		items: make([]T, 0, capacity),
	}
}

// Push appends items in order, evicting the oldest entries if the stream
// would exceed its capacity.
func (b *Bounded[T]) Push(items ...T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, items...)
	if len(b.items) > b.cap {
		b.items = b.items[len(b.items)-b.cap:]
	}
}

// Items returns a copy of the stream contents, oldest first.
func (b *Bounded[T]) Items() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// ItemsNewestFirst returns a copy of the stream contents, newest first.
func (b *Bounded[T]) ItemsNewestFirst() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, len(b.items))
	for i, v := range b.items {
		out[len(b.items)-1-i] = v
	}
	return out
}

// Mutate applies fn to every element in place under the stream lock.
func (b *Bounded[T]) Mutate(fn func(*T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		fn(&b.items[i])
	}
}

// Len returns the number of buffered items.
func (b *Bounded[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Cap returns the stream capacity.
func (b *Bounded[T]) Cap() int { return b.cap }

// Clear removes all items.
func (b *Bounded[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = b.items[:0]
}
