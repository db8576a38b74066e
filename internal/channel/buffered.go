package channel

// Buffered is a buffered channel implementation.
type Buffered[T any] struct {
	ch chan T
}

// NewBuffered creates a new buffered channel with the given size.
func NewBuffered[T any](size int) *Buffered[T] {
	return &Buffered[T]{ch: make(chan T, size)}
}

// Send sends a value to the channel (blocks when the buffer is full).
func (b *Buffered[T]) Send(v T) {
	b.ch <- v
}

// TrySend sends without blocking, reporting whether the value was queued.
func (b *Buffered[T]) TrySend(v T) bool {
	select {
	case b.ch <- v:
		return true
	default:
		return false
	}
}

// Receive returns the receive-only channel.
func (b *Buffered[T]) Receive() <-chan T {
	return b.ch
}

// Len returns the number of items currently in the buffer.
func (b *Buffered[T]) Len() int {
	return len(b.ch)
}

// Close closes the channel.
func (b *Buffered[T]) Close() {
	close(b.ch)
}

// Feed is a buffered channel that drops the oldest pending value instead of
// blocking when the buffer is full. Slow dashboard subscribers lose old
// updates rather than stalling the tick.
type Feed[T any] struct {
	ch chan T
}

// NewFeed creates a drop-oldest feed with the given buffer size.
func NewFeed[T any](size int) *Feed[T] {
	return &Feed[T]{ch: make(chan T, size)}
}

// Send enqueues v, discarding the oldest pending value if the buffer is full.
func (f *Feed[T]) Send(v T) {
	for {
		select {
		case f.ch <- v:
			return
		default:
			select {
			case <-f.ch:
			default:
			}
		}
	}
}

// Receive returns the receive-only channel.
func (f *Feed[T]) Receive() <-chan T {
	return f.ch
}

// Len returns the number of pending items.
func (f *Feed[T]) Len() int {
	return len(f.ch)
}

// Close closes the channel.
func (f *Feed[T]) Close() {
	close(f.ch)
}
