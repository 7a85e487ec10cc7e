// Package mpsc defines the bounded, overflow-tolerant single-consumer
// queue contract that the hub's subscriber inboxes plug into. The hub
// core is generic over this contract; it never depends on a concrete
// queue implementation.
package mpsc

import (
	"context"
	"errors"
)

// ErrOverflowed is returned by Receiver.AsyncRecv when an overflow
// episode occurred since the last successful receive. It is returned
// exactly once per episode.
var ErrOverflowed = errors.New("mpsc: inbox overflowed")

// ErrEmpty is returned by Receiver.TryRecv when no element and no
// overflow episode is pending.
var ErrEmpty = errors.New("mpsc: inbox empty")

// TrySendError wraps the message that could not be delivered because the
// queue was full.
type TrySendError[T any] struct {
	Msg T
}

func (e TrySendError[T]) Error() string {
	return "mpsc: send on full queue"
}

// Sender is the producer side of a queue. It never blocks and is safe
// for concurrent use by multiple goroutines.
type Sender[T any] interface {
	// TrySend enqueues msg. It never blocks; if the queue is full it
	// returns a TrySendError and sets the overflow flag observable by
	// the receiver.
	TrySend(msg T) error
}

// Receiver is the single-consumer side of a queue. It is not safe for
// concurrent use — exactly one goroutine owns a Receiver at a time.
type Receiver[T any] interface {
	// TryRecv returns the next element without blocking. It returns
	// ErrOverflowed at most once per overflow episode, taking priority
	// over any buffered element; otherwise ErrEmpty when nothing is
	// pending.
	TryRecv() (T, error)

	// AsyncRecv blocks until an element is available, an overflow is
	// observed (returns ErrOverflowed), or ctx is done. It must be
	// cancel-safe: a cancelled AsyncRecv must not consume an element
	// nor lose track of a pending overflow.
	AsyncRecv(ctx context.Context) (T, error)

	// Clear drops any pending elements and resets the overflow flag.
	Clear()
}

// Factory constructs a fresh sender/receiver pair with the given
// capacity. Hub and Subscriber constructors take a Factory rather than a
// queue type parameter, since Go generics have no direct way to
// parameterize over a generic type constructor.
type Factory[T any] func(capacity int) (Sender[T], Receiver[T])
