package mpsc

import (
	"context"
	"sync"
)

// NewRingQueue builds the default mpsc backend: a fixed-capacity ring
// guarded by a mutex, with a single overflow flag checked ahead of every
// pop. This mirrors the crossbeam ArrayQueue + AtomicWaker backend from
// the reference implementation: TrySend always succeeds in enqueueing or
// reports overflow, and the overflow flag is drained (fetch-and-clear)
// before any element, so Overflowed is reported exactly once per episode
// and always precedes the elements that survived it.
func NewRingQueue[T any](capacity int) (Sender[T], Receiver[T]) {
	if capacity <= 0 {
		capacity = 1
	}
	shared := &ringShared[T]{
		buf:  make([]T, capacity),
		wake: make(chan struct{}, 1),
	}
	return &ringSender[T]{shared: shared}, &ringReceiver[T]{shared: shared}
}

type ringShared[T any] struct {
	mu         sync.Mutex
	buf        []T
	head, size int
	overflowed bool
	wake       chan struct{}
}

func (s *ringShared[T]) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *ringShared[T]) push(msg T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size == len(s.buf) {
		s.overflowed = true
		return false
	}
	idx := (s.head + s.size) % len(s.buf)
	s.buf[idx] = msg
	s.size++
	return true
}

func (s *ringShared[T]) pop() (T, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overflowed := s.overflowed
	s.overflowed = false
	if overflowed {
		var zero T
		return zero, false, true
	}

	if s.size == 0 {
		var zero T
		return zero, false, false
	}

	v := s.buf[s.head]
	var zero T
	s.buf[s.head] = zero
	s.head = (s.head + 1) % len(s.buf)
	s.size--
	return v, true, false
}

func (s *ringShared[T]) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	for i := range s.buf {
		s.buf[i] = zero
	}
	s.head, s.size = 0, 0
	s.overflowed = false
}

type ringSender[T any] struct {
	shared *ringShared[T]
}

func (s *ringSender[T]) TrySend(msg T) error {
	ok := s.shared.push(msg)
	s.shared.notify()
	if !ok {
		return TrySendError[T]{Msg: msg}
	}
	return nil
}

type ringReceiver[T any] struct {
	shared *ringShared[T]
}

func (r *ringReceiver[T]) TryRecv() (T, error) {
	v, ok, overflowed := r.shared.pop()
	if overflowed {
		return v, ErrOverflowed
	}
	if !ok {
		return v, ErrEmpty
	}
	return v, nil
}

func (r *ringReceiver[T]) AsyncRecv(ctx context.Context) (T, error) {
	for {
		v, err := r.TryRecv()
		if err == nil {
			return v, nil
		}
		if err == ErrOverflowed {
			return v, err
		}
		select {
		case <-r.shared.wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (r *ringReceiver[T]) Clear() {
	r.shared.clear()
}
