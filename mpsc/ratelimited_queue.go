package mpsc

import (
	"context"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// NewRateLimitedQueue wraps another backend with a token-bucket limiter,
// the same rate.Limiter pattern ResourceGuard uses for its NATS/broadcast
// rate limits. A publish that would exceed the configured rate is treated
// as its own overflow episode (not silently dropped): the wrapped
// backend's own overflow signalling and this limiter's shedding both
// surface to the receiver, merged through a shared flag checked ahead of
// the inner queue.
func NewRateLimitedQueue[T any](limit rate.Limit, burst int, inner Factory[T]) Factory[T] {
	return func(capacity int) (Sender[T], Receiver[T]) {
		innerSender, innerReceiver := inner(capacity)
		shed := new(atomic.Bool)
		limiter := rate.NewLimiter(limit, burst)
		return &rateLimitedSender[T]{inner: innerSender, limiter: limiter, shed: shed},
			&rateLimitedReceiver[T]{inner: innerReceiver, shed: shed}
	}
}

type rateLimitedSender[T any] struct {
	inner   Sender[T]
	limiter *rate.Limiter
	shed    *atomic.Bool
}

func (s *rateLimitedSender[T]) TrySend(msg T) error {
	if !s.limiter.Allow() {
		s.shed.Store(true)
		return TrySendError[T]{Msg: msg}
	}
	return s.inner.TrySend(msg)
}

type rateLimitedReceiver[T any] struct {
	inner Receiver[T]
	shed  *atomic.Bool
}

func (r *rateLimitedReceiver[T]) TryRecv() (T, error) {
	if r.shed.CompareAndSwap(true, false) {
		var zero T
		return zero, ErrOverflowed
	}
	return r.inner.TryRecv()
}

func (r *rateLimitedReceiver[T]) AsyncRecv(ctx context.Context) (T, error) {
	if r.shed.CompareAndSwap(true, false) {
		var zero T
		return zero, ErrOverflowed
	}
	return r.inner.AsyncRecv(ctx)
}

func (r *rateLimitedReceiver[T]) Clear() {
	r.shed.Store(false)
	r.inner.Clear()
}
