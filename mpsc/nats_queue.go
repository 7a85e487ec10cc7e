package mpsc

import (
	"context"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Codec marshals/unmarshals a queue element to/from a NATS message body.
type Codec[T any] struct {
	Encode func(T) ([]byte, error)
	Decode func([]byte) (T, error)
}

// NewNATSQueue backs an inbox with a real NATS core subscription instead
// of an in-process queue: a subscriber's inbox can live on a different
// process than its publishers. Overflow is NATS's own slow-consumer
// signal (Subscription.Dropped, driven by SetPendingLimits), not a
// hand-rolled flag, so this backend's overflow semantics are exactly
// whatever the NATS client reports.
func NewNATSQueue[T any](nc *nats.Conn, subject string, codec Codec[T], msgLimit, bytesLimit int) (Sender[T], Receiver[T], error) {
	sub, err := nc.SubscribeSync(subject)
	if err != nil {
		return nil, nil, err
	}
	if msgLimit <= 0 {
		msgLimit = 1024
	}
	if bytesLimit <= 0 {
		bytesLimit = 1024 * 1024
	}
	if err := sub.SetPendingLimits(msgLimit, bytesLimit); err != nil {
		return nil, nil, err
	}

	sender := &natsSender[T]{nc: nc, subject: subject, codec: codec}
	receiver := &natsReceiver[T]{sub: sub, codec: codec}
	return sender, receiver, nil
}

type natsSender[T any] struct {
	nc      *nats.Conn
	subject string
	codec   Codec[T]
}

func (s *natsSender[T]) TrySend(msg T) error {
	data, err := s.codec.Encode(msg)
	if err != nil {
		return TrySendError[T]{Msg: msg}
	}
	if err := s.nc.Publish(s.subject, data); err != nil {
		return TrySendError[T]{Msg: msg}
	}
	return nil
}

type natsReceiver[T any] struct {
	sub         *nats.Subscription
	codec       Codec[T]
	mu          sync.Mutex
	lastDropped int
}

func (r *natsReceiver[T]) checkOverflow() bool {
	dropped, err := r.sub.Dropped()
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if dropped > r.lastDropped {
		r.lastDropped = dropped
		return true
	}
	return false
}

func (r *natsReceiver[T]) TryRecv() (T, error) {
	var zero T
	if r.checkOverflow() {
		return zero, ErrOverflowed
	}

	pending, _, err := r.sub.Pending()
	if err != nil || pending == 0 {
		return zero, ErrEmpty
	}

	msg, err := r.sub.NextMsg(time.Millisecond)
	if err != nil {
		return zero, ErrEmpty
	}
	v, err := r.codec.Decode(msg.Data)
	if err != nil {
		return zero, ErrEmpty
	}
	return v, nil
}

func (r *natsReceiver[T]) AsyncRecv(ctx context.Context) (T, error) {
	var zero T
	for {
		if r.checkOverflow() {
			return zero, ErrOverflowed
		}

		msg, err := r.sub.NextMsgWithContext(ctx)
		if err != nil {
			if r.checkOverflow() {
				return zero, ErrOverflowed
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			return zero, err
		}
		v, err := r.codec.Decode(msg.Data)
		if err != nil {
			// Undecodable messages are dropped, as TryRecv does.
			continue
		}
		return v, nil
	}
}

func (r *natsReceiver[T]) Clear() {
	for {
		if _, err := r.sub.NextMsg(time.Nanosecond); err != nil {
			break
		}
	}
	dropped, err := r.sub.Dropped()
	if err == nil {
		r.mu.Lock()
		r.lastDropped = dropped
		r.mu.Unlock()
	}
}
