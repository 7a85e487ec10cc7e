package multichannel

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/odin-labs/multichannel/mpsc"
)

// Subscriber multiplexes a single inbox across however many channels
// it has subscribed to. It is not safe for concurrent use — exactly
// one goroutine may call TryRecv/RecvNext at a time, mirroring the
// mpsc.Receiver it wraps.
type Subscriber[K comparable, V any] struct {
	id        SubscriberID
	sender    mpsc.Sender[Event[K, V]]
	inbox     mpsc.Receiver[Event[K, V]]
	partition *Partition[K, V]
	logger    *zerolog.Logger
}

func newSubscriber[K comparable, V any](id SubscriberID, factory mpsc.Factory[Event[K, V]], capacity int, opts ...SubscriberOption[K, V]) *Subscriber[K, V] {
	sender, receiver := factory(capacity)
	s := &Subscriber[K, V]{
		id:        id,
		sender:    sender,
		inbox:     receiver,
		partition: newPartition[K, V](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the subscriber's id.
func (s *Subscriber[K, V]) ID() SubscriberID {
	return s.id
}

// Channels reports how many channels this subscriber currently holds a
// cursor for.
func (s *Subscriber[K, V]) Channels() int {
	return s.partition.Len()
}

// Subscribe adds a cursor for ch, starting replay from startSeq, and
// registers the subscriber's inbox with the channel's bus.
func (s *Subscriber[K, V]) Subscribe(ch *Channel[K, V], startSeq uint64) error {
	if err := s.partition.Insert(ch, startSeq); err != nil {
		return err
	}
	ch.insertSuber(s.id, s.sender)
	return nil
}

// Unsubscribe drops the cursor for chID and unregisters from its bus,
// reporting whether a cursor existed.
func (s *Subscriber[K, V]) Unsubscribe(chID K) bool {
	ch, ok := s.partition.Remove(chID)
	if !ok {
		return false
	}
	ch.removeSuber(s.id)
	return true
}

// Close unregisters the subscriber from every channel it still holds a
// cursor for. Go has no destructors, so callers must invoke Close
// themselves once a subscriber is done — this stands in for the
// reference implementation's Drop impl.
func (s *Subscriber[K, V]) Close() {
	s.partition.Each(func(ch *Channel[K, V]) {
		ch.removeSuber(s.id)
	})
}

// TryRecv returns the next available envelope across every subscribed
// channel without blocking. It first drains out-of-sync cursors
// against their channels' caches, then checks the live inbox, and only
// reports RecvNone once both are exhausted.
func (s *Subscriber[K, V]) TryRecv() RecvOutput[K, V] {
	for {
		out := s.readOutOfSync()
		if !out.IsNone() {
			return out
		}

		out = s.drainInbox()
		if !out.IsNone() {
			return out
		}

		if s.partition.NoOutOfSync() {
			return RecvOutput[K, V]{Kind: RecvNone}
		}
	}
}

// RecvNext blocks until an envelope is available or ctx is done. It is
// cancel-safe: a cancelled RecvNext neither consumes an event nor
// loses track of a pending overflow.
func (s *Subscriber[K, V]) RecvNext(ctx context.Context) (RecvOutput[K, V], error) {
	for {
		out := s.TryRecv()
		if !out.IsNone() {
			return out, nil
		}

		ev, err := s.inbox.AsyncRecv(ctx)
		if err != nil {
			if errors.Is(err, mpsc.ErrOverflowed) {
				s.logOverflow()
				s.partition.DemoteAllInSyncs()
				continue
			}
			return RecvOutput[K, V]{Kind: RecvNone}, err
		}

		out = s.processEvent(ev)
		if !out.IsNone() {
			return out, nil
		}
	}
}

func (s *Subscriber[K, V]) readOutOfSync() RecvOutput[K, V] {
	out, promotedFirst := s.partition.ReadOutOfSyncRound()
	if promotedFirst {
		// The inbox may have recorded an overflow before this cursor
		// was listening; clearing it here avoids reporting a bogus
		// lag the moment the cursor goes live.
		s.inbox.Clear()
	}
	return out
}

func (s *Subscriber[K, V]) drainInbox() RecvOutput[K, V] {
	for {
		ev, err := s.inbox.TryRecv()
		if err != nil {
			if errors.Is(err, mpsc.ErrOverflowed) {
				s.logOverflow()
				s.partition.DemoteAllInSyncs()
			}
			return RecvOutput[K, V]{Kind: RecvNone}
		}

		out := s.processEvent(ev)
		if !out.IsNone() {
			return out
		}
	}
}

func (s *Subscriber[K, V]) logOverflow() {
	if s.logger == nil {
		return
	}
	s.logger.Warn().Str("subscriber_id", string(s.id)).Msg("inbox overflowed, demoting in-sync cursors")
}

func (s *Subscriber[K, V]) processEvent(ev Event[K, V]) RecvOutput[K, V] {
	if s.partition.CheckInSyncDelivery(ev.ChannelID, ev.Envelope.Seq) {
		return RecvOutput[K, V]{Kind: RecvValue, ChannelID: ev.ChannelID, Envelope: ev.Envelope}
	}
	return RecvOutput[K, V]{Kind: RecvNone}
}
