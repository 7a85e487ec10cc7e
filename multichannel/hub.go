package multichannel

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/odin-labs/multichannel/mpsc"
)

const defaultCacheCapacity = 256

// Hub owns every channel in a process and hands out publisher and
// subscriber handles onto them. Channels are created lazily on first
// use by either side — subscribing to or publishing on an id nobody
// has seen before just works.
type Hub[K comparable, V any] struct {
	mu           sync.Mutex
	channels     *indexMap[K, *Channel[K, V]]
	capacity     int
	queueFactory mpsc.Factory[Event[K, V]]
	idGen        SubscriberIDGen
	logger       *zerolog.Logger
}

// NewHub builds a Hub. Its channels default to a capacity-256 cache
// and its subscribers default to the ring-backed mpsc queue.
func NewHub[K comparable, V any](opts ...HubOption[K, V]) *Hub[K, V] {
	h := &Hub[K, V]{
		channels:     newIndexMap[K, *Channel[K, V]](),
		capacity:     defaultCacheCapacity,
		queueFactory: mpsc.NewRingQueue[Event[K, V]],
		idGen:        AtomicSubscriberIDGen(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetOrCreate returns the channel for chID, creating it with the hub's
// default cache capacity if it doesn't exist yet.
func (h *Hub[K, V]) GetOrCreate(chID K) *Channel[K, V] {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.channels.Get(chID); ok {
		return ch
	}
	ch := newChannel[K, V](chID, h.capacity)
	h.channels.Insert(chID, ch)
	if h.logger != nil {
		h.logger.Debug().Interface("channel_id", chID).Msg("channel created")
	}
	return ch
}

// Publisher returns a handle for publishing to chID, auto-creating the
// channel if necessary.
func (h *Hub[K, V]) Publisher(chID K) *Channel[K, V] {
	return h.GetOrCreate(chID)
}

// Subscribe auto-creates chID's channel if necessary and adds a cursor
// for it to sub, starting replay from startSeq.
func (h *Hub[K, V]) Subscribe(chID K, sub *Subscriber[K, V], startSeq uint64) error {
	ch := h.GetOrCreate(chID)
	return sub.Subscribe(ch, startSeq)
}

// NewSubscriber builds a Subscriber with an inbox of the given
// capacity, using the hub's configured id generator and queue factory.
func (h *Hub[K, V]) NewSubscriber(capacity int, opts ...SubscriberOption[K, V]) *Subscriber[K, V] {
	id := h.idGen()
	s := newSubscriber[K, V](id, h.queueFactory, capacity, opts...)
	if s.logger == nil && h.logger != nil {
		s.logger = h.logger
	}
	return s
}

// Channels reports how many channels currently exist.
func (h *Hub[K, V]) Channels() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.channels.Len()
}
