package multichannel

import (
	"github.com/rs/zerolog"

	"github.com/odin-labs/multichannel/mpsc"
)

// HubOption configures a Hub at construction time.
type HubOption[K comparable, V any] func(*Hub[K, V])

// WithCacheCapacity overrides the per-channel cache capacity new
// channels are created with.
func WithCacheCapacity[K comparable, V any](capacity int) HubOption[K, V] {
	return func(h *Hub[K, V]) {
		if capacity > 0 {
			h.capacity = capacity
		}
	}
}

// WithQueueFactory overrides the mpsc backend new subscribers are
// built on. The default is mpsc.NewRingQueue.
func WithQueueFactory[K comparable, V any](factory mpsc.Factory[Event[K, V]]) HubOption[K, V] {
	return func(h *Hub[K, V]) {
		h.queueFactory = factory
	}
}

// WithSubscriberIDGen overrides how new subscribers are assigned ids.
func WithSubscriberIDGen[K comparable, V any](gen SubscriberIDGen) HubOption[K, V] {
	return func(h *Hub[K, V]) {
		h.idGen = gen
	}
}

// WithHubLogger attaches a logger new subscribers inherit unless they
// set their own.
func WithHubLogger[K comparable, V any](logger *zerolog.Logger) HubOption[K, V] {
	return func(h *Hub[K, V]) {
		h.logger = logger
	}
}

// SubscriberOption configures a Subscriber at construction time.
type SubscriberOption[K comparable, V any] func(*Subscriber[K, V])

// WithSubscriberLogger attaches a logger used to report inbox
// overflow.
func WithSubscriberLogger[K comparable, V any](logger *zerolog.Logger) SubscriberOption[K, V] {
	return func(s *Subscriber[K, V]) {
		s.logger = logger
	}
}
