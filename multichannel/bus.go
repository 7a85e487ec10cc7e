package multichannel

import (
	"sync"

	"github.com/odin-labs/multichannel/mpsc"
)

// Bus fans a channel's events out to every subscriber currently
// watching it. It holds senders only: delivery is non-blocking and a
// slow or overflowed subscriber never holds up the others, the same
// way Bus.broadcast in the server loop walks its client map with a
// plain non-blocking select per client.
type Bus[K comparable, V any] struct {
	mu      sync.Mutex
	watcher *indexMap[SubscriberID, mpsc.Sender[Event[K, V]]]
}

func newBus[K comparable, V any]() *Bus[K, V] {
	return &Bus[K, V]{watcher: newIndexMap[SubscriberID, mpsc.Sender[Event[K, V]]]()}
}

// Subers reports how many subscribers are currently watching.
func (b *Bus[K, V]) Subers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.watcher.Len()
}

// Watch registers sender under id, replacing any prior registration.
func (b *Bus[K, V]) Watch(id SubscriberID, sender mpsc.Sender[Event[K, V]]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watcher.Insert(id, sender)
}

// Unwatch removes a subscriber's registration, reporting whether it
// was present.
func (b *Bus[K, V]) Unwatch(id SubscriberID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.watcher.Remove(id)
	return ok
}

// Broadcast delivers ev to every watching subscriber's inbox. A full
// inbox is not an error here: TrySend records the overflow on the
// receiving end and broadcast moves on.
func (b *Bus[K, V]) Broadcast(ev Event[K, V]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watcher.Each(func(_ SubscriberID, sender mpsc.Sender[Event[K, V]]) {
		_ = sender.TrySend(ev)
	})
}
