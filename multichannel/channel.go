package multichannel

import (
	"github.com/odin-labs/multichannel/mpsc"
)

// Channel couples one id's cache with its bus: publishing writes to
// the cache first and only then broadcasts, so a subscriber racing the
// broadcast can never observe an event before ReadNext would find it
// in the cache.
type Channel[K comparable, V any] struct {
	id    K
	cache *Cache[V]
	bus   *Bus[K, V]
}

func newChannel[K comparable, V any](id K, capacity int) *Channel[K, V] {
	return &Channel[K, V]{
		id:    id,
		cache: NewCache[V](capacity),
		bus:   newBus[K, V](),
	}
}

// ID returns the channel's id.
func (c *Channel[K, V]) ID() K {
	return c.id
}

// Subers reports how many subscribers are currently watching.
func (c *Channel[K, V]) Subers() int {
	return c.bus.Subers()
}

// TailSeq returns the sequence number the next published value will
// need.
func (c *Channel[K, V]) TailSeq() uint64 {
	return c.cache.NextSeq()
}

// ReadNext reads the cache on behalf of a cursor; it never touches the
// bus.
func (c *Channel[K, V]) ReadNext(seq uint64) ReadOutput[V] {
	return c.cache.ReadNext(seq)
}

// HeadSeq returns the sequence number of the oldest entry the cache
// still holds, and false if the cache is empty.
func (c *Channel[K, V]) HeadSeq() (uint64, bool) {
	return c.cache.HeadSeq()
}

// PushRaw stores a fully-formed envelope and broadcasts it.
func (c *Channel[K, V]) PushRaw(v SeqVal[V]) error {
	if err := c.cache.PushRaw(v); err != nil {
		return err
	}
	c.broadcast(v)
	return nil
}

// Push assigns the next sequence number to value, stores it, and
// broadcasts it.
func (c *Channel[K, V]) Push(value V) (SeqVal[V], error) {
	v, err := c.cache.Push(value)
	if err != nil {
		return SeqVal[V]{}, err
	}
	c.broadcast(v)
	return v, nil
}

func (c *Channel[K, V]) broadcast(v SeqVal[V]) {
	c.bus.Broadcast(Event[K, V]{ChannelID: c.id, Envelope: v})
}

func (c *Channel[K, V]) insertSuber(id SubscriberID, sender mpsc.Sender[Event[K, V]]) {
	c.bus.Watch(id, sender)
}

func (c *Channel[K, V]) removeSuber(id SubscriberID) {
	c.bus.Unwatch(id)
}
