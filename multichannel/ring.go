package multichannel

import (
	"fmt"
	"sync"
)

// Cache is a bounded, seq-ordered ring of the most recent values
// pushed to a channel. It lets a newly-subscribed or lagging cursor
// catch up by sequence number instead of only ever seeing live
// broadcasts, the same role ReplayBuffer plays for reconnecting
// WebSocket clients.
type Cache[V any] struct {
	mu       sync.RWMutex
	queue    []SeqVal[V]
	lastSeq  uint64
	capacity int
}

// NewCache builds an empty cache holding at most capacity entries.
func NewCache[V any](capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache[V]{capacity: capacity}
}

// NextSeq returns the sequence number the next pushed value will need
// in order to be accepted.
func (c *Cache[V]) NextSeq() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSeq + 1
}

// PushRaw appends a fully-formed envelope, evicting from the head once
// the cache is at capacity. The envelope's sequence must strictly
// exceed the last one pushed.
func (c *Cache[V]) PushRaw(v SeqVal[V]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushRawLocked(v)
}

// Push assigns the next sequence number to value and appends it.
func (c *Cache[V]) Push(value V) (SeqVal[V], error) {
	c.mu.Lock()
	v := SeqVal[V]{Seq: c.lastSeq + 1, Value: value}
	if err := c.pushRawLocked(v); err != nil {
		c.mu.Unlock()
		var zero SeqVal[V]
		return zero, err
	}
	c.mu.Unlock()
	return v, nil
}

func (c *Cache[V]) pushRawLocked(v SeqVal[V]) error {
	if v.Seq <= c.lastSeq {
		return fmt.Errorf("%w: expected > %d, got %d", ErrSequenceInconsistent, c.lastSeq, v.Seq)
	}
	for len(c.queue) >= c.capacity {
		c.queue = c.queue[1:]
	}
	c.lastSeq = v.Seq
	c.queue = append(c.queue, v)
	return nil
}

// HeadSeq returns the sequence number of the oldest entry still held,
// and false if the cache is empty.
func (c *Cache[V]) HeadSeq() (uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.queue) == 0 {
		return 0, false
	}
	return c.queue[0].Seq, true
}

// ReadNext returns the first entry at or after seq, ReadLatest if the
// cache simply has nothing newer, or ReadLagged if seq already fell
// off the front.
func (c *Cache[V]) ReadNext(seq uint64) ReadOutput[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.queue) == 0 {
		return ReadOutput[V]{Kind: ReadLatest}
	}

	startSeq := c.queue[0].Seq
	if seq < startSeq {
		return ReadOutput[V]{Kind: ReadLagged}
	}

	delta := seq - startSeq
	index0 := len(c.queue) - 1
	if delta < uint64(index0) {
		index0 = int(delta)
	}
	return c.reverseSearchFrom(seq, index0)
}

// reverseSearchFrom scans backward from index0 for the entry whose
// sequence is either exactly seq or the first entry whose predecessor
// falls below seq — i.e. the entry that would have been returned had
// seq been requested at push time.
func (c *Cache[V]) reverseSearchFrom(seq uint64, index0 int) ReadOutput[V] {
	last := c.queue[len(c.queue)-1]
	if seq > last.Seq {
		return ReadOutput[V]{Kind: ReadLatest}
	}

	index := index0
	if index > len(c.queue)-1 {
		index = len(c.queue) - 1
	}
	for index > 0 {
		if seq == c.queue[index].Seq || seq > c.queue[index-1].Seq {
			return ReadOutput[V]{Kind: ReadValue, Value: c.queue[index]}
		}
		index--
	}

	if seq == c.queue[0].Seq {
		return ReadOutput[V]{Kind: ReadValue, Value: c.queue[0]}
	}
	return ReadOutput[V]{Kind: ReadLagged}
}
