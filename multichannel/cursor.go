package multichannel

// Cursor tracks one subscriber's read position within one channel. It
// is only ever driven from Partition, which decides whether a cursor
// is caught up with the live bus or still replaying the cache.
type Cursor[K comparable, V any] struct {
	seq uint64
	ch  *Channel[K, V]
}

func newCursor[K comparable, V any](ch *Channel[K, V], seq uint64) *Cursor[K, V] {
	return &Cursor[K, V]{seq: seq, ch: ch}
}

// readNext scans the channel's cache for this cursor's current
// sequence, advancing seq past whatever it finds. A Lagged result
// resyncs the cursor to the cache's current head so the next read
// makes progress instead of reporting the same gap forever.
func (c *Cursor[K, V]) readNext() (SeqVal[V], ReadOutputKind) {
	out := c.ch.ReadNext(c.seq)
	switch out.Kind {
	case ReadValue:
		c.seq = out.Value.Seq + 1
	case ReadLagged:
		if head, ok := c.ch.HeadSeq(); ok {
			c.seq = head
		}
	}
	return out.Value, out.Kind
}

// deliver advances past a sequence number the bus confirmed was
// delivered in order.
func (c *Cursor[K, V]) deliver(seq uint64) {
	c.seq = seq + 1
}
