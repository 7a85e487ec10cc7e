package multichannel

// Partition splits a subscriber's cursors into two groups: inSync
// cursors, which are caught up and now rely on the bus delivering
// exactly the next sequence number, and outOfSync cursors, which
// still need to catch up by reading their channel's cache directly.
// It is owned exclusively by one Subscriber and is never accessed
// concurrently, the same single-consumer assumption mpsc.Receiver
// makes.
type Partition[K comparable, V any] struct {
	inSync        *indexMap[K, *Cursor[K, V]]
	outOfSync     *indexMap[K, *Cursor[K, V]]
	rotationIndex int
}

func newPartition[K comparable, V any]() *Partition[K, V] {
	return &Partition[K, V]{
		inSync:    newIndexMap[K, *Cursor[K, V]](),
		outOfSync: newIndexMap[K, *Cursor[K, V]](),
	}
}

// Len reports the total number of channels this partition holds a
// cursor for.
func (p *Partition[K, V]) Len() int {
	return p.inSync.Len() + p.outOfSync.Len()
}

// Contains reports whether a cursor already exists for chID, in
// either group.
func (p *Partition[K, V]) Contains(chID K) bool {
	if _, ok := p.inSync.Get(chID); ok {
		return true
	}
	_, ok := p.outOfSync.Get(chID)
	return ok
}

// Insert adds a new cursor, starting out-of-sync so it replays the
// cache from startSeq before relying on live delivery.
func (p *Partition[K, V]) Insert(ch *Channel[K, V], startSeq uint64) error {
	if p.Contains(ch.ID()) {
		return ErrAlreadySubscribed
	}
	p.outOfSync.Insert(ch.ID(), newCursor[K, V](ch, startSeq))
	return nil
}

// Remove drops the cursor for chID, if any, and returns the channel it
// pointed at so the caller can unregister from its bus.
func (p *Partition[K, V]) Remove(chID K) (*Channel[K, V], bool) {
	if c, ok := p.inSync.Remove(chID); ok {
		return c.ch, true
	}
	if c, ok := p.outOfSync.Remove(chID); ok {
		return c.ch, true
	}
	return nil, false
}

// Each visits every channel this partition holds a cursor for,
// in-sync and out-of-sync alike.
func (p *Partition[K, V]) Each(fn func(ch *Channel[K, V])) {
	p.inSync.Each(func(_ K, c *Cursor[K, V]) { fn(c.ch) })
	p.outOfSync.Each(func(_ K, c *Cursor[K, V]) { fn(c.ch) })
}

// NoOutOfSync reports whether every cursor is caught up, i.e. there is
// nothing left to replay from any channel's cache.
func (p *Partition[K, V]) NoOutOfSync() bool {
	return p.outOfSync.Len() == 0
}

// CheckInSyncDelivery reconciles a bus-delivered sequence number
// against an in-sync cursor for chID. An exact match advances the
// cursor and is deliverable. A higher sequence means a gap was missed
// (the inbox dropped something the cursor never saw) and the cursor is
// demoted back to out-of-sync to replay from the cache. A lower
// sequence is a stale duplicate and is ignored.
func (p *Partition[K, V]) CheckInSyncDelivery(chID K, seq uint64) bool {
	index, cursor, ok := p.inSync.GetFull(chID)
	if !ok {
		return false
	}
	switch {
	case seq == cursor.seq:
		cursor.deliver(seq)
		return true
	case seq > cursor.seq:
		_, removed, _ := p.inSync.SwapRemoveIndex(index)
		p.outOfSync.Insert(chID, removed)
	}
	return false
}

// DemoteAllInSyncs moves every in-sync cursor back to out-of-sync.
// Called when the inbox itself overflowed: whatever in-sync cursors
// were waiting on specific next sequences can no longer trust that the
// bus didn't skip something, so they all need to replay from their
// channel's cache.
func (p *Partition[K, V]) DemoteAllInSyncs() {
	for {
		key, cursor, ok := p.inSync.Pop()
		if !ok {
			return
		}
		p.outOfSync.Insert(key, cursor)
	}
}

// ReadOutOfSyncRound advances the round-robin rotation through
// out-of-sync cursors until one yields a value or lag, or all of them
// are caught up. promotedFirst reports whether this round promoted the
// first cursor into the in-sync group — the caller should clear its
// inbox in that case, since any overflow recorded before that promotion
// is now meaningless noise about a cursor that wasn't listening yet.
func (p *Partition[K, V]) ReadOutOfSyncRound() (RecvOutput[K, V], bool) {
	promotedFirst := false
	for p.outOfSync.Len() > 0 {
		out, promoted := p.readOutOfSyncAt(p.rotationIndex)
		if promoted {
			promotedFirst = true
		}
		p.advanceRotation()
		if !out.IsNone() {
			return out, promotedFirst
		}
	}
	return RecvOutput[K, V]{Kind: RecvNone}, promotedFirst
}

func (p *Partition[K, V]) readOutOfSyncAt(index int) (RecvOutput[K, V], bool) {
	chID, cursor, ok := p.outOfSync.GetIndex(index)
	if !ok {
		return RecvOutput[K, V]{Kind: RecvNone}, false
	}

	value, kind := cursor.readNext()
	switch kind {
	case ReadValue:
		return RecvOutput[K, V]{Kind: RecvValue, ChannelID: chID, Envelope: value}, false
	case ReadLagged:
		return RecvOutput[K, V]{Kind: RecvLagged, ChannelID: chID}, false
	default: // ReadLatest: this cursor has caught up
		return RecvOutput[K, V]{Kind: RecvNone}, p.promote(index)
	}
}

func (p *Partition[K, V]) promote(index int) bool {
	chID, cursor, ok := p.outOfSync.SwapRemoveIndex(index)
	if !ok {
		return false
	}
	p.inSync.Insert(chID, cursor)
	return p.inSync.Len() == 1
}

func (p *Partition[K, V]) advanceRotation() {
	p.rotationIndex++
	if p.rotationIndex >= p.outOfSync.Len() {
		p.rotationIndex = 0
	}
}
