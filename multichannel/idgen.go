package multichannel

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriberID identifies one subscriber's inbox within a Hub's buses.
type SubscriberID string

// SubscriberIDGen produces SubscriberIDs. A Hub defaults to
// AtomicSubscriberIDGen; callers that need globally unique ids across
// multiple processes should supply UUIDSubscriberIDGen instead.
type SubscriberIDGen func() SubscriberID

// AtomicSubscriberIDGen returns a generator that hands out densely
// packed, process-local ids starting at 1, the same scheme Cache uses
// for envelope sequence numbers.
func AtomicSubscriberIDGen() SubscriberIDGen {
	var counter uint64
	return func() SubscriberID {
		n := atomic.AddUint64(&counter, 1)
		return SubscriberID(strconv.FormatUint(n, 10))
	}
}

// UUIDSubscriberIDGen returns a generator backed by random UUIDs, for
// deployments where subscriber ids must be unique across processes.
func UUIDSubscriberIDGen() SubscriberIDGen {
	return func() SubscriberID {
		return SubscriberID(uuid.NewString())
	}
}

// NextUint64ID returns a generator of densely packed uint64s, a
// convenience for callers whose channel id type is a plain counter
// rather than something domain-meaningful like a NATS subject.
func NextUint64ID() func() uint64 {
	var counter uint64
	return func() uint64 {
		return atomic.AddUint64(&counter, 1)
	}
}
