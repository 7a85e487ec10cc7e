package multichannel

import "errors"

// ErrSequenceInconsistent is returned by Cache.PushRaw when a pushed
// envelope's sequence number does not strictly increase on the
// previous one.
var ErrSequenceInconsistent = errors.New("multichannel: sequence inconsistent")

// ErrAlreadySubscribed is returned by Subscriber.Subscribe when the
// subscriber already holds a cursor on the channel.
var ErrAlreadySubscribed = errors.New("multichannel: already subscribed to channel")
