package mpsc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimitedQueuePassesThroughUnderLimit(t *testing.T) {
	factory := NewRateLimitedQueue[int](rate.Inf, 0, NewChanQueue[int])
	sender, receiver := factory(4)

	require.NoError(t, sender.TrySend(1))
	v, err := receiver.TryRecv()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestRateLimitedQueueShedsOverLimit(t *testing.T) {
	factory := NewRateLimitedQueue[int](0, 1, NewChanQueue[int])
	sender, receiver := factory(4)

	require.NoError(t, sender.TrySend(1))
	err := sender.TrySend(2)
	require.Error(t, err)

	_, err = receiver.TryRecv()
	require.ErrorIs(t, err, ErrOverflowed)

	v, err := receiver.TryRecv()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestRateLimitedQueueClearResetsShedFlag(t *testing.T) {
	factory := NewRateLimitedQueue[int](0, 1, NewChanQueue[int])
	sender, receiver := factory(4)

	require.NoError(t, sender.TrySend(1))
	require.Error(t, sender.TrySend(2))

	receiver.Clear()

	_, err := receiver.TryRecv()
	require.ErrorIs(t, err, ErrEmpty)
}
