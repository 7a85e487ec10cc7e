package mpsc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChanQueueBasicSendRecv(t *testing.T) {
	sender, receiver := NewChanQueue[string](2)

	require.NoError(t, sender.TrySend("a"))
	require.NoError(t, sender.TrySend("b"))

	v, err := receiver.TryRecv()
	require.NoError(t, err)
	require.Equal(t, "a", v)
}

func TestChanQueueOverflowSetsFlag(t *testing.T) {
	sender, receiver := NewChanQueue[int](1)

	require.NoError(t, sender.TrySend(1))
	err := sender.TrySend(2)
	require.Error(t, err)

	_, err = receiver.TryRecv()
	require.ErrorIs(t, err, ErrOverflowed)

	v, err := receiver.TryRecv()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestChanQueueAsyncRecvCancel(t *testing.T) {
	_, receiver := NewChanQueue[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := receiver.AsyncRecv(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChanQueueClear(t *testing.T) {
	sender, receiver := NewChanQueue[int](4)
	require.NoError(t, sender.TrySend(1))
	require.NoError(t, sender.TrySend(2))

	receiver.Clear()

	_, err := receiver.TryRecv()
	require.ErrorIs(t, err, ErrEmpty)
}
