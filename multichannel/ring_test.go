package multichannel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheInOrderPushAndRead(t *testing.T) {
	c := NewCache[int](16)
	for i := 1; i <= 16; i++ {
		v, err := c.Push(i * 10)
		require.NoError(t, err)
		require.Equal(t, uint64(i), v.Seq)
	}

	out := c.ReadNext(1)
	require.Equal(t, ReadValue, out.Kind)
	require.Equal(t, uint64(1), out.Value.Seq)

	out = c.ReadNext(17)
	require.Equal(t, ReadLatest, out.Kind)
}

func TestCacheRejectsNonIncreasingSeq(t *testing.T) {
	c := NewCache[int](4)
	require.NoError(t, c.PushRaw(SeqVal[int]{Seq: 5, Value: 1}))
	err := c.PushRaw(SeqVal[int]{Seq: 5, Value: 2})
	require.ErrorIs(t, err, ErrSequenceInconsistent)
	err = c.PushRaw(SeqVal[int]{Seq: 3, Value: 2})
	require.ErrorIs(t, err, ErrSequenceInconsistent)
}

func TestCacheEvictionReportsLagged(t *testing.T) {
	c := NewCache[int](16)
	for i := 1; i <= 17; i++ {
		_, err := c.Push(i)
		require.NoError(t, err)
	}

	out := c.ReadNext(1)
	require.Equal(t, ReadLagged, out.Kind, "seq 1 should have been evicted")

	seq := uint64(2)
	for {
		out = c.ReadNext(seq)
		if out.Kind == ReadLatest {
			break
		}
		require.Equal(t, ReadValue, out.Kind)
		require.Equal(t, seq, out.Value.Seq)
		seq = out.Value.Seq + 1
	}
	require.Equal(t, uint64(18), seq)
}

func TestCacheSingleEntryRing(t *testing.T) {
	c := NewCache[int](1)
	_, err := c.Push(100)
	require.NoError(t, err)

	out := c.ReadNext(1)
	require.Equal(t, ReadValue, out.Kind)
	require.Equal(t, uint64(1), out.Value.Seq)

	out = c.ReadNext(2)
	require.Equal(t, ReadLatest, out.Kind)

	_, err = c.Push(200)
	require.NoError(t, err)

	out = c.ReadNext(1)
	require.Equal(t, ReadLagged, out.Kind)

	out = c.ReadNext(2)
	require.Equal(t, ReadValue, out.Kind)
	require.Equal(t, uint64(2), out.Value.Seq)
}

func TestCacheReadOnEmpty(t *testing.T) {
	c := NewCache[int](8)
	out := c.ReadNext(1)
	require.Equal(t, ReadLatest, out.Kind)
}
