package mpsc

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

// These tests exercise NewNATSQueue against a real NATS server and are
// skipped unless MULTICHANNEL_NATS_URL points at one — there is no
// embedded NATS server in this module's dependency set.
func natsTestConn(t *testing.T) *nats.Conn {
	t.Helper()
	url := os.Getenv("MULTICHANNEL_NATS_URL")
	if url == "" {
		t.Skip("set MULTICHANNEL_NATS_URL to run NATS-backed mpsc tests")
	}
	nc, err := nats.Connect(url)
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func jsonCodec[T any]() Codec[T] {
	return Codec[T]{
		Encode: func(v T) ([]byte, error) { return json.Marshal(v) },
		Decode: func(b []byte) (T, error) {
			var v T
			err := json.Unmarshal(b, &v)
			return v, err
		},
	}
}

func TestNATSQueueBasicSendRecv(t *testing.T) {
	nc := natsTestConn(t)
	subject := "multichannel.test.basic"

	sender, receiver, err := NewNATSQueue[int](nc, subject, jsonCodec[int](), 0, 0)
	require.NoError(t, err)

	require.NoError(t, sender.TrySend(7))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := receiver.AsyncRecv(ctx)
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestNATSQueueOverflowReported(t *testing.T) {
	nc := natsTestConn(t)
	subject := "multichannel.test.overflow"

	sender, receiver, err := NewNATSQueue[int](nc, subject, jsonCodec[int](), 2, 1024)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, sender.TrySend(i))
	}
	require.NoError(t, nc.Flush())
	time.Sleep(100 * time.Millisecond)

	sawOverflow := false
	for i := 0; i < 20; i++ {
		_, err := receiver.TryRecv()
		if err == ErrOverflowed {
			sawOverflow = true
			break
		}
		if err == ErrEmpty {
			break
		}
	}
	require.True(t, sawOverflow, "pending limit of 2 should have dropped messages")
}
