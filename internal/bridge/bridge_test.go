package bridge

import (
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/odin-labs/multichannel/multichannel"
)

func natsTestConn(t *testing.T) *nats.Conn {
	t.Helper()
	url := os.Getenv("MULTICHANNEL_NATS_URL")
	if url == "" {
		t.Skip("set MULTICHANNEL_NATS_URL to run NATS-backed bridge tests")
	}
	nc, err := nats.Connect(url)
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func TestSubjectToChannelRoundTrip(t *testing.T) {
	b := &Bridge{prefix: "multichannel"}
	subject := b.ChannelToSubject("token.BTC")
	require.Equal(t, "multichannel.token.BTC", subject)

	got, ok := b.SubjectToChannel(subject)
	require.True(t, ok)
	require.Equal(t, "token.BTC", got)
}

func TestSubjectToChannelRejectsForeignPrefix(t *testing.T) {
	b := &Bridge{prefix: "multichannel"}
	_, ok := b.SubjectToChannel("otherapp.token.BTC")
	require.False(t, ok)
}

func TestBridgeDeliversIntoHub(t *testing.T) {
	nc := natsTestConn(t)
	hub := multichannel.NewHub[string, []byte]()
	sub := hub.NewSubscriber(8)
	require.NoError(t, hub.Subscribe("token.BTC", sub, 1))

	b := New(nc, hub, "multichannel", nil, zerolog.Nop())
	require.NoError(t, b.Start())
	defer b.Stop()

	require.NoError(t, b.Publish("token.BTC", []byte("payload")))
	require.NoError(t, nc.Flush())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r := sub.TryRecv(); !r.IsNone() {
			require.Equal(t, multichannel.RecvValue, r.Kind)
			require.Equal(t, []byte("payload"), r.Envelope.Value)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for bridged message")
}
