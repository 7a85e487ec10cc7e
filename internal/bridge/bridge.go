// Package bridge forwards messages between NATS subjects and
// multichannel.Hub channels, the same role src/channels.go played
// mapping NATS subjects to WebSocket channels, generalized to this
// hub's arbitrary string channel ids.
package bridge

import (
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/odin-labs/multichannel/internal/telemetry"
	"github.com/odin-labs/multichannel/multichannel"
)

// Bridge subscribes to a NATS wildcard subject and republishes every
// message it receives onto the hub channel the subject maps to.
// Subject "<prefix>.<channel>" maps to channel id "<channel>"; the
// inverse mapping is ChannelToSubject.
type Bridge struct {
	nc      *nats.Conn
	hub     *multichannel.Hub[string, []byte]
	prefix  string
	metrics *telemetry.Metrics
	logger  zerolog.Logger
	sub     *nats.Subscription
}

// New builds a Bridge. prefix must not contain "." wildcards; it is
// the literal first token of every subject the bridge handles.
func New(nc *nats.Conn, hub *multichannel.Hub[string, []byte], prefix string, metrics *telemetry.Metrics, logger zerolog.Logger) *Bridge {
	return &Bridge{nc: nc, hub: hub, prefix: prefix, metrics: metrics, logger: logger}
}

// SubjectToChannel extracts the channel id from a subject this
// bridge's prefix produced, or ("", false) if subject doesn't belong
// to this bridge's namespace.
func (b *Bridge) SubjectToChannel(subject string) (string, bool) {
	want := b.prefix + "."
	if !strings.HasPrefix(subject, want) {
		return "", false
	}
	channel := strings.TrimPrefix(subject, want)
	if channel == "" {
		return "", false
	}
	return channel, true
}

// ChannelToSubject builds the subject a given channel id is published
// under.
func (b *Bridge) ChannelToSubject(channelID string) string {
	return fmt.Sprintf("%s.%s", b.prefix, channelID)
}

// Start subscribes to "<prefix>.>" (every subject under the prefix,
// including multi-token channel ids) and pushes every received payload
// onto the matching hub channel. It returns once the subscription is
// established; delivery happens on nats.go's own dispatcher goroutine.
func (b *Bridge) Start() error {
	pattern := b.prefix + ".>"
	sub, err := b.nc.Subscribe(pattern, b.handle)
	if err != nil {
		return fmt.Errorf("bridge: subscribing to %q: %w", pattern, err)
	}
	b.sub = sub
	b.logger.Info().Str("pattern", pattern).Msg("bridge subscribed")
	return nil
}

// Stop unsubscribes from NATS. Safe to call on a Bridge that was
// never started.
func (b *Bridge) Stop() error {
	if b.sub == nil {
		return nil
	}
	return b.sub.Unsubscribe()
}

func (b *Bridge) handle(msg *nats.Msg) {
	channelID, ok := b.SubjectToChannel(msg.Subject)
	if !ok {
		if b.metrics != nil {
			b.metrics.BridgeErrorsTotal.WithLabelValues("bad_subject").Inc()
		}
		b.logger.Warn().Str("subject", msg.Subject).Msg("bridge: subject outside namespace")
		return
	}

	ch := b.hub.Publisher(channelID)
	if _, err := ch.Push(msg.Data); err != nil {
		if b.metrics != nil {
			b.metrics.BridgeErrorsTotal.WithLabelValues("push").Inc()
		}
		b.logger.Error().Err(err).Str("channel", channelID).Msg("bridge: push failed")
		return
	}
	if b.metrics != nil {
		b.metrics.PublishedTotal.WithLabelValues(channelID).Inc()
	}
}

// Publish republishes value directly to NATS under channelID's
// subject, for callers that want to originate an event from this
// process rather than receive one.
func (b *Bridge) Publish(channelID string, payload []byte) error {
	return b.nc.Publish(b.ChannelToSubject(channelID), payload)
}
