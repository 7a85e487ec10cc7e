// Package telemetry registers the Prometheus metrics the hub, the
// mpsc queues, and the NATS bridge report against.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every counter/gauge the demo binary exposes at
// /metrics. A fresh Registerer is used per Metrics instance so tests
// can construct one without colliding with prometheus.DefaultRegisterer.
type Metrics struct {
	ChannelsActive     prometheus.Gauge
	SubscribersActive  prometheus.Gauge
	PublishedTotal     *prometheus.CounterVec
	DeliveredTotal     *prometheus.CounterVec
	LaggedTotal        *prometheus.CounterVec
	OverflowedTotal    *prometheus.CounterVec
	RateLimitedTotal   *prometheus.CounterVec
	CacheEvictedTotal  *prometheus.CounterVec
	BridgeErrorsTotal  *prometheus.CounterVec
	SubscriberInboxLen prometheus.Histogram
	CPUUsagePercent    prometheus.Gauge
	GoroutinesActive   prometheus.Gauge
}

// New builds a Metrics bundle and registers it against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChannelsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multichannel_channels_active",
			Help: "Number of channels currently tracked by the hub.",
		}),
		SubscribersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multichannel_subscribers_active",
			Help: "Number of subscribers currently registered with the hub.",
		}),
		PublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multichannel_published_total",
			Help: "Total values pushed into a channel's cache, by channel.",
		}, []string{"channel"}),
		DeliveredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multichannel_delivered_total",
			Help: "Total values delivered to subscribers, by channel.",
		}, []string{"channel"}),
		LaggedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multichannel_lagged_total",
			Help: "Total lag notifications delivered to subscribers, by channel.",
		}, []string{"channel"}),
		OverflowedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multichannel_overflowed_total",
			Help: "Total subscriber inbox overflow episodes, by channel.",
		}, []string{"channel"}),
		RateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multichannel_rate_limited_total",
			Help: "Total values shed by a rate-limited subscriber queue.",
		}, []string{"subscriber"}),
		CacheEvictedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multichannel_cache_evicted_total",
			Help: "Total ring cache evictions, by channel.",
		}, []string{"channel"}),
		BridgeErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "multichannel_bridge_errors_total",
			Help: "Total errors encountered bridging NATS subjects to channels, by stage.",
		}, []string{"stage"}),
		SubscriberInboxLen: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "multichannel_subscriber_inbox_length",
			Help:    "Observed subscriber inbox occupancy at delivery time.",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),
		CPUUsagePercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multichannel_cpu_usage_percent",
			Help: "Process CPU usage percent, sampled periodically.",
		}),
		GoroutinesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multichannel_goroutines_active",
			Help: "Current number of goroutines.",
		}),
	}

	reg.MustRegister(
		m.ChannelsActive,
		m.SubscribersActive,
		m.PublishedTotal,
		m.DeliveredTotal,
		m.LaggedTotal,
		m.OverflowedTotal,
		m.RateLimitedTotal,
		m.CacheEvictedTotal,
		m.BridgeErrorsTotal,
		m.SubscriberInboxLen,
		m.CPUUsagePercent,
		m.GoroutinesActive,
	)

	return m
}

// Handler returns the promhttp handler for gathering from reg.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
