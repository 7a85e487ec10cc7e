package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsNonPositiveCacheCapacity(t *testing.T) {
	cfg := &Config{
		CacheCapacity:          0,
		SubscriberInbox:        1,
		MetricsIntervalSeconds: 1,
		LogFormat:              "json",
		LogLevel:               "info",
	}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := &Config{
		CacheCapacity:          1,
		SubscriberInbox:        1,
		MetricsIntervalSeconds: 1,
		LogFormat:              "xml",
		LogLevel:               "info",
	}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := &Config{
		CacheCapacity:          1,
		SubscriberInbox:        1,
		MetricsIntervalSeconds: 1,
		LogFormat:              "json",
		LogLevel:               "verbose",
	}
	require.Error(t, cfg.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &Config{
		Addr:                   ":8080",
		CacheCapacity:          256,
		SubscriberInbox:        128,
		MetricsIntervalSeconds: 10,
		LogFormat:              "json",
		LogLevel:               "info",
	}
	require.NoError(t, cfg.Validate())
}
