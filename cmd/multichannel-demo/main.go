// Command multichannel-demo runs a multichannel.Hub as a standalone
// process: it bridges NATS subjects into hub channels, serves
// Prometheus metrics and a health endpoint, and shuts down cleanly on
// SIGINT/SIGTERM. It mirrors the bootstrap shape of the websocket
// server's main.go, minus the WebSocket transport itself.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	_ "go.uber.org/automaxprocs"

	"github.com/odin-labs/multichannel/internal/bridge"
	"github.com/odin-labs/multichannel/internal/config"
	"github.com/odin-labs/multichannel/internal/logging"
	"github.com/odin-labs/multichannel/internal/telemetry"
	"github.com/odin-labs/multichannel/multichannel"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging (overrides MC_LOG_LEVEL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if *debug {
		cfg.LogLevel = string(logging.LevelDebug)
	}

	logger := logging.New(logging.Config{
		Level:   logging.Level(cfg.LogLevel),
		Format:  logging.Format(cfg.LogFormat),
		Service: "multichannel-demo",
	})
	logging.InitGlobal(logger)

	maxProcs := runtime.GOMAXPROCS(0)
	logger.Info().Int("gomaxprocs", maxProcs).Msg("automaxprocs applied")

	cfg.Print()
	cfg.Log(logger)

	registry := prometheus.NewRegistry()
	metrics := telemetry.New(registry)

	hub := multichannel.NewHub[string, []byte](
		multichannel.WithCacheCapacity[string, []byte](cfg.CacheCapacity),
		multichannel.WithHubLogger[string, []byte](&logger),
	)

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("multichannel-demo"))
	if err != nil {
		logger.Error().Err(err).Str("url", cfg.NATSURL).Msg("nats connect failed, running without bridge")
	}

	var br *bridge.Bridge
	if nc != nil {
		br = bridge.New(nc, hub, "multichannel", metrics, logger)
		if err := br.Start(); err != nil {
			logger.Error().Err(err).Msg("bridge start failed")
		}
	}

	sampler, err := telemetry.NewSampler(metrics, time.Duration(cfg.MetricsIntervalSeconds)*time.Second)
	if err != nil {
		logger.Error().Err(err).Msg("sampler init failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	if sampler != nil {
		go sampler.Run(ctx)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler(registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error(logger, err, "http server failed", nil)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}

	if br != nil {
		_ = br.Stop()
	}
	if nc != nil {
		nc.Close()
	}
}
