// Command rocketsd runs the spacecraft simulation headless and exposes it
// over HTTP: telemetry and control via REST, a websocket telemetry stream,
// Prometheus metrics and health probes.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/marvinvr/rockets/pkg/config"
	"github.com/marvinvr/rockets/pkg/engine"
	"github.com/marvinvr/rockets/pkg/health"
	"github.com/marvinvr/rockets/pkg/logging"
	"github.com/marvinvr/rockets/pkg/render"
	"github.com/marvinvr/rockets/pkg/telemetry"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "", "game config file (JSON); built-in solar system when empty")
		tickRate   = flag.Float64("tick-rate", 60, "simulation ticks per second")
		debugView  = flag.Bool("render", false, "draw an ASCII view of the scene on stdout")
	)
	flag.Parse()

	logger := logging.NewLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "failed to load config", err, "path", *configPath)
			os.Exit(1)
		}
		cfg = loaded
	}

	game := engine.NewGame(cfg)
	metrics := telemetry.NewCollector()
	metrics.Attach(game.Events)

	srv := newServer(logger, game, metrics)
	if *debugView {
		srv.renderer = render.NewTerminalRenderer(os.Stdout, 100, 30, 12)
	}

	checker := health.NewChecker()
	checker.AddCheck(health.NewSimulationCheck(srv.lastTickTime, 2*time.Second))
	checker.AddCheck(health.NewMemoryCheck(1024, currentMemoryMB))

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.routes(checker),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go srv.runLoop(ctx, *tickRate)

	go func() {
		logger.Info(ctx, "rocketsd listening", "addr", *addr, "tick_rate", *tickRate)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "HTTP server failed", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "shutdown failed", err)
	}
}

func currentMemoryMB() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return int64(stats.Alloc / 1024 / 1024)
}
