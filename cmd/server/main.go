package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"namescreen/internal/app"
	"namescreen/internal/platform/config"
	"namescreen/internal/platform/logger"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in internal service packages. NAMESCREEN_CONFIG may
// point at a YAML config file.
func main() {
	cfg, err := config.Load(os.Getenv("NAMESCREEN_CONFIG"))
	if err != nil {
		logger.New("error", "json").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}

	log.Info("starting namescreen", "addr", cfg.Server.Addr, "scorer", a.Engine.Name())
	runErr := a.Run(ctx)
	if err := a.Close(); err != nil {
		log.Error("shutdown", "error", err)
	}
	if runErr != nil {
		log.Error("server stopped", "error", runErr)
		os.Exit(1)
	}
}
