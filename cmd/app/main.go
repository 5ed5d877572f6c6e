package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courieragent/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env file is fine; production deployments configure the
	// process environment directly.
	_ = godotenv.Load(".env")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	root, err := cmd.NewCompositionRoot(config, logger)
	if err != nil {
		log.Fatalf("Error building the application: %v", err)
	}

	if err := root.Monitor().Start(); err != nil {
		log.Fatalf("Error starting the connectivity monitor: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	root.CreateServer().Register(e)

	go func() {
		if err := e.Start(config.HTTPListenAddr); err != nil {
			logger.Info("Control API stopped", "error", err)
		}
	}()
	logger.Info("Agent started", "listen", config.HTTPListenAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := root.Agent().Shutdown(ctx); err != nil {
		logger.Error("Telemetry shutdown failed", "error", err)
	}
	root.Monitor().Stop()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Control API shutdown failed", "error", err)
	}
}
