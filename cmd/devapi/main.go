// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command devapi serves the Expensa backend contract from memory for local runs.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Seed the in-memory store.
//  4. Wire HTTP handlers.
//  5. Start HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/expensa/internal/devapi"
	"github.com/taibuivan/expensa/internal/platform/config"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.LoadServer()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 3. Data ───────────────────────────────────────────────────────────
	store := devapi.NewStore()
	must(log, devapi.Seed(store, bcrypt.DefaultCost), "seed store")

	log.Info("store_seeded",
		slog.String("admin", devapi.AdminEmail),
		slog.String("employee", devapi.EmployeeEmail),
	)

	// ── 4. Wiring ─────────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	liveness, readiness := devapi.NewHealthHandlers(devapi.HealthDependencies{
		CheckStore: func() error { return store.Ping(context.Background()) },
	}, log)

	server := devapi.NewServer(ctx, cfg, log, tokens, devapi.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		API:       devapi.NewHandler(store, tokens, cfg.JWTTTL, bcrypt.DefaultCost),
	})

	// ── 5. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName+"-devapi"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is limited to startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure", slog.String("step", step), slog.Any("error", err))
		os.Exit(1)
	}
}
