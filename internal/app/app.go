// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app is the composition root of the client.

Every long-lived collaborator (token store, session, request pipeline,
resource services) is constructed exactly once here and handed to its users
explicitly. Nothing is reached through package-level state.

# Startup Sequence

 1. Open the credential storage selected by configuration.
 2. Rehydrate the token store (a stale token is discarded).
 3. Derive the session and build the request pipeline.
 4. Construct the resource services over the pipeline.
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/expensa/internal/advance"
	"github.com/taibuivan/expensa/internal/dashboard"
	"github.com/taibuivan/expensa/internal/department"
	"github.com/taibuivan/expensa/internal/expense"
	"github.com/taibuivan/expensa/internal/platform/config"
	"github.com/taibuivan/expensa/internal/platform/migration"
	"github.com/taibuivan/expensa/internal/platform/notify"
	pgstore "github.com/taibuivan/expensa/internal/platform/postgres"
	"github.com/taibuivan/expensa/internal/platform/reactive"
	redisstore "github.com/taibuivan/expensa/internal/platform/redis"
	"github.com/taibuivan/expensa/internal/project"
	"github.com/taibuivan/expensa/internal/session"
	"github.com/taibuivan/expensa/internal/transport"
	"github.com/taibuivan/expensa/internal/user"
)

// # Wiring

// Options are the collaborators the front end supplies.
type Options struct {
	Notifier  notify.Notifier
	Navigator notify.Navigator

	// Base is the innermost round tripper. Nil means the default transport.
	Base http.RoundTripper

	// Clock replaces the wall clock used for session expiry.
	Clock func() time.Time
}

// App holds the assembled client.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Tokens  *session.TokenStore
	Session *session.Session
	Client  *transport.Client

	Auth        *session.AuthService
	Expenses    *expense.Service
	Advances    *advance.Service
	Users       *user.Service
	Projects    *project.Service
	Departments *department.Service
	Dashboard   *dashboard.Service

	closers []func() error
}

// New assembles the client from cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, options Options) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	// ── 1. Credential Storage ─────────────────────────────────────────────
	storage, closeStorage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStorage)

	// ── 2. Token Store ────────────────────────────────────────────────────
	app.Tokens = session.NewTokenStore(storage, logger)
	if err := app.Tokens.Initialize(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("app: rehydrate token: %w", err)
	}

	// ── 3. Session ────────────────────────────────────────────────────────
	var sessionOptions []session.Option
	if options.Clock != nil {
		sessionOptions = append(sessionOptions, session.WithClock(options.Clock))
	}
	app.Session = session.New(app.Tokens, reactive.NewScheduler(), logger, sessionOptions...)
	app.closers = append(app.closers, func() error {
		app.Session.Close()
		return nil
	})

	// ── 4. Request Pipeline ───────────────────────────────────────────────
	app.Client, err = transport.NewClient(transport.Options{
		Prefix:         cfg.APIPrefix,
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.HTTPTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Base:           options.Base,
	}, transport.Dependencies{
		Tokens:    app.Tokens,
		Remover:   app.Tokens,
		Notifier:  options.Notifier,
		Navigator: options.Navigator,
		Logger:    logger,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	// ── 5. Resource Services ──────────────────────────────────────────────
	app.Auth = session.NewAuthService(app.Client, app.Tokens, options.Navigator, logger)
	app.Expenses = expense.NewService(app.Client, options.Notifier)
	app.Advances = advance.NewService(app.Client, options.Notifier)
	app.Users = user.NewService(app.Client, options.Notifier)
	app.Projects = project.NewService(app.Client, options.Notifier)
	app.Departments = department.NewService(app.Client, options.Notifier)
	app.Dashboard = dashboard.NewService(app.Client, options.Notifier)

	logger.Debug("app_assembled", slog.String("token_backend", string(cfg.TokenBackend)))
	return app, nil
}

// Close releases the storage connection and detaches the session effects.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

// # Storage Selection

// OpenStorage opens the credential slot selected by cfg.TokenBackend.
// The returned closer is never nil.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.TokenBackend {
	case config.BackendMemory:
		return session.NewMemoryStorage(""), noop, nil

	case config.BackendFile:
		path, err := cfg.ResolvedTokenPath()
		if err != nil {
			return nil, nil, err
		}
		return session.NewFileStorage(path, cfg.TokenKey), noop, nil

	case config.BackendSQLite:
		path, err := cfg.ResolvedTokenPath()
		if err != nil {
			return nil, nil, err
		}
		storage, err := session.OpenSQLiteStorage(ctx, path, cfg.TokenKey)
		if err != nil {
			return nil, nil, err
		}
		return storage, storage.Close, nil

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStorage(client, cfg.TokenKey), client.Close, nil

	case config.BackendPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return session.NewPostgresStorage(pool, cfg.TokenKey), func() error {
			pool.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("app: unknown token backend %q", cfg.TokenBackend)
	}
}
