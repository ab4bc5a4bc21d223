package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	httpapi "github.com/aussiebroadwan/clima/internal/clima/http"
	"github.com/aussiebroadwan/clima/internal/clima/service"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/internal/clima/weather"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
	"github.com/aussiebroadwan/clima/pkg/httpx"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

const ServiceName = "api-clima"

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "1.0.0"

// Application holds the clima service and its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	cipher *cryptox.FieldCipher
	hasher *cryptox.PasswordHasher
	db     store.Store

	sessionService *service.SessionService
	accountService *service.AccountService
	privacyService *service.PrivacyService
	weather        *weather.Client

	metrics *httpx.Metrics
	server  *http.Server
	router  *httpapi.Router
}

// New creates an Application. It fails when a secret is missing or the store
// cannot be opened.
func New(cfg Config) (*Application, error) {
	return NewWithLogger(cfg, slogx.New(slogx.Config{
		Service: ServiceName,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}))
}

// NewWithLogger is New with a caller supplied logger.
func NewWithLogger(cfg Config, logger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{cfg: cfg, logger: logger}

	var err error
	if app.cipher, err = InitCipher(cfg.Crypto, logger); err != nil {
		return nil, err
	}
	if app.hasher, err = InitHasher(cfg.Crypto); err != nil {
		return nil, err
	}
	if app.sessionService, err = InitSessions(cfg.JWT, app.cipher); err != nil {
		return nil, err
	}

	ctx := slogx.WithContext(context.Background(), logger)
	if app.db, err = OpenStore(ctx, cfg.Store, app.cipher, logger); err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	if n, err := app.db.Users().Count(ctx); err == nil {
		logger.Info("user store ready", "driver", cfg.Store.Driver, "users", n)
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler is the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("clima service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.closeStore()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, flushes the store and closes it.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down clima service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
		}
	}

	if err := app.db.Persist(ctx); err != nil {
		app.logger.Error("final store flush failed", slogx.Err(err))
	}

	if err := app.closeStore(); err != nil {
		return err
	}

	app.logger.Info("clima service stopped")
	return nil
}

func (app *Application) closeStore() error {
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", slogx.Err(err))
		return err
	}
	return nil
}

func (app *Application) initServices() {
	app.accountService = &service.AccountService{
		Store:         app.db,
		Cipher:        app.cipher,
		Hasher:        app.hasher,
		Sessions:      app.sessionService,
		PolicyVersion: app.cfg.Privacy.Version,
	}

	app.privacyService = &service.PrivacyService{
		Store:  app.db,
		Cipher: app.cipher,
		PolicyDoc: domain.Policy{
			Version:   app.cfg.Privacy.Version,
			UpdatedAt: app.cfg.Privacy.UpdatedAt,
			URL:       app.cfg.Privacy.PolicyURL,
			Summary:   app.cfg.Privacy.Summary,
		},
	}

	app.weather = weather.NewClient(app.cfg.Weather.BaseURL, app.cfg.Weather.APIKey)
	if !app.weather.Configured() {
		app.logger.Warn("OPENWEATHER_API_KEY not set, /v1/weather will answer 503")
	}
}

func (app *Application) initHTTP() {
	app.metrics = httpx.NewMetrics("clima")

	router := httpapi.NewRouter(
		ServiceName,
		BuildVersion,
		app.db,
		app.cfg.RateLimit.Limits(),
		app.metrics,
		app.logger,
	)

	router.AccountService = app.accountService
	router.PrivacyService = app.privacyService
	router.SessionService = app.sessionService
	router.Weather = app.weather
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
