// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/lifemirror/lifemirror/internal/api"
	"github.com/lifemirror/lifemirror/internal/confwatch"
	"github.com/lifemirror/lifemirror/internal/identity"
	"github.com/lifemirror/lifemirror/internal/metrics"
	"github.com/lifemirror/lifemirror/internal/sse"
	"github.com/lifemirror/lifemirror/internal/store"
	pkgconfig "github.com/lifemirror/lifemirror/pkg/config"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	level := new(slog.LevelVar)
	logger := newLogger(app, level)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.DashboardThrottle)
	defer broker.Close()

	c, err := openCore(cfg, app.clock, broker)
	if err != nil {
		return err
	}
	defer c.close(logger)

	m := metrics.New()
	c.agg.SetObserver(m)

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return err
	}
	if !cfg.Auth.AuthEnabled() {
		logger.Warn("Authentication disabled, every request acts as the dev owner",
			slog.String("owner", cfg.Auth.DevOwner))
	}

	handler := newHandler(c, verifier, broker, m)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	// Cancelled once the server has shut down so long-running workers such as
	// the config watcher return and Wait can complete.
	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()
	g, gCtx := errgroup.WithContext(runCtx)

	// Apply log level changes from the config file.
	if app.configPath != "" {
		w, err := confwatch.New(app.configPath, level, func() (slog.Level, error) {
			next := NewDefaultConfig()
			if err := pkgconfig.Load(app.configPath, next); err != nil {
				return 0, err
			}
			return next.App.LogLevel, nil
		}, logger)
		if err != nil {
			logger.Warn("config watcher disabled", slog.String("error", err.Error()))
		} else {
			g.Go(func() error {
				return w.Run(gCtx)
			})
		}
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		app.notifySignals(quit)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Event streams never finish on their own.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		stopRun()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func newVerifier(cfg AuthConfig) (identity.Verifier, error) {
	switch cfg.Mode {
	case AuthModeDisabled:
		return identity.Static{Owner: cfg.DevOwner}, nil
	case AuthModeJWT, "":
		return identity.NewJWT(cfg.Secret, cfg.Issuer), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// newHandler builds the root router: health and metrics endpoints are
// unauthenticated, everything under /api requires a verified owner.
func newHandler(c *core, verifier identity.Verifier, events http.Handler, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", readyHandler(c.db))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Mount("/api", api.NewRouter(api.Deps{
		Services:  c.services,
		Dashboard: c.agg,
		Verifier:  verifier,
		Events:    events,
	}))

	return r
}

func readyHandler(db *store.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Warn("readiness check failed", slog.String("error", err.Error()))
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, status)
}
