package internal

import (
	"fmt"
	"log/slog"

	"github.com/lifemirror/lifemirror/internal/clock"
	"github.com/lifemirror/lifemirror/internal/dashboard"
	"github.com/lifemirror/lifemirror/internal/service"
	"github.com/lifemirror/lifemirror/internal/store"
)

// core is the storage, services and aggregator shared by every command.
type core struct {
	db       *store.DB
	services *service.Services
	agg      *dashboard.Aggregator
}

func openCore(cfg *Config, clk clock.Clock, n service.Notifier) (*core, error) {
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	svc := service.New(db, clk, n)
	agg := dashboard.New(dashboard.Sources{
		Tasks:       svc.Tasks,
		Bills:       svc.Bills,
		Assets:      svc.Assets,
		FitnessLogs: svc.Fitness,
		MoodLogs:    svc.Moods,
	}, clk)
	return &core{db: db, services: svc, agg: agg}, nil
}

func (c *core) close(logger *slog.Logger) {
	if err := c.db.Close(); err != nil {
		logger.Error("close store", slog.String("error", err.Error()))
	}
}

func newLogger(app *application, level *slog.LevelVar) *slog.Logger {
	level.Set(app.config.App.LogLevel)
	return slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: level,
	}))
}
