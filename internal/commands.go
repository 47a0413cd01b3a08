package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lifemirror/lifemirror/internal/export"
	"github.com/lifemirror/lifemirror/internal/identity"
	"github.com/lifemirror/lifemirror/internal/mcpserver"
)

// RunMCP serves the MCP tools on stdin/stdout acting as owner. Logs go to
// stderr since stdout carries the protocol.
func RunMCP(_ context.Context, owner string, opts ...Option) error {
	if owner == "" {
		return errors.New("owner is required")
	}
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	logger := newLogger(app, new(slog.LevelVar))
	slog.SetDefault(logger)

	c, err := openCore(app.config, app.clock, nil)
	if err != nil {
		return err
	}
	defer c.close(logger)

	logger.Info("MCP server starting", slog.String("owner", owner))
	if err := mcpserver.New(c.services, c.agg, owner).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// Export writes a YAML snapshot of owner's data into dir.
func Export(ctx context.Context, owner, dir string, opts ...Option) (*export.Manifest, error) {
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	logger := newLogger(app, new(slog.LevelVar))

	out, err := export.NewDir(dir)
	if err != nil {
		return nil, err
	}

	c, err := openCore(app.config, app.clock, nil)
	if err != nil {
		return nil, err
	}
	defer c.close(logger)

	exp := export.New(c.agg, export.Sources{
		Habits:       c.services.Habits,
		SavingsGoals: c.services.Savings,
	})
	manifest, err := exp.Export(ctx, owner, out)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	logger.Info("Export written",
		slog.String("owner", owner),
		slog.String("dir", out.Root()),
		slog.Int("files", len(manifest.Files)))
	return manifest, nil
}

// IssueToken mints a bearer token for subject with the configured secret.
func IssueToken(cfg *Config, subject string, ttl time.Duration) (string, error) {
	if !cfg.Auth.AuthEnabled() {
		return "", errors.New("tokens are only used when auth mode is jwt")
	}
	return identity.NewJWT(cfg.Auth.Secret, cfg.Auth.Issuer).Issue(subject, ttl)
}
