package internal

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifemirror/lifemirror/internal/clock"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
	clock      clock.Clock
	logOutput  io.Writer

	// notifySignals subscribes c to the shutdown signals.
	notifySignals func(c chan<- os.Signal)
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath sets the file the configuration was loaded from. When set,
// changes to its log level are applied without a restart.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}

// WithClock overrides the clock that decides "today".
func WithClock(c clock.Clock) Option {
	return func(a *application) {
		a.clock = c
	}
}

// WithLogOutput redirects the JSON log. Defaults to stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.clock == nil {
		app.clock = clock.System{}
	}
	if app.logOutput == nil {
		app.logOutput = os.Stdout
	}
	if app.notifySignals == nil {
		app.notifySignals = func(c chan<- os.Signal) {
			signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		}
	}
	return app, nil
}
