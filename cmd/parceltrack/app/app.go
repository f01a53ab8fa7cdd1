// Package app provides the application context and dependency management
// for the parceltrack CLI. It centralizes configuration, logging and the
// lifecycle of the live-sync client.
package app

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/appcontext"
	"github.com/parceltrack/parceltrack/internal/session"
	"github.com/parceltrack/parceltrack/pkg/errors"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the parceltrack CLI with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Command IO; nil means the process's standard streams
	in  io.Reader
	out io.Writer

	// Client and its storage (lazy-initialized, singleton)
	mu      sync.Mutex
	client  parceltrack.Client
	storage session.Storage
	extra   []parceltrack.Option
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Client returns the client, creating and starting it on first use.
func (a *App) Client(ctx context.Context) (parceltrack.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	storage, err := session.Open(session.Kind(a.config.Storage), session.Options{
		Path:       a.config.StatePath,
		KeyringDir: a.config.KeyringDir,
	})
	if err != nil {
		return nil, errors.WrapResource("open", "session storage", a.config.Storage, err)
	}

	opts := append([]parceltrack.Option{
		parceltrack.WithAPIURL(a.config.APIURL),
		parceltrack.WithSocketURL(a.config.SocketURL),
		parceltrack.WithStorage(storage),
		parceltrack.WithLogger(a.logger),
		parceltrack.WithHTTPClient(&http.Client{Timeout: a.config.HTTPTimeout}),
		parceltrack.WithDialTimeout(a.config.DialTimeout),
		parceltrack.WithArchive(a.config.ArchiveOnLogout),
	}, a.extra...)

	client, err := parceltrack.New(opts...)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	if err := client.Start(ctx); err != nil {
		_ = client.Close()
		_ = storage.Close()
		return nil, err
	}

	a.client = client
	a.storage = storage
	return client, nil
}

// Shutdown closes the client, waiting for pending acknowledgments, and
// then the session storage.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var first error
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			first = err
		}
		a.client = nil
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil && first == nil {
			first = err
		}
		a.storage = nil
	}
	return first
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClientOptions appends options to every client the app creates
// (useful for testing).
func WithClientOptions(opts ...parceltrack.Option) Option {
	return func(a *App) error {
		a.extra = append(a.extra, opts...)
		return nil
	}
}

// WithIO redirects command input and output (useful for testing).
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) error {
		a.in = in
		a.out = out
		return nil
	}
}
