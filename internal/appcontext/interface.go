// Package appcontext provides the shared application context interface
// used by all commands.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack"
)

// Interface defines what commands need from the application. The App in
// cmd/parceltrack/app implements it; tests use Mock.
type Interface interface {
	// Client returns the started client, creating it lazily. The persisted
	// session is restored on first use.
	Client(ctx context.Context) (parceltrack.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
