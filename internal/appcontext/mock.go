package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/logging"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding field.
// If a field is unset, the method returns a default/zero value.
type Mock struct {
	ClientFunc func(ctx context.Context) (parceltrack.Client, error)
	LoggerFunc func() *zerolog.Logger
	Format     string
	Colorless  bool
	VersionStr string
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// Client returns a client using the mock function or an error.
func (m *Mock) Client(ctx context.Context) (parceltrack.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(ctx)
	}
	return nil, errors.ErrNoSession
}

// Logger returns a logger using the mock function or a nop logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns the configured format.
func (m *Mock) OutputFormat() string {
	return m.Format
}

// NoColor reports whether color is disabled.
func (m *Mock) NoColor() bool {
	return m.Colorless
}

// Version returns the configured version or "test".
func (m *Mock) Version() string {
	if m.VersionStr != "" {
		return m.VersionStr
	}
	return "test"
}

// Commit returns "test".
func (m *Mock) Commit() string {
	return "test"
}

// Date returns "test".
func (m *Mock) Date() string {
	return "test"
}

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string {
	return "test"
}
