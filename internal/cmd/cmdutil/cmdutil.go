// Package cmdutil holds helpers shared by the CLI commands.
package cmdutil

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/cmd/alerts"
	"github.com/parceltrack/parceltrack/internal/cmd/output"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Presenter is the part of the app context that controls output.
type Presenter interface {
	OutputFormat() string
	NoColor() bool
}

// Printer returns a printer for the command's stdout.
func Printer(app Presenter, cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), app.OutputFormat())
}

// Alerts returns an alert writer for the command's stdout.
func Alerts(app Presenter, cmd *cobra.Command) *alerts.Writer {
	p := Printer(app, cmd)
	return alerts.NewWriter(p.W, p.Format, app.NoColor())
}

// RequireSession returns the active session or an error telling the user
// to log in.
func RequireSession(client parceltrack.Client) (types.Session, error) {
	sess, ok := client.Session()
	if !ok {
		return types.Session{}, fmt.Errorf("not logged in, run 'parceltrack login' first: %w", errors.ErrNoSession)
	}
	return sess, nil
}

// WaitLive blocks until the live connection is up, bounded by timeout.
func WaitLive(ctx context.Context, client parceltrack.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.WaitConnected(ctx); err != nil {
		return fmt.Errorf("live connection not available: %w", err)
	}
	return nil
}
