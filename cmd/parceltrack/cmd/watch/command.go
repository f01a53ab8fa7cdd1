// Package watch provides the watch command, which stays connected and shows
// notifications as they arrive.
package watch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/cmd/alerts"
	"github.com/parceltrack/parceltrack/internal/cmd/cmdutil"
	"github.com/parceltrack/parceltrack/internal/cmd/output"
	"github.com/parceltrack/parceltrack/pkg/state"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// AppContext defines what the watch command needs from the app.
type AppContext interface {
	Client(ctx context.Context) (parceltrack.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
	NoColor() bool
}

const (
	clearScreen     = "\033[H\033[2J"
	refreshInterval = 2 * time.Second
)

// NewCommand creates the watch command.
func NewCommand(app AppContext) *cobra.Command {
	var stream bool
	opts := DefaultViewOptions

	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: "live",
		Short:   "Stay connected and show notifications live",
		Long: `Watch keeps the live connection open until interrupted. On a terminal it
redraws a dashboard on every change; otherwise, or with --stream, it prints
one line (or one JSON/YAML document) per new notification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := cmdutil.RequireSession(client); err != nil {
				return err
			}
			if err := client.LoadParcels(cmd.Context()); err != nil {
				app.Logger().Warn().Err(err).Msg("Failed to load parcels")
			}

			p := cmdutil.Printer(app, cmd)
			if stream || !p.Format.IsTable() || !output.IsTerminal(p.W) {
				return Stream(cmd.Context(), client, cmdutil.Alerts(app, cmd))
			}
			return Dashboard(cmd.Context(), client, p.W, opts)
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "print new notifications line by line")
	cmd.Flags().IntVar(&opts.MaxNotifications, "max", opts.MaxNotifications, "notifications shown in the dashboard")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "dashboard width")
	return cmd
}

// Stream writes every new notification until ctx ends.
func Stream(ctx context.Context, client parceltrack.Client, w *alerts.Writer) error {
	client.OnNotification(func(n types.Notification) {
		_ = w.Write(alerts.FromNotification(n))
	})
	client.OnSessionChanged(func(s *types.Session) {
		if s == nil {
			_ = w.Write(alerts.NewWarning("Session ended"))
		}
	})
	<-ctx.Done()
	return nil
}

// Dashboard redraws the view on every state change until ctx ends.
func Dashboard(ctx context.Context, client parceltrack.Client, w io.Writer, opts ViewOptions) error {
	dirty := make(chan struct{}, 1)
	unsubscribe := client.Subscribe(func(state.Change) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		if _, err := fmt.Fprint(w, clearScreen+View(client.State(), client.Connection(), opts)+"\n"); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-dirty:
		case <-ticker.C:
		}
	}
}
