// Package notifications provides the notifications command and its
// subcommands.
package notifications

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/cmd/alerts"
	"github.com/parceltrack/parceltrack/internal/cmd/cmdutil"
	"github.com/parceltrack/parceltrack/pkg/notifications"
)

// AppContext defines what the notification commands need from the app.
type AppContext interface {
	Client(ctx context.Context) (parceltrack.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
	NoColor() bool
}

// NewCommand creates the notifications command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif", "n"},
		GroupID: "core",
		Short:   "List and acknowledge notifications",
		Long: `Notifications shows the notification history of the signed-in user and
marks entries as read. Marking is applied locally at once and sent to the
backend in the background.`,
		Example: `  parceltrack notifications list --unread
  parceltrack notifications read 665f1c2e9b1d8a0012a4b7c3
  parceltrack notifications read-all
  parceltrack notifications archive --limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newReadCommand(app))
	cmd.AddCommand(newReadAllCommand(app))
	cmd.AddCommand(newArchiveCommand(app))
	return cmd
}

func newListCommand(app AppContext) *cobra.Command {
	var unread, read bool
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notifications, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := notifications.FilterAll
			switch {
			case unread && read:
				return fmt.Errorf("--unread and --read are mutually exclusive")
			case unread:
				filter = notifications.FilterUnread
			case read:
				filter = notifications.FilterRead
			}

			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := cmdutil.RequireSession(client); err != nil {
				return err
			}

			records := client.Notifications(filter)
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			return cmdutil.Printer(app, cmd).Notifications(records)
		},
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	cmd.Flags().BoolVar(&read, "read", false, "only read notifications")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many")
	return cmd
}

func newReadCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>...",
		Short: "Mark notifications as read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := cmdutil.RequireSession(client); err != nil {
				return err
			}

			w := cmdutil.Alerts(app, cmd)
			for _, id := range args {
				a := alerts.NewSuccess("Marked " + id + " as read")
				if !client.MarkRead(cmd.Context(), id) {
					a = alerts.NewWarning(id + " is unknown or already read")
				}
				if err := w.Write(a); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newReadAllCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := cmdutil.RequireSession(client); err != nil {
				return err
			}
			n := client.MarkAllRead(cmd.Context())
			return cmdutil.Alerts(app, cmd).Write(
				alerts.NewSuccess(fmt.Sprintf("Marked %d notification(s) as read", n)))
		},
	}
}

func newArchiveCommand(app AppContext) *cobra.Command {
	var user string
	var limit int

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Show notifications archived at logout",
		Long: `Archive lists notifications saved locally when a user logged out. It
defaults to the signed-in user; --user reads another user's archive on
this machine. Only the sqlite storage keeps an archive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			if user == "" {
				sess, err := cmdutil.RequireSession(client)
				if err != nil {
					return err
				}
				user = sess.UserID()
			}
			records, err := client.Archived(cmd.Context(), user, limit)
			if err != nil {
				return err
			}
			return cmdutil.Printer(app, cmd).Notifications(records)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id whose archive to show")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many")
	return cmd
}
