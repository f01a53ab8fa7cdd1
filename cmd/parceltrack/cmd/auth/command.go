// Package auth provides the login, logout and whoami commands.
package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/cmd/alerts"
	"github.com/parceltrack/parceltrack/internal/cmd/cmdutil"
	"github.com/parceltrack/parceltrack/pkg/constants"
)

// AppContext defines what the auth commands need from the app.
type AppContext interface {
	Client(ctx context.Context) (parceltrack.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
	NoColor() bool
}

// PasswordEnv is read when --password is not given.
const PasswordEnv = "PARCELTRACK_PASSWORD"

// NewLoginCommand creates the login command.
func NewLoginCommand(app AppContext) *cobra.Command {
	var user, password string

	cmd := &cobra.Command{
		Use:     "login",
		GroupID: "session",
		Short:   "Sign in and remember the session",
		Long: `Login authenticates with the ParcelTrack backend and persists the
session so later commands and 'watch' reuse it.

The password is taken from --password, then $PARCELTRACK_PASSWORD, then
the first line of standard input.`,
		Example: `  parceltrack login -u carol@example.com
  echo "$PW" | parceltrack login -u +8801700000000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			if password == "" {
				password = os.Getenv(PasswordEnv)
			}
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
			}

			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.Login(cmd.Context(), user, password); err != nil {
				return err
			}
			sess, _ := client.Session()

			name := sess.User.Name
			if name == "" {
				name = sess.UserID()
			}
			return cmdutil.Alerts(app, cmd).Write(
				alerts.NewSuccess(fmt.Sprintf("Logged in as %s (%s)", name, sess.Role())).
					WithDetails(fmt.Sprintf("%d unread notification(s)", client.UnreadCount())),
			)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "email or phone number")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prefer $"+PasswordEnv+" or stdin)")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		GroupID: "session",
		Short:   "End the session and forget it",
		Long: `Logout ends the session on the backend, archives the local notification
list when the storage supports it and removes the persisted session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			w := cmdutil.Alerts(app, cmd)
			if _, ok := client.Session(); !ok {
				return w.Write(alerts.NewInfo("Not logged in"))
			}
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			return w.Write(alerts.NewSuccess("Logged out"))
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(app AppContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:     "whoami",
		GroupID: "session",
		Short:   "Show the signed-in user and connection state",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := cmdutil.RequireSession(client)
			if err != nil {
				return err
			}
			connected := false
			if !offline {
				if err := cmdutil.WaitLive(cmd.Context(), client, constants.DefaultDialTimeout); err != nil {
					app.Logger().Debug().Err(err).Msg("Live connection check failed")
				}
				connected = client.Connection().Connected
			}
			return cmdutil.Printer(app, cmd).Session(sess, connected)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip the live connection check")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("no password given")
	}
	return line, nil
}
