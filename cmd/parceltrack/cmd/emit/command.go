// Package emit provides commands that send live events to the server.
package emit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/cmd/alerts"
	"github.com/parceltrack/parceltrack/internal/cmd/cmdutil"
	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// AppContext defines what the emit commands need from the app.
type AppContext interface {
	Client(ctx context.Context) (parceltrack.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
	NoColor() bool
}

// NewCommand creates the emit command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "emit",
		GroupID: "live",
		Short:   "Send a live event",
		Long: `Emit opens the live connection for the signed-in user and sends one
event. Nothing is queued: the command fails when the connection cannot be
established.`,
		Example: `  parceltrack emit status 665f1c2e9b1d8a0012a4b7c3 delivered
  parceltrack emit location 665f1c2e9b1d8a0012a4b7c3 23.8103 90.4125
  parceltrack emit agent-status online
  parceltrack emit inquiry 665f1c2e9b1d8a0012a4b7c3 "Where is my parcel?"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newLocationCommand(app))
	cmd.AddCommand(newAgentStatusCommand(app))
	cmd.AddCommand(newInquiryCommand(app))
	return cmd
}

// run connects, sends and reports one event.
func run(app AppContext, cmd *cobra.Command, what string, send func(parceltrack.Emitter) error) error {
	client, err := app.Client(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := cmdutil.RequireSession(client); err != nil {
		return err
	}
	if err := cmdutil.WaitLive(cmd.Context(), client, constants.DefaultDialTimeout); err != nil {
		return err
	}
	if err := send(client); err != nil {
		return err
	}
	return cmdutil.Alerts(app, cmd).Write(alerts.NewSuccess("Sent " + what))
}

func newStatusCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:       "status <parcel-id> <status>",
		Short:     "Report a parcel status change",
		Args:      cobra.ExactArgs(2),
		ValidArgs: statusNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := types.ParcelStatus(args[1])
			if !status.Valid() {
				return fmt.Errorf("unknown status %q, want one of %s", args[1], strings.Join(statusNames(), ", "))
			}
			return run(app, cmd, "status update", func(e parceltrack.Emitter) error {
				return e.EmitStatusUpdate(args[0], status)
			})
		},
	}
}

func newLocationCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "location <parcel-id> <lat> <lng>",
		Short: "Report a parcel's position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[1], err)
			}
			lng, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[2], err)
			}
			return run(app, cmd, "location update", func(e parceltrack.Emitter) error {
				return e.EmitLocationUpdate(args[0], lat, lng)
			})
		},
	}
}

func newAgentStatusCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:       "agent-status online|offline",
		Short:     "Announce going on or offline",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"online", "offline"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var online bool
			switch args[0] {
			case "online":
				online = true
			case "offline":
			default:
				return fmt.Errorf("want online or offline, got %q", args[0])
			}
			return run(app, cmd, "agent status", func(e parceltrack.Emitter) error {
				return e.EmitAgentStatus(online)
			})
		},
	}
}

func newInquiryCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inquiry <parcel-id> <message>...",
		Short: "Ask about a parcel",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args[1:], " ")
			return run(app, cmd, "inquiry", func(e parceltrack.Emitter) error {
				return e.EmitCustomerInquiry(args[0], message)
			})
		},
	}
}

func statusNames() []string {
	names := make([]string, len(types.ParcelStatuses))
	for i, s := range types.ParcelStatuses {
		names[i] = string(s)
	}
	return names
}
