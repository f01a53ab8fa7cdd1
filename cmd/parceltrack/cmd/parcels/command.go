// Package parcels provides the parcels command and its subcommands.
package parcels

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/cmd/cmdutil"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// AppContext defines what the parcel commands need from the app.
type AppContext interface {
	Client(ctx context.Context) (parceltrack.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
	NoColor() bool
}

// NewCommand creates the parcels command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parcels",
		Aliases: []string{"parcel", "p"},
		GroupID: "core",
		Short:   "Look up parcels",
		Long: `Parcels lists the parcels relevant to the signed-in user: every parcel
for admins, assigned parcels for agents and booked parcels for customers.`,
		Example: `  parceltrack parcels list --status in_transit
  parceltrack parcels track PT-20240501-0042
  parceltrack parcels stats`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newTrackCommand(app))
	cmd.AddCommand(newShowCommand(app))
	cmd.AddCommand(newStatsCommand(app))
	return cmd
}

func newListCommand(app AppContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your parcels",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" && !types.ParcelStatus(status).Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.LoadParcels(cmd.Context()); err != nil {
				return err
			}

			list := client.Parcels()
			if status != "" {
				list = slices.DeleteFunc(list, func(p types.Parcel) bool {
					return p.Status != types.ParcelStatus(status)
				})
			}
			return cmdutil.Printer(app, cmd).Parcels(list)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only parcels in this status")
	return cmd
}

func newTrackCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "track <tracking-number>",
		Short: "Look a parcel up by tracking number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			p, err := client.TrackParcel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdutil.Printer(app, cmd).Parcel(p)
		},
	}
}

func newShowCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one parcel by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := cmdutil.RequireSession(client); err != nil {
				return err
			}
			p, err := client.API().GetParcel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cmdutil.Printer(app, cmd).Parcel(p)
		},
	}
}

func newStatsCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show parcel counters (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := cmdutil.RequireSession(client)
			if err != nil {
				return err
			}
			if sess.Role() != types.RoleAdmin {
				return fmt.Errorf("statistics are only available to admins")
			}
			stats, err := client.API().Statistics(cmd.Context())
			if err != nil {
				return err
			}
			return cmdutil.Printer(app, cmd).Statistics(stats)
		},
	}
}
