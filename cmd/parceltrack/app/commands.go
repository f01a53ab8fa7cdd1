package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/parceltrack/parceltrack/cmd/parceltrack/cmd/auth"
	"github.com/parceltrack/parceltrack/cmd/parceltrack/cmd/emit"
	"github.com/parceltrack/parceltrack/cmd/parceltrack/cmd/notifications"
	"github.com/parceltrack/parceltrack/cmd/parceltrack/cmd/parcels"
	"github.com/parceltrack/parceltrack/cmd/parceltrack/cmd/watch"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Session commands
	rootCmd.AddCommand(auth.NewLoginCommand(a))
	rootCmd.AddCommand(auth.NewLogoutCommand(a))
	rootCmd.AddCommand(auth.NewWhoamiCommand(a))

	// Core commands
	rootCmd.AddCommand(notifications.NewCommand(a))
	rootCmd.AddCommand(parcels.NewCommand(a))

	// Live commands
	rootCmd.AddCommand(watch.NewCommand(a))
	rootCmd.AddCommand(emit.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "parceltrack version %s\n", a.version)
			fmt.Fprintf(w, "commit: %s\n", a.commit)
			fmt.Fprintf(w, "built: %s\n", a.date)
			fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
