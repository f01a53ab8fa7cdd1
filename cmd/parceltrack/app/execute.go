package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/parceltrack/parceltrack/internal/cmd/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
)

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	var configFile string
	flags := &Flags{}

	rootCmd := &cobra.Command{
		Use:     "parceltrack",
		Short:   "ParcelTrack live notifications CLI",
		Version: a.version,
		Long: `parceltrack signs in to a ParcelTrack backend, keeps a live connection
for the session and shows parcel notifications as they happen.

The session is remembered between runs (in ~/.parceltrack/state.db by
default) so 'watch' and the other commands reuse the last login.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(configFile, *flags)
		},
	}

	rootCmd.AddGroup(&cobra.Group{ID: "session", Title: "Session Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "live", Title: "Live Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default is $HOME/.parceltrack.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.Format, "format", "o", "", "output format: table, json, yaml, wide")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&flags.APIURL, "api-url", "", "REST base URL (overrides $PARCELTRACK_API_URL)")
	pf.StringVar(&flags.SocketURL, "socket-url", "", "live event server URL (overrides $PARCELTRACK_SOCKET_URL)")
	pf.StringVar(&flags.Storage, "storage", "", "session storage: sqlite, keyring or memory")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return constants.Formats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("storage", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return constants.StorageKinds, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.SetVersionTemplate("parceltrack {{.Version}}\n")
	if a.in != nil {
		rootCmd.SetIn(a.in)
	}
	if a.out != nil {
		rootCmd.SetOut(a.out)
		rootCmd.SetErr(a.out)
	}

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs. It re-reads an explicit
// config file, applies flags and rebuilds the logger.
func (a *App) setupCommand(configFile string, flags Flags) error {
	if configFile != "" {
		cfg, err := LoadConfig(configFile)
		if err != nil {
			return errors.WrapResource("load", "config", configFile, err)
		}
		a.config = cfg
	}
	a.config.UpdateFromFlags(flags)
	if err := a.config.Validate(); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// ExitOnError prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
