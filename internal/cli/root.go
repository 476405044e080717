// Package cli implements the qreader command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/EtsTest-AndroidApps/QReader/internal/config"
	"github.com/EtsTest-AndroidApps/QReader/internal/entrypoint"
)

type rootOptions struct {
	databasePath string
}

// NewRootCommand builds the qreader command tree. Running it without a
// subcommand starts the server.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "qreader",
		Short:         "Keep a reading library in sync with its chapter providers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.config(), version)
		},
	}
	root.PersistentFlags().StringVar(&opts.databasePath, "database", "", "database path (overrides DATABASE_PATH)")

	root.AddCommand(
		newServeCommand(opts, version),
		newBooksCommand(opts),
		newGroupsCommand(opts),
		newLastReadCommand(opts),
		newIndexCommand(opts),
		newVersionCommand(version),
	)
	return root
}

func (o *rootOptions) config() *config.Config {
	cfg := config.NewConfig()
	if o.databasePath != "" {
		cfg.Database.Path = o.databasePath
	}
	return cfg
}

// withApp opens the application for the duration of fn. The context passed
// to fn is cancelled on SIGINT or SIGTERM.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *entrypoint.App) error) error {
	app, err := entrypoint.NewApp(o.config())
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, app)
}

func newServeCommand(opts *rootOptions, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.config(), version)
		},
	}
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "version:", version)
		},
	}
}
