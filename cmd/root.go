// Package cmd holds the journal command line: the HTTP server and a few
// commands that work on the configured store directly.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"journal/config"
	"journal/internal/note/service"
	"journal/store"
)

type options struct {
	configPath string
}

// NewRootCmd builds the command tree. Running it without a subcommand serves HTTP.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "journal",
		Short:         "Single-user note journal with a JSON file store",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (default $JOURNAL_CONFIG)")

	root.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newDeleteCmd(opts),
		newCategoriesCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openService loads configuration and opens the store without an event
// publisher. The caller closes the returned store.
func openService(ctx context.Context, opts *options) (*service.NoteService, store.Store, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.DSN)
	if err != nil {
		return nil, nil, err
	}
	return service.NewNoteService(st, nil), st, nil
}
