// Package cli implements notectl, a command-line front end to the node store.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"notestore/internal/bootstrap"
	"notestore/internal/domain/models"
)

// Execute runs notectl with args. The store is opened before the subcommand
// runs and closed when it returns, whether or not it failed.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	var store *bootstrap.Store
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	rootCmd := NewRootCmd(&store)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd builds the notectl command tree. Its pre-run hook opens the
// configured store into *store; the caller closes it.
func NewRootCmd(store **bootstrap.Store) *cobra.Command {
	var (
		cfgFile string
		verbose bool
		asJSON  bool
	)

	rootCmd := &cobra.Command{
		Use:           "notectl",
		Short:         "Inspect and edit a note store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			cfg, err := storeConfig(v, cmd)
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			*store, err = bootstrap.Open(cmd.Context(), cfg, logger)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/notestore/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print machine-readable JSON")
	bindStoreFlags(rootCmd)

	out := &printer{json: &asJSON}

	rootCmd.AddCommand(
		NewLsCmd(store, out),
		NewCatCmd(store),
		NewWriteCmd(store),
		NewTouchCmd(store, out),
		NewMkdirCmd(store, out),
		NewRmCmd(store),
		NewMvCmd(store),
		NewStatCmd(store, out),
		NewRenameCmd(store),
		NewTreeCmd(store, out),
		NewImportCmd(store, out),
	)

	return rootCmd
}

// parseParent accepts a node id or "root"
func parseParent(arg string) (*models.NodeID, error) {
	if arg == "" || arg == "root" || arg == "/" {
		return nil, nil
	}
	id, err := models.ParseNodeID(arg)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
