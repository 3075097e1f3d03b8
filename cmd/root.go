// Package cmd holds the bookclub command line: the API server and the book
// import tool.
package cmd

import (
	"os"
	"time"

	"bookclub/internal/config"
	"bookclub/internal/database"
	"bookclub/internal/logging"

	"github.com/spf13/cobra"
)

var cfg config.Config

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookclub",
		Short:         "Book club API server and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
			return nil
		},
	}
	root.AddCommand(newServeCommand(), newImportBooksCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func databaseOptions(c config.Config) database.Options {
	return database.Options{
		Driver:          c.DBDriver,
		DSN:             c.DBDSN,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		LogQueries:      c.LogLevel == "debug",
	}
}
