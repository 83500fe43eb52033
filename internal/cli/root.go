package cli

import (
	"database/sql"
	"fmt"

	"github.com/devcheck/devcheck-be/internal/config"
	"github.com/devcheck/devcheck-be/internal/database"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "devcheck" command. Without a subcommand
// it serves the API.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	serve := newServeCmd(cfg)

	root := &cobra.Command{
		Use:           "devcheck",
		Short:         "Development checklist API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		newMigrateCmd(cfg),
		newCreateSuperuserCmd(cfg),
	)

	return root
}

// openDB opens the configured database with the schema applied.
func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying database migrations: %w", err)
	}
	return db, nil
}

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date\n", cfg.DatabasePath)
			return nil
		},
	}
}
