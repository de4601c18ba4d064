package main

import (
	"fmt"

	"github.com/mikelady/voicegit/internal/config"
	"github.com/mikelady/voicegit/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	var createDB bool

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the Postgres schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			ctx := cmd.Context()
			a, err := loadApp(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.Store.Driver != config.StorePostgres {
				return fmt.Errorf("migrate needs the postgres store driver, got %q", a.cfg.Store.Driver)
			}

			if createDB {
				_, dbConfig, err := a.postgresConfig(ctx)
				if err != nil {
					return err
				}
				if dbConfig == nil {
					return fmt.Errorf("--create-db needs db_secret_name credentials")
				}
				if _, err := database.EnsureDatabaseExists(ctx, dbConfig, a.logger); err != nil {
					return err
				}
			}

			pool, err := a.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if direction == "down" {
				if err := database.RollbackMigrations(pool); err != nil {
					return err
				}
			} else if err := database.RunMigrations(pool); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", direction)
			return nil
		},
	}
	cmd.Flags().BoolVar(&createDB, "create-db", false, "create the target database first if it does not exist")
	return cmd
}
