package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"videoadmin/config"
	"videoadmin/logging"
	"videoadmin/store"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.LoadDatabase(*configPath)
			if err != nil {
				return err
			}
			logging.Init(logging.DefaultConfig())

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			pool, err := store.Connect(ctx, postgresConfig(db))
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.Migrate(ctx, pool); err != nil {
				return err
			}
			logging.Info().Msg("migrations applied")
			return nil
		},
	}
}

func postgresConfig(db config.DatabaseConfig) store.PostgresConfig {
	return store.PostgresConfig{
		URL:           db.URL,
		MaxConns:      db.MaxConns,
		RetryAttempts: db.RetryAttempts,
		RetryInterval: db.RetryInterval,
	}
}
