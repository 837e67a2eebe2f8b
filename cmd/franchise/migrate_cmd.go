package main

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/creditpath/franchise-sdk/migrations"
	"github.com/creditpath/franchise-sdk/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply database migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			logger := conf.Logger()

			db, err := goose.OpenDBWithDriver("pgx", conf.Database.ConnectionString())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					logger.WithError(err).Warn("failed to close database")
				}
			}()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			switch args[0] {
			case "up":
				return goose.Up(db, ".")
			case "down":
				return goose.Down(db, ".")
			case "status":
				return goose.Status(db, ".")
			}
			return fmt.Errorf("unknown migrate command: %s", args[0])
		},
	}
	return cmd
}
