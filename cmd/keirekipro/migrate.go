package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/config"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/store/pg"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate requires the postgres storage driver")
			}

			ctx := cmd.Context()
			store, err := pg.NewUserStore(ctx, cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}
