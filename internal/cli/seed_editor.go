package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"fishwrapper-service/internal/app"
	"fishwrapper-service/internal/config"
	"fishwrapper-service/internal/infra/postgres"
)

// NewSeedEditorCmd creates or replaces an editor account.
func NewSeedEditorCmd(configPath *string) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "seed-editor <username>",
		Short: "Create or update an editor account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("EDITOR_PASSWORD")
			}
			if password == "" {
				return fmt.Errorf("password required: pass --password or set EDITOR_PASSWORD")
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured; editor accounts need a persistent store")
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}

			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			store := postgres.NewStore(pool)
			auth := app.NewAuthService(store, nil, cfg.Session.Mode, nil, 0)
			if err := auth.SeedEditor(cmd.Context(), args[0], password); err != nil {
				return err
			}
			log.Printf("editor %q seeded", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "editor password (or EDITOR_PASSWORD)")
	return cmd
}
