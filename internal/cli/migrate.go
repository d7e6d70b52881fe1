package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/depselect/pkg/pg"
	"github.com/dmitrymomot/depselect/svc/catalog"
)

// NewMigrateCommand creates "migrate [up|down|status]" for the Postgres catalog.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply the catalog schema and seed data",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(pg.MigrateUp), string(pg.MigrateDown), string(pg.MigrateStatus)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := pg.MigrateUp
			if len(args) == 1 {
				direction = pg.MigrateDirection(args[0])
			}

			pool, cfg, err := connectPostgres(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer pool.Close()

			return pg.Migrate(cmd.Context(), pool, catalog.Migrations, catalog.MigrationsDir, cfg, direction, rootOpts.Log)
		},
	}
}
