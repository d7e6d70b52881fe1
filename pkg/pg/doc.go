// Package pg connects to PostgreSQL through a pgx pool and applies goose
// migrations from an fs.FS.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	err = pg.Migrate(ctx, pool, catalog.Migrations, catalog.MigrationsDir, cfg, pg.MigrateUp, log)
//
// Connect retries with a fixed interval and verifies every pool with a ping.
package pg
