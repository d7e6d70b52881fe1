package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/depselect/pkg/httpserver"
	"github.com/dmitrymomot/depselect/pkg/pg"
	"github.com/dmitrymomot/depselect/svc/catalog"
)

// backend is an opened catalog source and what it holds on to.
type backend struct {
	repo   catalog.Repository
	checks []httpserver.Check
	close  func()
}

func openBackend(ctx context.Context, o *RootOptions) (*backend, error) {
	switch o.Config.Source {
	case SourceMemory, "":
		repo := catalog.NewMemoryRepository(
			catalog.WithLatency(o.Config.MockLatency),
			catalog.WithFaultRate(o.Config.MockFaultRate, rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
			catalog.WithLogger(o.Log),
		)
		return &backend{repo: repo, close: func() {}}, nil
	case SourcePostgres:
		pool, _, err := connectPostgres(ctx, o)
		if err != nil {
			return nil, err
		}
		return &backend{
			repo:   catalog.NewPostgresRepository(pool),
			checks: []httpserver.Check{pg.Healthcheck(pool)},
			close:  pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q: must be %q or %q", o.Config.Source, SourceMemory, SourcePostgres)
	}
}

func connectPostgres(ctx context.Context, o *RootOptions) (*pgxpool.Pool, pg.Config, error) {
	var cfg pg.Config
	if err := load(o, &cfg); err != nil {
		return nil, cfg, err
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, cfg, err
	}
	return pool, cfg, nil
}
