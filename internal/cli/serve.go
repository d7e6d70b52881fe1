package cli

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/depselect/modules/selectform"
	"github.com/dmitrymomot/depselect/pkg/clientip"
	"github.com/dmitrymomot/depselect/pkg/cookie"
	"github.com/dmitrymomot/depselect/pkg/httpserver"
	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/metrics"
	"github.com/dmitrymomot/depselect/pkg/ratelimiter"
	"github.com/dmitrymomot/depselect/pkg/redis"
	"github.com/dmitrymomot/depselect/pkg/requestid"
	"github.com/dmitrymomot/depselect/svc/events"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the selection form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(ctx context.Context, o *RootOptions) error {
	log := o.Log
	cfg := o.Config

	var cookieCfg cookie.Config
	if err := load(o, &cookieCfg); err != nil {
		return err
	}
	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, o)
	if err != nil {
		return err
	}
	defer b.close()

	m := metrics.New()
	bus := events.NewBus(cfg.EventsBuffer)
	defer bus.Close()

	checks := b.checks
	var publisher events.Publisher
	if cfg.EventsRedis {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = events.NewRedisPublisher(client, cfg.Redis.EventsChannel)
		checks = append(checks, redis.Healthcheck(client))
	}

	mod, err := selectform.New(cfg.Form, b.repo, cookies,
		selectform.WithLogger(log),
		selectform.WithMetrics(m),
		selectform.WithBus(bus),
		selectform.WithPublisher(publisher),
	)
	if err != nil {
		return err
	}
	defer mod.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go mod.Run(ctx)

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware)
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, checks...))
	r.Handle("/metrics", m.Handler())

	var limit []func(http.Handler) http.Handler
	if cfg.RateLimit {
		limiter, err := ratelimiter.New(cfg.Limiter)
		if err != nil {
			return err
		}
		go limiter.RunJanitor(ctx, time.Minute)
		limit = append(limit, ratelimiter.Middleware(limiter, ratelimiter.ByIP(), log))
	}
	r.Group(func(r chi.Router) {
		r.Use(limit...)
		r.Mount("/", mod.Handle())
	})

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(addr string) {
			log.Info("serving selection form", logger.Component("cli"), slog.String("addr", addr))
		}),
	)
	return srv.Run(ctx, r)
}
