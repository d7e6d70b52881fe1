package selectform

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/depselect/handler"
	"github.com/dmitrymomot/depselect/pkg/binder"
	"github.com/dmitrymomot/depselect/pkg/cookie"
	"github.com/dmitrymomot/depselect/pkg/i18n"
	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/metrics"
	"github.com/dmitrymomot/depselect/svc/catalog"
	"github.com/dmitrymomot/depselect/svc/events"
	"github.com/dmitrymomot/depselect/svc/selection"
)

//go:embed locales/*.yaml
var locales embed.FS

// Module serves the dependent category selection form. Every browser
// session gets its own selection.Coordinator.
type Module struct {
	cfg      Config
	repo     catalog.Repository
	views    *Views
	tr       *i18n.Translator
	bus      *events.Bus
	sessions *sessionStore
	errors   handler.ErrorHandler
	log      *slog.Logger

	closeOnce sync.Once
}

type Option func(*moduleOptions)

type moduleOptions struct {
	log       *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
	bus       *events.Bus
	views     Views
	tr        *i18n.Translator
}

func WithLogger(log *slog.Logger) Option {
	return func(o *moduleOptions) {
		if log != nil {
			o.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *moduleOptions) { o.metrics = m }
}

// WithPublisher sets where selection events go besides the activity bus.
func WithPublisher(p events.Publisher) Option {
	return func(o *moduleOptions) { o.publisher = p }
}

// WithBus enables the per-session activity stream on GET /events.
func WithBus(b *events.Bus) Option {
	return func(o *moduleOptions) { o.bus = b }
}

func WithViews(v Views) Option {
	return func(o *moduleOptions) { o.views = v }
}

// WithTranslator replaces the embedded en/es translations.
func WithTranslator(t *i18n.Translator) Option {
	return func(o *moduleOptions) { o.tr = t }
}

func New(cfg Config, repo catalog.Repository, cookies *cookie.Manager, opts ...Option) (*Module, error) {
	if repo == nil {
		return nil, ErrNoRepository
	}
	if cookies == nil {
		return nil, ErrNoCookieManager
	}

	o := moduleOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	tr := o.tr
	if tr == nil {
		var err error
		if tr, err = DefaultTranslator(); err != nil {
			return nil, err
		}
	}

	log := o.log.With(logger.Component("selectform"))
	views := o.views.withDefaults()

	pub := o.publisher
	if o.bus != nil {
		pub = events.Multi(o.bus, o.publisher)
	}
	if pub == nil {
		pub = events.Nop
	}

	m := &Module{
		cfg:   cfg,
		repo:  repo,
		views: views,
		tr:    tr,
		bus:   o.bus,
		log:   log,
		errors: handler.NewErrorHandler(log, handler.ErrorHandlerConfig{
			ErrorPage:   func(p handler.ErrorPageParams) handler.Component { return views.ErrorPage(p) },
			ErrorToast:  func(p handler.ErrorToastParams) handler.Component { return views.ErrorToast(p) },
			ToastTarget: "#" + ToastsID,
		}),
	}
	m.sessions = newSessionStore(cfg, cookies, func(id string) *selection.Coordinator {
		return selection.New(repo,
			selection.WithID(id),
			selection.WithLogger(o.log),
			selection.WithPublisher(pub),
			selection.WithMetrics(o.metrics),
			selection.WithRetry(cfg.RetryCount, cfg.RetryDelay),
			selection.WithCacheTime(cfg.CacheTime),
		)
	}, o.metrics, log)
	return m, nil
}

// DefaultTranslator loads the embedded en and es translations.
func DefaultTranslator() (*i18n.Translator, error) {
	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return nil, err
	}
	tr, err := i18n.LoadFS(sub)
	if err != nil {
		return nil, err
	}
	return i18n.NewTranslator(tr)
}

// Run sweeps expired sessions until ctx is done.
func (m *Module) Run(ctx context.Context) {
	m.sessions.runJanitor(ctx, m.cfg.JanitorInterval)
}

// Close ends every session.
func (m *Module) Close() {
	m.closeOnce.Do(m.sessions.close)
}

// Sessions reports the number of live sessions.
func (m *Module) Sessions() int { return m.sessions.len() }

// Handle returns the router serving the form and its JSON API.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(i18n.Middleware(m.tr, m.cfg.LangCookieName))

	fields := []handler.Bind{binder.Query(), binder.Form(), binder.Signals()}

	r.Get("/", handler.Wrap(m.index,
		handler.WithErrorHandler[struct{}](m.errors)))
	r.Get("/subcategories", handler.Wrap(m.selectCategory,
		handler.WithBinders[selectionRequest](fields...),
		handler.WithErrorHandler[selectionRequest](m.errors)))
	r.Post("/subcategory", handler.Wrap(m.selectSubCategory,
		handler.WithBinders[selectionRequest](fields...),
		handler.WithErrorHandler[selectionRequest](m.errors)))
	r.Post("/submit", handler.Wrap(m.submit,
		handler.WithBinders[selectionRequest](fields...),
		handler.WithErrorHandler[selectionRequest](m.errors)))
	r.Post("/reset", handler.Wrap(m.reset,
		handler.WithErrorHandler[struct{}](m.errors)))
	r.Post("/categories/refetch", handler.Wrap(m.refetchCategories,
		handler.WithErrorHandler[struct{}](m.errors)))
	r.Post("/subcategories/refetch", handler.Wrap(m.refetchSubCategories,
		handler.WithErrorHandler[struct{}](m.errors)))
	if m.bus != nil {
		r.Get("/events", handler.Wrap(m.activity,
			handler.WithErrorHandler[struct{}](m.errors)))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/categories", handler.Wrap(m.apiCategories))
		api.Get("/categories/{id}/subcategories", handler.Wrap(m.apiSubCategories))
		api.Get("/selection", handler.Wrap(m.apiSelection))
		api.Post("/selection/category", handler.Wrap(m.apiSelectCategory,
			handler.WithBinders[selectionRequest](fields...)))
		api.Post("/selection/subcategory", handler.Wrap(m.apiSelectSubCategory,
			handler.WithBinders[selectionRequest](fields...)))
		api.Delete("/selection/category", handler.Wrap(m.apiUnselectCategory))
	})
	return r
}

// translator binds the request language to the module translator.
func (m *Module) translator(ctx context.Context) Translate {
	lang := i18n.Lang(ctx)
	return func(key string, args ...string) string {
		return m.tr.T(lang, key, args...)
	}
}

// domainError maps selection and catalog errors onto HTTP errors.
func domainError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrInvalidID):
		return errors.Join(handler.ErrBadRequest, err)
	case errors.Is(err, catalog.ErrCategoryNotFound):
		return errors.Join(handler.ErrNotFound, err)
	case errors.Is(err, selection.ErrUnknownCommand):
		return errors.Join(handler.ErrBadRequest, err)
	case errors.Is(err, selection.ErrFetchFailed), errors.Is(err, catalog.ErrSimulatedNetwork):
		return errors.Join(handler.ErrServiceUnavailable, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errors.Join(handler.ErrServiceUnavailable, err)
	}
	return err
}
