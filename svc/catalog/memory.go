package catalog

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/depselect/pkg/async"
	"github.com/dmitrymomot/depselect/pkg/logger"
)

// DefaultLatency is the simulated round trip of the mock data source.
const DefaultLatency = 500 * time.Millisecond

// MemoryRepository serves a read-only dataset with simulated latency and
// optional fault injection. It is safe for concurrent use.
type MemoryRepository struct {
	categories []Category
	subs       map[CategoryID][]SubCategory
	latency    time.Duration
	fault      func() bool
	log        *slog.Logger
}

// MemoryOption configures a MemoryRepository.
type MemoryOption func(*MemoryRepository)

// WithDataset replaces the built-in dataset.
func WithDataset(ds Dataset) MemoryOption {
	return func(r *MemoryRepository) {
		r.categories = slices.Clone(ds.Categories)
		r.subs = indexSubCategories(ds.SubCategories)
	}
}

// WithLatency sets the delay applied to every call. Zero disables it.
func WithLatency(d time.Duration) MemoryOption {
	return func(r *MemoryRepository) { r.latency = max(d, 0) }
}

// WithFaultRate makes ListSubCategories fail with ErrSimulatedNetwork with
// probability rate, drawing from src.
func WithFaultRate(rate float64, src rand.Source) MemoryOption {
	return func(r *MemoryRepository) {
		if rate <= 0 || src == nil {
			r.fault = nil
			return
		}
		var mu sync.Mutex
		rnd := rand.New(src)
		r.fault = func() bool {
			mu.Lock()
			defer mu.Unlock()
			return rnd.Float64() < rate
		}
	}
}

// WithFaultInjector makes ListSubCategories fail whenever fn returns true.
func WithFaultInjector(fn func() bool) MemoryOption {
	return func(r *MemoryRepository) { r.fault = fn }
}

func WithLogger(log *slog.Logger) MemoryOption {
	return func(r *MemoryRepository) {
		if log != nil {
			r.log = log
		}
	}
}

// NewMemoryRepository creates a repository over DefaultDataset with DefaultLatency.
func NewMemoryRepository(opts ...MemoryOption) *MemoryRepository {
	ds := DefaultDataset()
	r := &MemoryRepository{
		categories: ds.Categories,
		subs:       indexSubCategories(ds.SubCategories),
		latency:    DefaultLatency,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("catalog.memory"))
	return r
}

func (r *MemoryRepository) ListCategories(ctx context.Context) ([]Category, error) {
	if err := async.Sleep(ctx, r.latency); err != nil {
		return nil, err
	}
	return slices.Clone(r.categories), nil
}

// ListSubCategories returns the subcategories of categoryID in dataset order.
// Empty or unknown ids yield an empty slice.
func (r *MemoryRepository) ListSubCategories(ctx context.Context, categoryID CategoryID) ([]SubCategory, error) {
	if err := async.Sleep(ctx, r.latency); err != nil {
		return nil, err
	}
	if r.fault != nil && r.fault() {
		r.log.DebugContext(ctx, "injected fault", logger.CategoryID(categoryID.String()))
		return nil, ErrSimulatedNetwork
	}
	subs := r.subs[categoryID]
	if subs == nil {
		return []SubCategory{}, nil
	}
	return slices.Clone(subs), nil
}

func (r *MemoryRepository) FindCategory(ctx context.Context, id CategoryID) (Category, error) {
	if err := async.Sleep(ctx, r.latency); err != nil {
		return Category{}, err
	}
	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrCategoryNotFound
}

func indexSubCategories(subs []SubCategory) map[CategoryID][]SubCategory {
	idx := make(map[CategoryID][]SubCategory)
	for _, s := range subs {
		idx[s.CategoryID] = append(idx[s.CategoryID], s)
	}
	return idx
}
