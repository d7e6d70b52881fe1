package selection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/depselect/pkg/fetch"
	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/metrics"
	"github.com/dmitrymomot/depselect/svc/catalog"
	"github.com/dmitrymomot/depselect/svc/events"
)

// Selection is the current pair of choices. A non-empty SubCategoryID
// always belongs to CategoryID.
type Selection struct {
	CategoryID    catalog.CategoryID
	SubCategoryID catalog.SubCategoryID
}

// CategoriesView is the read model of the category list.
type CategoriesView struct {
	Categories []catalog.Category
	Loading    bool
	Error      string
}

// SubCategoriesView is the read model of the subcategory list for the
// selected category.
type SubCategoriesView struct {
	SubCategories []catalog.SubCategory
	Loading       bool
	Error         string
}

// Snapshot is everything a form needs to render itself.
type Snapshot struct {
	Categories            []catalog.Category
	SubCategories         []catalog.SubCategory
	LoadingCategories     bool
	LoadingSubCategories  bool
	ErrorCategories       string
	ErrorSubCategories    string
	IsSubCategoryDisabled bool
	Selection             Selection
}

// Submission is a validated selection.
type Submission struct {
	CategoryID    catalog.CategoryID
	SubCategoryID catalog.SubCategoryID
	SubmittedAt   time.Time
}

type noKey = struct{}

// Coordinator owns one category/subcategory selection and the two loaders
// feeding it. The subcategory loader is keyed by the selected category, so
// changing the category refetches subcategories and discards stale results.
type Coordinator struct {
	id    string
	log   *slog.Logger
	pub   events.Publisher
	clock func() time.Time

	categories    *fetch.Loader[noKey, []catalog.Category]
	subCategories *fetch.Loader[catalog.CategoryID, []catalog.SubCategory]

	mu  sync.RWMutex
	sel Selection
}

// New creates a coordinator over repo and starts loading categories.
func New(repo catalog.Repository, opts ...Option) *Coordinator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log.With(logger.Component("selection"))
	c := &Coordinator{
		id:    o.id,
		log:   log,
		pub:   events.Counted(o.publisher, o.metrics),
		clock: o.clock,
	}

	var listCategories fetch.Producer[noKey, []catalog.Category] = func(ctx context.Context, _ noKey) ([]catalog.Category, error) {
		return repo.ListCategories(ctx)
	}
	var listSubCategories fetch.Producer[catalog.CategoryID, []catalog.SubCategory] = func(ctx context.Context, id catalog.CategoryID) ([]catalog.SubCategory, error) {
		if id == "" {
			return []catalog.SubCategory{}, nil
		}
		return repo.ListSubCategories(ctx, id)
	}

	c.categories = fetch.New(
		metrics.Instrument(o.metrics, "list_categories",
			fetch.Logged(log, "list_categories", listCategories)),
		fetch.WithName[noKey, []catalog.Category]("categories"),
		fetch.WithLogger[noKey, []catalog.Category](log),
		fetch.WithRetry[noKey, []catalog.Category](o.retryCount, o.retryDelay),
		fetch.WithCacheTime[noKey, []catalog.Category](o.cacheTime),
		fetch.WithClock[noKey, []catalog.Category](o.clock),
		fetch.WithInitialData[noKey]([]catalog.Category{}),
	)
	c.subCategories = fetch.New(
		metrics.Instrument(o.metrics, "list_subcategories",
			fetch.Logged(log, "list_subcategories", listSubCategories)),
		fetch.WithName[catalog.CategoryID, []catalog.SubCategory]("subcategories"),
		fetch.WithLogger[catalog.CategoryID, []catalog.SubCategory](log),
		fetch.WithRetry[catalog.CategoryID, []catalog.SubCategory](o.retryCount, o.retryDelay),
		fetch.WithCacheTime[catalog.CategoryID, []catalog.SubCategory](o.cacheTime),
		fetch.WithClock[catalog.CategoryID, []catalog.SubCategory](o.clock),
		fetch.WithInitialData[catalog.CategoryID]([]catalog.SubCategory{}),
	)

	c.categories.Trigger()
	c.subCategories.Trigger()
	return c
}

// ID is the aggregate id stamped on events.
func (c *Coordinator) ID() string { return c.id }

// SelectCategory selects the category with the given id, or no category when
// id is empty. The subcategory selection is always cleared.
func (c *Coordinator) SelectCategory(ctx context.Context, id string) error {
	var cid catalog.CategoryID
	if id != "" {
		parsed, err := catalog.ParseCategoryID(id)
		if err != nil {
			return err
		}
		cid = parsed
	}

	c.mu.Lock()
	c.sel = Selection{CategoryID: cid}
	c.mu.Unlock()

	c.subCategories.SetKey(cid)

	if cid == "" {
		c.publish(ctx, events.New(events.TypeCategoryUnselected, c.id))
		return nil
	}
	c.publish(ctx, events.New(events.TypeCategorySelected, c.id).WithCategory(cid.String()))
	return nil
}

// SelectSubCategory records the subcategory choice. Membership in the
// selected category is checked on Submit.
func (c *Coordinator) SelectSubCategory(ctx context.Context, id string) error {
	var sid catalog.SubCategoryID
	if id != "" {
		parsed, err := catalog.ParseSubCategoryID(id)
		if err != nil {
			return err
		}
		sid = parsed
	}

	c.mu.Lock()
	c.sel.SubCategoryID = sid
	cid := c.sel.CategoryID
	c.mu.Unlock()

	c.publish(ctx, events.New(events.TypeSubCategorySelected, c.id).
		WithCategory(cid.String()).
		WithSubCategory(sid.String()))
	return nil
}

// ClearSelection returns the selection to its initial empty state.
func (c *Coordinator) ClearSelection(ctx context.Context) {
	c.mu.Lock()
	c.sel = Selection{}
	c.mu.Unlock()

	c.subCategories.SetKey("")
	c.publish(ctx, events.New(events.TypeSelectionCleared, c.id))
}

func (c *Coordinator) Selection() Selection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sel
}

func (c *Coordinator) HasSelectedCategory() bool {
	return c.Selection().CategoryID != ""
}

func (c *Coordinator) HasCategories() bool {
	return len(c.categories.State().Data) > 0
}

// IsSubCategoryDisabled reports whether the subcategory input must be
// disabled: no category is selected or its subcategories are loading.
func (c *Coordinator) IsSubCategoryDisabled() bool {
	return !c.HasSelectedCategory() || c.subCategories.State().IsLoading()
}

func (c *Coordinator) Categories() CategoriesView {
	return categoriesView(c.categories.State())
}

// SubCategories returns the subcategory list of the selected category. A list
// still held from a previously selected category is never exposed, so a
// failed or pending fetch shows no options.
func (c *Coordinator) SubCategories() SubCategoriesView {
	return c.subCategoriesFor(c.Selection().CategoryID)
}

func (c *Coordinator) subCategoriesFor(cid catalog.CategoryID) SubCategoriesView {
	st, loadedFor, ok := c.subCategories.DataState()
	view := SubCategoriesView{SubCategories: st.Data, Loading: st.IsLoading(), Error: st.Err}
	if !ok || loadedFor != cid || view.SubCategories == nil {
		view.SubCategories = []catalog.SubCategory{}
	}
	return view
}

// RefetchCategories reloads categories, bypassing the cache.
func (c *Coordinator) RefetchCategories() { c.categories.Refetch() }

// RefetchSubCategories reloads subcategories of the selected category,
// bypassing the cache.
func (c *Coordinator) RefetchSubCategories() { c.subCategories.Refetch() }

// WaitCategories blocks until the current category fetch settles.
func (c *Coordinator) WaitCategories(ctx context.Context) (CategoriesView, error) {
	st, err := c.categories.Wait(ctx)
	return categoriesView(st), err
}

// WaitSubCategories blocks until the current subcategory fetch settles.
func (c *Coordinator) WaitSubCategories(ctx context.Context) (SubCategoriesView, error) {
	_, err := c.subCategories.Wait(ctx)
	return c.SubCategories(), err
}

func (c *Coordinator) Snapshot() Snapshot {
	cats := c.Categories()
	sel := c.Selection()
	subs := c.subCategoriesFor(sel.CategoryID)
	return Snapshot{
		Categories:            cats.Categories,
		SubCategories:         subs.SubCategories,
		LoadingCategories:     cats.Loading,
		LoadingSubCategories:  subs.Loading,
		ErrorCategories:       cats.Error,
		ErrorSubCategories:    subs.Error,
		IsSubCategoryDisabled: sel.CategoryID == "" || subs.Loading,
		Selection:             sel,
	}
}

// Submit validates the current selection. Missing fields fail without
// touching the data source. Otherwise the subcategory must be one of the
// loaded subcategories of the selected category; Submit waits for a pending
// subcategory fetch before checking.
func (c *Coordinator) Submit(ctx context.Context) (Submission, error) {
	sel := c.Selection()
	if err := ValidateSubmission(sel.CategoryID.String(), sel.SubCategoryID.String()); err != nil {
		return Submission{}, err
	}

	if _, err := c.subCategories.Wait(ctx); err != nil {
		return Submission{}, err
	}
	st, loadedFor, ok := c.subCategories.DataState()
	if !ok {
		loadedFor = ""
	}
	if err := validateMembership(sel, loadedFor, st.Data); err != nil {
		return Submission{}, err
	}

	return Submission{
		CategoryID:    sel.CategoryID,
		SubCategoryID: sel.SubCategoryID,
		SubmittedAt:   c.clock(),
	}, nil
}

// Close stops both loaders. The coordinator must not be used afterwards.
func (c *Coordinator) Close() {
	c.categories.Close()
	c.subCategories.Close()
}

func (c *Coordinator) publish(ctx context.Context, e events.Event) {
	if err := c.pub.Publish(ctx, e); err != nil {
		c.log.WarnContext(ctx, "failed to publish event",
			logger.EventType(e.Type), logger.Error(err))
	}
}

func categoriesView(st fetch.State[[]catalog.Category]) CategoriesView {
	return CategoriesView{Categories: st.Data, Loading: st.IsLoading(), Error: st.Err}
}
