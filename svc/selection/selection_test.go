package selection_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/validator"
	"github.com/dmitrymomot/depselect/svc/catalog"
	"github.com/dmitrymomot/depselect/svc/events"
	"github.com/dmitrymomot/depselect/svc/selection"
)

// countingRepo records calls made to the wrapped repository.
type countingRepo struct {
	catalog.Repository
	categories    atomic.Int32
	subCategories atomic.Int32
	find          atomic.Int32
}

func newCountingRepo(opts ...catalog.MemoryOption) *countingRepo {
	opts = append([]catalog.MemoryOption{catalog.WithLatency(0)}, opts...)
	return &countingRepo{Repository: catalog.NewMemoryRepository(opts...)}
}

func (r *countingRepo) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	r.categories.Add(1)
	return r.Repository.ListCategories(ctx)
}

func (r *countingRepo) ListSubCategories(ctx context.Context, id catalog.CategoryID) ([]catalog.SubCategory, error) {
	r.subCategories.Add(1)
	return r.Repository.ListSubCategories(ctx, id)
}

func (r *countingRepo) FindCategory(ctx context.Context, id catalog.CategoryID) (catalog.Category, error) {
	r.find.Add(1)
	return r.Repository.FindCategory(ctx, id)
}

// gatedRepo holds the first ListSubCategories call for one category until release is
// closed, ignoring cancellation so the late response still arrives.
type gatedRepo struct {
	catalog.Repository
	gated    catalog.CategoryID
	started  chan struct{}
	release  chan struct{}
	returned chan struct{}
	once     sync.Once
}

func newGatedRepo(gated catalog.CategoryID) *gatedRepo {
	return &gatedRepo{
		Repository: catalog.NewMemoryRepository(catalog.WithLatency(0)),
		gated:      gated,
		started:    make(chan struct{}),
		release:    make(chan struct{}),
		returned:   make(chan struct{}),
	}
}

func (r *gatedRepo) ListSubCategories(ctx context.Context, id catalog.CategoryID) ([]catalog.SubCategory, error) {
	if id != r.gated {
		return r.Repository.ListSubCategories(ctx, id)
	}
	first := false
	r.once.Do(func() { first = true })
	if !first {
		return r.Repository.ListSubCategories(ctx, id)
	}
	close(r.started)
	<-r.release
	defer close(r.returned)
	return r.Repository.ListSubCategories(context.Background(), id)
}

func waitFor(t *testing.T, ctx context.Context, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-ctx.Done():
		t.Fatalf("timed out waiting for %s", what)
	}
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newCoordinator(t *testing.T, repo catalog.Repository, opts ...selection.Option) *selection.Coordinator {
	t.Helper()
	c := selection.New(repo, opts...)
	t.Cleanup(c.Close)
	return c
}

func subIDs(subs []catalog.SubCategory) []catalog.SubCategoryID {
	return catalog.SubCategoryIDs(subs)
}

func TestCoordinator_LoadsCategoriesOnStart(t *testing.T) {
	t.Parallel()
	repo := newCountingRepo()
	c := newCoordinator(t, repo)

	view, err := c.WaitCategories(testCtx(t))
	require.NoError(t, err)
	assert.False(t, view.Loading)
	assert.Empty(t, view.Error)
	require.Len(t, view.Categories, 4)
	assert.Equal(t, catalog.CategoryID("cat-tech"), view.Categories[0].ID)
	assert.True(t, c.HasCategories())
	assert.EqualValues(t, 1, repo.categories.Load())

	subs, err := c.WaitSubCategories(testCtx(t))
	require.NoError(t, err)
	assert.Empty(t, subs.SubCategories)
	assert.EqualValues(t, 0, repo.subCategories.Load(), "no category means no data source call")

	assert.False(t, c.HasSelectedCategory())
	assert.True(t, c.IsSubCategoryDisabled())
}

func TestCoordinator_EndToEnd(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	c := newCoordinator(t, newCountingRepo())

	require.NoError(t, c.SelectCategory(ctx, "cat-tech"))
	subs, err := c.WaitSubCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		[]catalog.SubCategoryID{"sub-frontend", "sub-backend", "sub-devops", "sub-ai"},
		subIDs(subs.SubCategories))
	assert.False(t, c.IsSubCategoryDisabled())

	require.NoError(t, c.SelectSubCategory(ctx, "sub-backend"))
	assert.Equal(t, catalog.SubCategoryID("sub-backend"), c.Selection().SubCategoryID)

	require.NoError(t, c.SelectCategory(ctx, "cat-home"))
	assert.Empty(t, c.Selection().SubCategoryID)

	subs, err = c.WaitSubCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		[]catalog.SubCategoryID{"sub-furniture", "sub-kitchen", "sub-garden"},
		subIDs(subs.SubCategories))

	require.NoError(t, c.SelectSubCategory(ctx, "sub-kitchen"))
	got, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryID("cat-home"), got.CategoryID)
	assert.Equal(t, catalog.SubCategoryID("sub-kitchen"), got.SubCategoryID)
	assert.False(t, got.SubmittedAt.IsZero())
}

func TestCoordinator_SelectCategoryAlwaysResetsSubCategory(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	c := newCoordinator(t, newCountingRepo())

	for _, next := range []string{"cat-tech", "cat-home", ""} {
		require.NoError(t, c.SelectCategory(ctx, "cat-tech"))
		require.NoError(t, c.SelectSubCategory(ctx, "sub-ai"))

		require.NoError(t, c.SelectCategory(ctx, next))
		sel := c.Selection()
		assert.Equal(t, catalog.CategoryID(next), sel.CategoryID)
		assert.Empty(t, sel.SubCategoryID, "category %q", next)
	}
}

func TestCoordinator_InvalidIDsFailFast(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	c := newCoordinator(t, newCountingRepo())
	require.NoError(t, c.SelectCategory(ctx, "cat-tech"))

	err := c.SelectCategory(ctx, "bad id!")
	require.ErrorIs(t, err, catalog.ErrInvalidID)
	assert.Equal(t, catalog.CategoryID("cat-tech"), c.Selection().CategoryID)

	err = c.SelectSubCategory(ctx, "<script>")
	require.ErrorIs(t, err, catalog.ErrInvalidID)
	assert.Empty(t, c.Selection().SubCategoryID)
}

func TestCoordinator_StaleSubCategoriesAreDiscarded(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	repo := newGatedRepo("cat-tech")
	c := newCoordinator(t, repo)
	home := []catalog.SubCategoryID{"sub-furniture", "sub-kitchen", "sub-garden"}

	require.NoError(t, c.SelectCategory(ctx, "cat-tech"))
	waitFor(t, ctx, repo.started, "cat-tech request")

	require.NoError(t, c.SelectCategory(ctx, "cat-home"))
	subs, err := c.WaitSubCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, home, subIDs(subs.SubCategories))

	close(repo.release)
	waitFor(t, ctx, repo.returned, "late cat-tech response")
	time.Sleep(20 * time.Millisecond)

	view := c.SubCategories()
	assert.False(t, view.Loading)
	assert.Equal(t, home, subIDs(view.SubCategories))
	assert.Equal(t, catalog.CategoryID("cat-home"), c.Selection().CategoryID)
}

func TestCoordinator_FailedFetchHidesPreviousCategoryList(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	var failing atomic.Bool
	repo := newCountingRepo(catalog.WithFaultInjector(failing.Load))
	c := newCoordinator(t, repo)

	require.NoError(t, c.SelectCategory(ctx, "cat-tech"))
	subs, err := c.WaitSubCategories(ctx)
	require.NoError(t, err)
	require.Len(t, subs.SubCategories, 4)

	failing.Store(true)
	require.NoError(t, c.SelectCategory(ctx, "cat-home"))
	subs, err = c.WaitSubCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.ErrSimulatedNetwork.Error(), subs.Error)
	assert.Empty(t, subs.SubCategories)

	snap := c.Snapshot()
	assert.Empty(t, snap.SubCategories)
	assert.Equal(t, catalog.CategoryID("cat-home"), snap.Selection.CategoryID)

	require.NoError(t, c.SelectSubCategory(ctx, "sub-frontend"))
	_, err = c.Submit(ctx)
	require.Error(t, err)
	first, ok := validator.ExtractValidationErrors(err).First(selection.FieldSubCategoryID)
	require.True(t, ok)
	assert.Equal(t, selection.MsgSubCategoryMismatch, first.Message)

	failing.Store(false)
	c.RefetchSubCategories()
	subs, err = c.WaitSubCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t,
		[]catalog.SubCategoryID{"sub-furniture", "sub-kitchen", "sub-garden"},
		subIDs(subs.SubCategories))
}

func TestCoordinator_Submit(t *testing.T) {
	t.Parallel()

	t.Run("empty selection reports both fields without data calls", func(t *testing.T) {
		t.Parallel()
		ctx := testCtx(t)
		repo := newCountingRepo()
		c := newCoordinator(t, repo)
		_, err := c.WaitCategories(ctx)
		require.NoError(t, err)

		before := repo.categories.Load() + repo.subCategories.Load() + repo.find.Load()
		_, err = c.Submit(ctx)
		require.Error(t, err)

		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 2)
		assert.Equal(t, []string{selection.MsgCategoryRequired}, errs.Get(selection.FieldCategoryID))
		assert.Equal(t, []string{selection.MsgSubCategoryRequired}, errs.Get(selection.FieldSubCategoryID))

		after := repo.categories.Load() + repo.subCategories.Load() + repo.find.Load()
		assert.Equal(t, before, after)
	})

	t.Run("missing subcategory", func(t *testing.T) {
		t.Parallel()
		ctx := testCtx(t)
		c := newCoordinator(t, newCountingRepo())
		require.NoError(t, c.SelectCategory(ctx, "cat-tech"))

		_, err := c.Submit(ctx)
		errs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{selection.FieldSubCategoryID}, errs.Fields())
	})

	t.Run("subcategory from another category", func(t *testing.T) {
		t.Parallel()
		ctx := testCtx(t)
		c := newCoordinator(t, newCountingRepo())
		require.NoError(t, c.SelectCategory(ctx, "cat-tech"))
		require.NoError(t, c.SelectSubCategory(ctx, "sub-garden"))

		_, err := c.Submit(ctx)
		require.ErrorIs(t, err, validator.ErrValidationFailed)
		first, ok := validator.ExtractValidationErrors(err).First(selection.FieldSubCategoryID)
		require.True(t, ok)
		assert.Equal(t, selection.MsgSubCategoryMismatch, first.Message)
		assert.Equal(t, selection.KeySubCategoryMismatch, first.TranslationKey)
	})
}

func TestValidateSubmission(t *testing.T) {
	t.Parallel()

	assert.NoError(t, selection.ValidateSubmission("cat-tech", "sub-ai"))

	errs := validator.ExtractValidationErrors(selection.ValidateSubmission("", "  "))
	require.Len(t, errs, 2)
	first, _ := errs.First(selection.FieldCategoryID)
	assert.Equal(t, selection.KeyCategoryRequired, first.TranslationKey)
}

func TestCoordinator_ClearSelection(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	c := newCoordinator(t, newCountingRepo())
	require.NoError(t, c.SelectCategory(ctx, "cat-sports"))
	require.NoError(t, c.SelectSubCategory(ctx, "sub-gym"))

	c.ClearSelection(ctx)
	assert.Equal(t, selection.Selection{}, c.Selection())

	subs, err := c.WaitSubCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs.SubCategories)
	assert.True(t, c.Snapshot().IsSubCategoryDisabled)
}

func TestCoordinator_Retry(t *testing.T) {
	t.Parallel()

	failTwice := func() func() bool {
		var calls atomic.Int32
		return func() bool { return calls.Add(1) <= 2 }
	}

	t.Run("recovers within retry budget", func(t *testing.T) {
		t.Parallel()
		ctx := testCtx(t)
		repo := newCountingRepo(catalog.WithFaultInjector(failTwice()))
		c := newCoordinator(t, repo, selection.WithRetry(2, time.Millisecond))

		require.NoError(t, c.SelectCategory(ctx, "cat-fashion"))
		subs, err := c.WaitSubCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, subs.Error)
		assert.Len(t, subs.SubCategories, 3)
		assert.EqualValues(t, 3, repo.subCategories.Load())
	})

	t.Run("surfaces error after exhaustion", func(t *testing.T) {
		t.Parallel()
		ctx := testCtx(t)
		repo := newCountingRepo(catalog.WithFaultInjector(failTwice()))
		c := newCoordinator(t, repo, selection.WithRetry(1, time.Millisecond))

		require.NoError(t, c.SelectCategory(ctx, "cat-fashion"))
		subs, err := c.WaitSubCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, catalog.ErrSimulatedNetwork.Error(), subs.Error)
		assert.Empty(t, subs.SubCategories)
		assert.Equal(t, subs.Error, c.Snapshot().ErrorSubCategories)

		c.RefetchSubCategories()
		subs, err = c.WaitSubCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, subs.Error)
		assert.Len(t, subs.SubCategories, 3)
	})
}

func TestCoordinator_Cache(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	repo := newCountingRepo()
	c := newCoordinator(t, repo, selection.WithCacheTime(time.Minute))

	for _, id := range []string{"cat-tech", "cat-home", "cat-tech"} {
		require.NoError(t, c.SelectCategory(ctx, id))
		_, err := c.WaitSubCategories(ctx)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, repo.subCategories.Load())

	c.RefetchCategories()
	_, err := c.WaitCategories(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, repo.categories.Load())
}

func TestCoordinator_PublishesEvents(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	bus := events.NewBus(16)
	t.Cleanup(func() { _ = bus.Close() })
	received := bus.Subscribe(ctx)

	c := newCoordinator(t, newCountingRepo(),
		selection.WithPublisher(bus), selection.WithID("form-1"))
	assert.Equal(t, "form-1", c.ID())

	require.NoError(t, c.SelectCategory(ctx, "cat-tech"))
	require.NoError(t, c.SelectSubCategory(ctx, "sub-ai"))
	require.NoError(t, c.SelectCategory(ctx, ""))
	c.ClearSelection(ctx)

	want := []string{
		events.TypeCategorySelected,
		events.TypeSubCategorySelected,
		events.TypeCategoryUnselected,
		events.TypeSelectionCleared,
	}
	for i, typ := range want {
		select {
		case e := <-received:
			assert.Equal(t, typ, e.Type, "event %d", i)
			assert.Equal(t, "form-1", e.AggregateID)
			if typ == events.TypeSubCategorySelected {
				assert.Equal(t, "cat-tech", e.CategoryID)
				assert.Equal(t, "sub-ai", e.SubCategoryID)
			}
		case <-ctx.Done():
			t.Fatalf("event %d not received", i)
		}
	}
}

func TestCoordinator_LoadingState(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	repo := newGatedRepo("cat-tech")
	c := newCoordinator(t, repo)

	require.NoError(t, c.SelectCategory(ctx, "cat-tech"))
	snap := c.Snapshot()
	assert.True(t, snap.LoadingSubCategories)
	assert.True(t, snap.IsSubCategoryDisabled)

	close(repo.release)
	_, err := c.WaitSubCategories(ctx)
	require.NoError(t, err)
	snap = c.Snapshot()
	assert.False(t, snap.LoadingSubCategories)
	assert.False(t, snap.IsSubCategoryDisabled)
	assert.Len(t, snap.SubCategories, 4)
}
