package selectform

import (
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/depselect/handler"
	"github.com/dmitrymomot/depselect/svc/catalog"
	"github.com/dmitrymomot/depselect/svc/selection"
)

// SelectionResponse is the JSON shape of GET /api/selection.
type SelectionResponse struct {
	Category      *catalog.Category     `json:"category,omitempty"`
	CategoryID    catalog.CategoryID    `json:"categoryId"`
	SubCategoryID catalog.SubCategoryID `json:"subCategoryId"`
}

func (m *Module) facade(ctx handler.Context) *selection.Facade {
	return selection.NewFacade(m.sessions.acquire(ctx.ResponseWriter(), ctx.Request()), m.repo)
}

func (m *Module) apiCategories(ctx handler.Context, _ struct{}) handler.Response {
	cats, err := m.facade(ctx).GetCategories(ctx)
	if err != nil {
		return handler.JSONError(domainError(err))
	}
	return handler.JSON(cats)
}

func (m *Module) apiSubCategories(ctx handler.Context, _ struct{}) handler.Response {
	subs, err := m.facade(ctx).GetSubCategories(ctx, chi.URLParamFromCtx(ctx, "id"))
	if err != nil {
		return handler.JSONError(domainError(err))
	}
	return handler.JSON(subs)
}

func (m *Module) apiSelection(ctx handler.Context, _ struct{}) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())
	sel := c.Selection()
	resp := SelectionResponse{CategoryID: sel.CategoryID, SubCategoryID: sel.SubCategoryID}
	if cat, ok := selection.NewFacade(c, m.repo).GetSelectedCategory(); ok {
		resp.Category = &cat
	}
	return handler.JSON(resp)
}

func (m *Module) apiSelectCategory(ctx handler.Context, req selectionRequest) handler.Response {
	return m.dispatch(ctx, selection.SelectCategoryCommand{CategoryID: deref(req.CategoryID)})
}

func (m *Module) apiSelectSubCategory(ctx handler.Context, req selectionRequest) handler.Response {
	return m.dispatch(ctx, selection.SelectSubCategoryCommand{SubCategoryID: deref(req.SubCategoryID)})
}

func (m *Module) apiUnselectCategory(ctx handler.Context, _ struct{}) handler.Response {
	return m.dispatch(ctx, selection.UnselectCategoryCommand{})
}

func (m *Module) dispatch(ctx handler.Context, cmd selection.Command) handler.Response {
	if err := m.facade(ctx).Dispatch(ctx, cmd); err != nil {
		return handler.JSONError(domainError(err))
	}
	return handler.Empty()
}
