package selectform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/depselect/handler"
	"github.com/dmitrymomot/depselect/pkg/i18n"
	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/validator"
	"github.com/dmitrymomot/depselect/svc/catalog"
	"github.com/dmitrymomot/depselect/svc/events"
	"github.com/dmitrymomot/depselect/svc/selection"
)

// selectionRequest accepts the form fields from a query string, a posted
// form or datastar signals. Nil means the field was not sent.
type selectionRequest struct {
	CategoryID    *string `query:"categoryId" form:"categoryId" json:"categoryId"`
	SubCategoryID *string `query:"subCategoryId" form:"subCategoryId" json:"subCategoryId"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (m *Module) index(ctx handler.Context, _ struct{}) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())
	m.awaitCategories(ctx, c)
	return handler.Templ(m.page(ctx, m.views.Form(m.formParams(ctx, c, nil))))
}

// selectCategory handles the category change. Datastar clients first get
// the subcategory field in its loading state, then the loaded list.
func (m *Module) selectCategory(ctx handler.Context, req selectionRequest) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())
	id := deref(req.CategoryID)
	if err := c.SelectCategory(ctx, id); err != nil {
		return handler.Error(domainError(err))
	}

	if !handler.IsDataStar(ctx.Request()) {
		m.awaitCategories(ctx, c)
		if _, err := c.WaitSubCategories(ctx); err != nil {
			return handler.Error(domainError(err))
		}
		return handler.Templ(m.page(ctx, m.views.Form(m.formParams(ctx, c, nil))))
	}

	target := handler.WithTarget("#" + SubCategoryFieldID)
	return handler.SSE(func(s handler.StreamContext) error {
		if err := s.SendSignals(map[string]any{"categoryId": id, "subCategoryId": ""}); err != nil {
			return err
		}
		if err := s.SendComponent(m.views.SubCategoryField(m.formParams(s, c, nil)), target); err != nil {
			return err
		}
		if _, err := c.WaitSubCategories(s); err != nil {
			return err
		}
		return s.SendComponent(m.views.SubCategoryField(m.formParams(s, c, nil)), target)
	})
}

func (m *Module) selectSubCategory(ctx handler.Context, req selectionRequest) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())
	if err := c.SelectSubCategory(ctx, deref(req.SubCategoryID)); err != nil {
		return handler.Error(domainError(err))
	}
	if !handler.IsDataStar(ctx.Request()) {
		return handler.Redirect("/")
	}
	return handler.Templ(m.views.SubCategoryField(m.formParams(ctx, c, nil)),
		handler.WithTarget("#"+SubCategoryFieldID))
}

// submit applies any field values sent with the request before validating,
// so the form also works without datastar.
func (m *Module) submit(ctx handler.Context, req selectionRequest) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())

	sel := c.Selection()
	if req.CategoryID != nil && *req.CategoryID != sel.CategoryID.String() {
		if err := c.SelectCategory(ctx, *req.CategoryID); err != nil {
			return handler.Error(domainError(err))
		}
	}
	if req.SubCategoryID != nil && *req.SubCategoryID != c.Selection().SubCategoryID.String() {
		if err := c.SelectSubCategory(ctx, *req.SubCategoryID); err != nil {
			return handler.Error(domainError(err))
		}
	}

	m.awaitCategories(ctx, c)
	sub, err := c.Submit(ctx)
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		form := m.views.Form(m.formParams(ctx, c, m.fieldErrors(ctx, verrs)))
		return m.render(ctx, http.StatusUnprocessableEntity, form,
			handler.Patch(form, handler.WithTarget("#"+FormID)))
	}
	if err != nil {
		return handler.Error(domainError(err))
	}

	m.log.InfoContext(ctx, "selection submitted",
		logger.SessionID(c.ID()),
		logger.CategoryID(sub.CategoryID.String()),
		logger.SubCategoryID(sub.SubCategoryID.String()))

	snap := c.Snapshot()
	done := m.views.Confirmation(ConfirmationParams{
		T:           m.translator(ctx),
		Category:    categoryName(snap.Categories, sub.CategoryID),
		SubCategory: subCategoryName(snap.SubCategories, sub.SubCategoryID),
		SubmittedAt: sub.SubmittedAt,
	})
	return m.render(ctx, http.StatusOK, done, handler.Patch(done, handler.WithTarget("#"+FormID)))
}

func (m *Module) reset(ctx handler.Context, _ struct{}) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())
	c.ClearSelection(ctx)
	if !handler.IsDataStar(ctx.Request()) {
		return handler.Redirect("/")
	}
	form := m.views.Form(m.formParams(ctx, c, nil))
	return handler.TemplMulti(
		handler.Patch(form, handler.WithTarget("#"+FormID)),
		handler.PatchSignals(map[string]any{"categoryId": "", "subCategoryId": ""}),
	)
}

func (m *Module) refetchCategories(ctx handler.Context, _ struct{}) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())
	c.RefetchCategories()
	m.awaitCategories(ctx, c)
	if !handler.IsDataStar(ctx.Request()) {
		return handler.Redirect("/")
	}
	return handler.Templ(m.views.CategoryField(m.formParams(ctx, c, nil)),
		handler.WithTarget("#"+CategoryFieldID))
}

func (m *Module) refetchSubCategories(ctx handler.Context, _ struct{}) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())
	c.RefetchSubCategories()
	if _, err := c.WaitSubCategories(ctx); err != nil {
		return handler.Error(domainError(err))
	}
	if !handler.IsDataStar(ctx.Request()) {
		return handler.Redirect("/")
	}
	return handler.Templ(m.views.SubCategoryField(m.formParams(ctx, c, nil)),
		handler.WithTarget("#"+SubCategoryFieldID))
}

// activity streams the session's selection events until the client leaves.
func (m *Module) activity(ctx handler.Context, _ struct{}) handler.Response {
	c := m.sessions.acquire(ctx.ResponseWriter(), ctx.Request())
	return handler.SSE(func(s handler.StreamContext) error {
		t := m.translator(s)
		for e := range m.bus.Subscribe(s) {
			if e.AggregateID != c.ID() {
				continue
			}
			item := m.views.ActivityItem(ActivityParams{T: t, Event: e, Message: eventMessage(t, c, e)})
			if err := s.SendComponent(item,
				handler.WithTarget("#"+ActivityID),
				handler.WithPatchMode(handler.PatchAppend),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// awaitCategories gives the category fetch up to InitialLoadTimeout so the
// first render usually has data; past that the loading state is rendered.
func (m *Module) awaitCategories(ctx context.Context, c *selection.Coordinator) {
	if m.cfg.InitialLoadTimeout <= 0 {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, m.cfg.InitialLoadTimeout)
	defer cancel()
	if _, err := c.WaitCategories(wctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		m.log.DebugContext(ctx, "categories wait aborted", logger.Error(err))
	}
}

// render patches a fragment for datastar clients and renders the full page
// around body for everyone else.
func (m *Module) render(ctx handler.Context, status int, body templ.Component, patches ...handler.TemplPatch) handler.Response {
	if handler.IsDataStar(ctx.Request()) {
		return handler.TemplMulti(patches...)
	}
	return handler.TemplStatus(status, m.page(ctx, body))
}

func (m *Module) page(ctx context.Context, body templ.Component) templ.Component {
	return m.views.Page(PageParams{
		T:               m.translator(ctx),
		Lang:            i18n.Lang(ctx),
		ScriptURL:       m.cfg.DatastarScriptURL,
		ActivityEnabled: m.bus != nil,
		Body:            body,
	})
}

func (m *Module) formParams(ctx context.Context, c *selection.Coordinator, errs map[string]string) FormParams {
	snap := c.Snapshot()
	return FormParams{
		T:                    m.translator(ctx),
		Categories:           snap.Categories,
		SubCategories:        snap.SubCategories,
		Selection:            snap.Selection,
		LoadingCategories:    snap.LoadingCategories,
		LoadingSubCategories: snap.LoadingSubCategories,
		CategoriesError:      snap.ErrorCategories,
		SubCategoriesError:   snap.ErrorSubCategories,
		SubCategoryDisabled:  snap.IsSubCategoryDisabled,
		Errors:               errs,
	}
}

// fieldErrors translates the first error of every field.
func (m *Module) fieldErrors(ctx context.Context, verrs validator.ValidationErrors) map[string]string {
	lang := i18n.Lang(ctx)
	out := make(map[string]string, len(verrs))
	for _, field := range verrs.Fields() {
		e, _ := verrs.First(field)
		msg := e.Message
		if e.TranslationKey != "" && m.tr.Has(lang, e.TranslationKey) {
			args := make([]string, 0, 2*len(e.TranslationValues))
			for k, v := range e.TranslationValues {
				args = append(args, k, fmt.Sprint(v))
			}
			msg = m.tr.T(lang, e.TranslationKey, args...)
		}
		out[field] = msg
	}
	return out
}

func eventMessage(t Translate, c *selection.Coordinator, e events.Event) string {
	snap := c.Snapshot()
	return t("events."+strings.ReplaceAll(e.Type, ".", "_"),
		"category", categoryName(snap.Categories, catalog.CategoryID(e.CategoryID)),
		"subcategory", subCategoryName(snap.SubCategories, catalog.SubCategoryID(e.SubCategoryID)),
	)
}

func categoryName(cats []catalog.Category, id catalog.CategoryID) string {
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return id.String()
}

func subCategoryName(subs []catalog.SubCategory, id catalog.SubCategoryID) string {
	for _, s := range subs {
		if s.ID == id {
			return s.Name
		}
	}
	return id.String()
}
