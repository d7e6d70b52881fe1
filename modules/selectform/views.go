package selectform

import (
	"encoding/json"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/depselect/handler"
	"github.com/dmitrymomot/depselect/svc/catalog"
	"github.com/dmitrymomot/depselect/svc/events"
	"github.com/dmitrymomot/depselect/svc/selection"
)

// Element ids the handlers patch into.
const (
	FormID             = "selection-form"
	CategoryFieldID    = "category-field"
	SubCategoryFieldID = "subcategory-field"
	ActivityID         = "activity"
	ToastsID           = "toasts"
)

// Translate resolves a translation key for the request language.
type Translate func(key string, args ...string) string

type PageParams struct {
	T               Translate
	Lang            string
	ScriptURL       string
	ActivityEnabled bool
	Body            templ.Component
}

// FormParams is the render model of the selection form.
type FormParams struct {
	T                    Translate
	Categories           []catalog.Category
	SubCategories        []catalog.SubCategory
	Selection            selection.Selection
	LoadingCategories    bool
	LoadingSubCategories bool
	CategoriesError      string
	SubCategoriesError   string
	SubCategoryDisabled  bool
	// Errors maps field names to translated messages.
	Errors map[string]string
}

type ConfirmationParams struct {
	T           Translate
	Category    string
	SubCategory string
	SubmittedAt time.Time
}

type ActivityParams struct {
	T       Translate
	Event   events.Event
	Message string
}

// Views holds the component factories. Nil fields fall back to the built-in
// markup.
type Views struct {
	Page             func(PageParams) templ.Component
	Form             func(FormParams) templ.Component
	CategoryField    func(FormParams) templ.Component
	SubCategoryField func(FormParams) templ.Component
	Confirmation     func(ConfirmationParams) templ.Component
	ActivityItem     func(ActivityParams) templ.Component
	ErrorPage        func(handler.ErrorPageParams) templ.Component
	ErrorToast       func(handler.ErrorToastParams) templ.Component
}

func (v Views) withDefaults() *Views {
	if v.Page == nil {
		v.Page = pageView
	}
	if v.CategoryField == nil {
		v.CategoryField = categoryFieldView
	}
	if v.SubCategoryField == nil {
		v.SubCategoryField = subCategoryFieldView
	}
	if v.Confirmation == nil {
		v.Confirmation = confirmationView
	}
	if v.ActivityItem == nil {
		v.ActivityItem = activityItemView
	}
	if v.ErrorPage == nil {
		v.ErrorPage = errorPageView
	}
	if v.ErrorToast == nil {
		v.ErrorToast = errorToastView
	}
	out := &v
	if out.Form == nil {
		out.Form = func(p FormParams) templ.Component { return formView(out, p) }
	}
	return out
}

// formSignals is the initial datastar signal set of the form.
func formSignals(p FormParams) string {
	b, _ := json.Marshal(map[string]string{
		"categoryId":    p.Selection.CategoryID.String(),
		"subCategoryId": p.Selection.SubCategoryID.String(),
	})
	return string(b)
}
